// Package scaffold turns the bundled template into a project directory.
//
// A run has four stages, executed strictly in order by Scaffolder.Run:
//
//  1. prepare the target: ask the Confirmer before replacing an existing
//     directory, then remove it
//  2. Materialize: copy the template tree into the target
//  3. RenameEntries: restore escaped dotfile names at every depth
//  4. Substitute: replace the placeholder token in the listed files
//
// The stages take the rename mapping and placeholder file list as data and
// operate on an afero.Fs, so tests run them against in-memory or temporary
// filesystems. Nothing is rolled back once the copy starts; a failed run
// leaves a partial directory that the next run offers to overwrite.
package scaffold
