// Package template bundles the fullstack monorepo starter that the CLI
// scaffolds, together with the declarative data the scaffold stages need:
// the placeholder token, the rename mapping and the placeholder file list.
//
// Template entries whose real names start with a dot are stored with a
// leading underscore instead (_gitignore, _github, ...). Package registries
// and version control drop or interpret real dotfiles, so the escaped names
// survive packaging and the renamer restores them after the copy.
//
// When adding a file to files/:
//
//   - if its real name starts with ".", store it as "_name" and add the
//     pair to DefaultRenameMapping
//   - if it contains {{projectName}}, add its project-relative path to
//     DefaultPlaceholderFiles
//   - do not rely on the executable bit: embed.FS reports every file as
//     0444, so a script copied from files/ arrives as 0644. Invoke scripts
//     through their interpreter (e.g. "sh scripts/setup.sh" in a
//     package.json script) instead of directly.
//
// TestTemplateConsistency fails when either list drifts from files/.
package template
