package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/codingin/create-starterpack/internal/model"
	"github.com/spf13/afero"
)

// RenameEntries walks dir depth-first and renames every entry whose name is
// a key of mapping to the mapped name, in place. A renamed directory is
// descended into under its new name. Files outside the mapping are left
// alone and symbolic links are never followed.
//
// Each directory is listed once before any of its entries are renamed, so
// an entry renamed to another mapped name is not renamed twice.
//
// It returns the new paths of renamed entries, slash-separated and relative
// to dir. If a destination name already exists the walk stops with a
// packaging-defect CLIError wrapping model.ErrRenameConflict.
func RenameEntries(fsys afero.Fs, dir string, mapping model.RenameMapping) ([]string, error) {
	var renamed []string
	if err := renameIn(fsys, dir, "", mapping, &renamed); err != nil {
		return renamed, err
	}
	return renamed, nil
}

// renameIn renames the mapped entries of dir and recurses into every
// subdirectory. rel is dir relative to the walk root, slash-separated.
func renameIn(fsys afero.Fs, dir, rel string, mapping model.RenameMapping, renamed *[]string) error {
	// Snapshot of the listing, sorted by name.
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return model.WrapCLIError(model.ExitFilesystemError,
			fmt.Sprintf("failed to read directory %s", dir), err)
	}

	for _, entry := range entries {
		name := entry.Name()
		isDir := entry.IsDir()

		// Unmapped directories are still walked: escaped names can appear
		// at any depth (e.g. apps/backend/_gitignore).
		to, mapped := mapping[name]
		if !mapped {
			if isDir {
				if err := renameIn(fsys, filepath.Join(dir, name), path.Join(rel, name), mapping, renamed); err != nil {
					return err
				}
			}
			continue
		}

		from := filepath.Join(dir, name)
		dest := filepath.Join(dir, to)

		// Rename would silently replace a file on POSIX, so a clash is
		// detected up front and reported as a template defect.
		exists, err := entryExists(fsys, dest)
		if err != nil {
			return model.WrapCLIError(model.ExitFilesystemError,
				fmt.Sprintf("failed to check %s", dest), err)
		}
		if exists {
			return model.WrapCLIError(model.ExitPackagingDefect,
				fmt.Sprintf("cannot rename %s to %s", path.Join(rel, name), to),
				model.ErrRenameConflict)
		}

		if err := fsys.Rename(from, dest); err != nil {
			return model.WrapCLIError(model.ExitFilesystemError,
				fmt.Sprintf("failed to rename %s to %s", from, dest), err)
		}
		*renamed = append(*renamed, path.Join(rel, to))

		// Descend under the new name; the old path no longer exists.
		if isDir {
			if err := renameIn(fsys, dest, path.Join(rel, to), mapping, renamed); err != nil {
				return err
			}
		}
	}
	return nil
}

// entryExists reports whether name exists without following a final
// symbolic link when the filesystem supports lstat.
func entryExists(fsys afero.Fs, name string) (bool, error) {
	var err error
	if lstater, ok := fsys.(afero.Lstater); ok {
		_, _, err = lstater.LstatIfPossible(name)
	} else {
		_, err = fsys.Stat(name)
	}
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
