package scaffold

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/codingin/create-starterpack/internal/model"
	"github.com/spf13/afero"
)

// ownerWrite is added to every copied entry. Embedded templates report
// read-only modes, and the later stages rewrite files in place.
const ownerWrite fs.FileMode = 0o200

// Materialize copies the whole src tree into targetRoot on dst, creating
// targetRoot and any missing parents. Directories and regular files are
// copied with their permission bits; file contents are streamed byte for
// byte. Symbolic links are recreated when src can read links and dst can
// create them, and are an error otherwise.
//
// targetRoot is expected not to exist; Scaffolder removes it first when the
// user agrees to overwrite. Any failure aborts the copy and is returned as
// a filesystem CLIError.
func Materialize(src fs.FS, dst afero.Fs, targetRoot string) error {
	// A missing template root means the binary was built without its
	// template, which is a packaging problem rather than a user error.
	if _, err := fs.Stat(src, "."); err != nil {
		return model.WrapCLIError(model.ExitPackagingDefect, "template is not readable",
			fmt.Errorf("%w: %v", model.ErrTemplateMissing, err))
	}

	err := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error walking template at %s: %w", path, walkErr)
		}

		// fs.FS paths are always slash-separated; the destination uses the
		// host separator.
		target := filepath.Join(targetRoot, filepath.FromSlash(path))

		switch {
		// Symlinks are checked first: DirEntry.IsDir never reports true
		// for a link, even one pointing at a directory.
		case d.Type()&fs.ModeSymlink != 0:
			return copySymlink(src, dst, path, target)

		case d.IsDir():
			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", path, err)
			}
			// The owner needs full access to rename children and to
			// remove the tree on a later overwrite.
			mode := info.Mode().Perm() | 0o700
			if err := dst.MkdirAll(target, mode); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			// MkdirAll is subject to the umask.
			if err := dst.Chmod(target, mode); err != nil {
				return fmt.Errorf("failed to set permissions on %s: %w", target, err)
			}
			return nil

		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", path, err)
			}
			return copyFile(src, dst, path, target, info.Mode().Perm()|ownerWrite)

		// Devices, pipes and sockets have no place in a template.
		default:
			return fmt.Errorf("unsupported file type %s at %s", d.Type(), path)
		}
	})
	if err != nil {
		// Keep a classified error from a nested stage; everything else is
		// an I/O failure on the destination.
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			return err
		}
		return model.WrapCLIError(model.ExitFilesystemError, "failed to copy template", err)
	}
	return nil
}

// copyFile streams a single template file to target with the given mode.
func copyFile(src fs.FS, dst afero.Fs, path, target string, mode fs.FileMode) error {
	in, err := src.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open template file %s: %w", path, err)
	}
	defer func() { _ = in.Close() }()

	// O_TRUNC so a file left by an interrupted earlier copy is replaced
	// rather than appended to.
	out, err := dst.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", path, target, err)
	}
	// Close errors matter on write: buffered data may fail to flush.
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", target, err)
	}

	// OpenFile applies the umask to mode.
	if err := dst.Chmod(target, mode); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", target, err)
	}
	return nil
}

// copySymlink recreates a symbolic link without following it.
func copySymlink(src fs.FS, dst afero.Fs, path, target string) error {
	reader, ok := src.(fs.ReadLinkFS)
	if !ok {
		return fmt.Errorf("template entry %s is a symlink but the template cannot read links", path)
	}
	linker, ok := dst.(afero.Linker)
	if !ok {
		return fmt.Errorf("template entry %s is a symlink but the destination cannot create links", path)
	}

	// The link text is copied verbatim, so relative links keep pointing
	// inside the new tree.
	link, err := reader.ReadLink(path)
	if err != nil {
		return fmt.Errorf("failed to read link %s: %w", path, err)
	}
	if err := linker.SymlinkIfPossible(link, target); err != nil {
		return fmt.Errorf("failed to create link %s: %w", target, err)
	}
	return nil
}
