package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/codingin/create-starterpack/internal/model"
	"github.com/codingin/create-starterpack/internal/output"
	"github.com/spf13/afero"
)

// Substitute replaces every occurrence of token with replacement in each
// listed file, in list order. Paths are slash-separated and relative to
// root. A listed file that does not exist is skipped. Files not on the list
// are never opened.
//
// Each file keeps its permission bits. It returns the listed paths whose
// content changed.
func Substitute(fsys afero.Fs, root string, files model.PlaceholderFileList, token, replacement string) ([]string, error) {
	if token == "" {
		return nil, errors.New("placeholder token must not be empty")
	}

	// Substitution is byte-level: the token is ASCII and template files
	// are UTF-8, so a byte match is always a character match.
	old := []byte(token)
	repl := []byte(replacement)
	var changed []string

	for _, rel := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))

		// Optional files may be absent from a trimmed template.
		info, err := fsys.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			output.Debug("placeholder file not present, skipping", "path", rel)
			continue
		}
		if err != nil {
			return changed, model.WrapCLIError(model.ExitFilesystemError,
				fmt.Sprintf("failed to stat %s", rel), err)
		}
		if info.IsDir() {
			return changed, model.NewCLIError(model.ExitFilesystemError,
				fmt.Sprintf("placeholder path %s is a directory", rel))
		}

		data, err := afero.ReadFile(fsys, p)
		if err != nil {
			return changed, model.WrapCLIError(model.ExitFilesystemError,
				fmt.Sprintf("failed to read %s", rel), err)
		}
		// Untouched files are not rewritten, so their timestamps and
		// the returned list only reflect real changes.
		if !bytes.Contains(data, old) {
			continue
		}

		// The file already exists, so WriteFile truncates it and the mode
		// argument does not change its permissions.
		if err := afero.WriteFile(fsys, p, bytes.ReplaceAll(data, old, repl), info.Mode().Perm()); err != nil {
			return changed, model.WrapCLIError(model.ExitFilesystemError,
				fmt.Sprintf("failed to write %s", rel), err)
		}
		output.Debug("substituted placeholder", "path", rel)
		changed = append(changed, rel)
	}
	return changed, nil
}
