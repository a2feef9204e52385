package template

import (
	"io/fs"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_ContainsEscapedEntries(t *testing.T) {
	fsys := FS()

	for from := range DefaultRenameMapping() {
		_, err := fs.Stat(fsys, from)
		assert.NoError(t, err, "escaped entry %s should be bundled", from)
	}

	info, err := fs.Stat(fsys, "_github")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = fs.Stat(fsys, "_github/workflows/ci.yml")
	assert.NoError(t, err)
}

func TestDefaults_Valid(t *testing.T) {
	require.NoError(t, DefaultRenameMapping().Validate())
	require.NoError(t, DefaultPlaceholderFiles().Validate())
	assert.Equal(t, "package.json", DefaultPlaceholderFiles()[0])
}

func TestDefaultRenameMapping_ReturnsCopy(t *testing.T) {
	m := DefaultRenameMapping()
	delete(m, "_gitignore")
	assert.Contains(t, DefaultRenameMapping(), "_gitignore")
}

// TestTemplateConsistency keeps the rename mapping and placeholder list in
// sync with the bundled files.
func TestTemplateConsistency(t *testing.T) {
	fsys := FS()
	mapping := DefaultRenameMapping()
	listed := map[string]bool{}
	for _, p := range DefaultPlaceholderFiles() {
		listed[p] = true
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if p != "." && strings.HasPrefix(name, ".") {
			t.Errorf("%s: dot entries must be stored escaped with a leading underscore", p)
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		if strings.Contains(string(data), Token) && !listed[p] {
			t.Errorf("%s contains %s but is not a placeholder file", p, Token)
		}
		return nil
	})
	require.NoError(t, err)

	for p := range listed {
		data, err := fs.ReadFile(fsys, p)
		require.NoError(t, err, "placeholder file %s must be bundled", p)
		assert.Contains(t, string(data), Token, "%s lists no placeholder", p)
	}

	for from, to := range mapping {
		assert.Equal(t, "_"+strings.TrimPrefix(to, "."), from)
		assert.Equal(t, from, path.Base(from))
	}
}

// TestTemplateHasNoExecutables checks that no bundled file relies on the
// executable bit, which embedding drops.
func TestTemplateHasNoExecutables(t *testing.T) {
	err := fs.WalkDir(FS(), ".", func(p string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(FS(), p)
		require.NoError(t, err)
		assert.False(t, strings.HasPrefix(string(data), "#!"),
			"%s starts with a shebang; invoke it through its interpreter instead", p)
		assert.NotEqual(t, ".sh", path.Ext(p), "%s would arrive without its executable bit", p)
		return nil
	})
	require.NoError(t, err)
}
