package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codingin/create-starterpack/internal/model"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const token = "{{projectName}}"

func memFiles(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, filepath.Join("/app", filepath.FromSlash(name)), []byte(content), 0o644))
	}
	return fsys
}

func readMem(t *testing.T, fsys afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, filepath.Join("/app", filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func TestSubstitute_ReplacesEveryOccurrence(t *testing.T) {
	fsys := memFiles(t, map[string]string{
		"package.json":             `{"name":"{{projectName}}","deps":{"@{{projectName}}/shared":"*"}}`,
		"apps/frontend/index.html": "<title>{{projectName}}{{projectName}}</title>",
	})

	changed, err := Substitute(fsys, "/app",
		model.PlaceholderFileList{"package.json", "apps/frontend/index.html"}, token, "my-app")
	require.NoError(t, err)

	assert.Equal(t, []string{"package.json", "apps/frontend/index.html"}, changed)
	assert.Equal(t, `{"name":"my-app","deps":{"@my-app/shared":"*"}}`, readMem(t, fsys, "package.json"))
	assert.Equal(t, "<title>my-appmy-app</title>", readMem(t, fsys, "apps/frontend/index.html"))
}

func TestSubstitute_LeavesUnlistedFiles(t *testing.T) {
	fsys := memFiles(t, map[string]string{
		"package.json": "{{projectName}}",
		"README.md":    "# {{projectName}}",
	})

	_, err := Substitute(fsys, "/app", model.PlaceholderFileList{"package.json"}, token, "x")
	require.NoError(t, err)

	assert.Equal(t, "x", readMem(t, fsys, "package.json"))
	assert.Equal(t, "# {{projectName}}", readMem(t, fsys, "README.md"))
}

func TestSubstitute_SkipsMissingFiles(t *testing.T) {
	fsys := memFiles(t, map[string]string{"package.json": "{{projectName}}"})

	changed, err := Substitute(fsys, "/app",
		model.PlaceholderFileList{"apps/frontend/package.json", "package.json", "apps/frontend/index.html"}, token, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"package.json"}, changed)

	exists, err := afero.Exists(fsys, "/app/apps/frontend/package.json")
	require.NoError(t, err)
	assert.False(t, exists, "missing files must not be created")
}

func TestSubstitute_UnchangedFileNotReported(t *testing.T) {
	fsys := memFiles(t, map[string]string{"package.json": `{"name":"fixed"}`})

	changed, err := Substitute(fsys, "/app", model.PlaceholderFileList{"package.json"}, token, "x")
	require.NoError(t, err)
	assert.Empty(t, changed)
	assert.Equal(t, `{"name":"fixed"}`, readMem(t, fsys, "package.json"))
}

func TestSubstitute_DirectoryIsError(t *testing.T) {
	fsys := memFiles(t, map[string]string{"package.json/inner": "x"})

	_, err := Substitute(fsys, "/app", model.PlaceholderFileList{"package.json"}, token, "x")
	require.Error(t, err)
	assert.Equal(t, model.ExitFilesystemError, model.ExitCodeOf(err))
}

func TestSubstitute_EmptyToken(t *testing.T) {
	fsys := memFiles(t, map[string]string{"package.json": "x"})
	_, err := Substitute(fsys, "/app", model.PlaceholderFileList{"package.json"}, "", "y")
	assert.Error(t, err)
}

func TestSubstitute_PreservesMode(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "run.sh")
	require.NoError(t, os.WriteFile(p, []byte("echo {{projectName}}"), 0o750))
	require.NoError(t, os.Chmod(p, 0o750))

	_, err := Substitute(afero.NewOsFs(), root, model.PlaceholderFileList{"run.sh"}, token, "app")
	require.NoError(t, err)

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "echo app", string(data))
}

func TestSubstituteProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every occurrence is replaced", prop.ForAll(
		func(n int, filler, name string) bool {
			content := strings.Repeat(filler+token, n) + filler
			fsys := afero.NewMemMapFs()
			if err := afero.WriteFile(fsys, "/app/package.json", []byte(content), 0o644); err != nil {
				return false
			}
			if _, err := Substitute(fsys, "/app", model.PlaceholderFileList{"package.json"}, token, name); err != nil {
				return false
			}
			got, err := afero.ReadFile(fsys, "/app/package.json")
			if err != nil {
				return false
			}
			return string(got) == strings.Repeat(filler+name, n)+filler &&
				!strings.Contains(string(got), token)
		},
		gen.IntRange(0, 20),
		gen.AlphaString(),
		gen.RegexMatch(`[a-z0-9~-]{1,16}`),
	))

	properties.TestingRun(t)
}
