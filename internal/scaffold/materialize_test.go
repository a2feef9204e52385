package scaffold

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/codingin/create-starterpack/internal/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialize_CopiesTree(t *testing.T) {
	src := fstest.MapFS{
		"package.json":              {Data: []byte(`{"name":"{{projectName}}"}`), Mode: 0o644},
		"_gitignore":                {Data: []byte("node_modules/\n"), Mode: 0o644},
		"apps/frontend/index.html":  {Data: []byte("<title>{{projectName}}</title>"), Mode: 0o644},
		"apps/backend/src/main.ts":  {Data: []byte("bootstrap();\n"), Mode: 0o644},
		"packages/shared/src/empty": {Data: []byte{}, Mode: 0o644},
	}
	dst := afero.NewMemMapFs()

	require.NoError(t, Materialize(src, dst, "/work/app"))

	for name, file := range src {
		got, err := afero.ReadFile(dst, filepath.Join("/work/app", name))
		require.NoError(t, err, name)
		assert.Equal(t, file.Data, got, name)
	}

	isDir, err := afero.IsDir(dst, "/work/app/apps/backend/src")
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestMaterialize_PreservesPermissions(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "run.sh"), []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "config.json"), []byte("{}"), 0o640))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "readonly.txt"), []byte("ro"), 0o444))
	require.NoError(t, os.Chmod(filepath.Join(srcDir, "run.sh"), 0o755))
	require.NoError(t, os.Chmod(filepath.Join(srcDir, "config.json"), 0o640))
	require.NoError(t, os.Chmod(filepath.Join(srcDir, "readonly.txt"), 0o444))

	target := filepath.Join(t.TempDir(), "app")
	require.NoError(t, Materialize(os.DirFS(srcDir), afero.NewOsFs(), target))

	tests := []struct {
		name string
		want fs.FileMode
	}{
		{"run.sh", 0o755},
		{"config.json", 0o640},
		// Owner-write is always added so later stages can rewrite files.
		{"readonly.txt", 0o644},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := os.Stat(filepath.Join(target, tt.name))
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.Mode().Perm())
		})
	}
}

func TestMaterialize_EmbeddedReadOnlyModesBecomeWritable(t *testing.T) {
	src := fstest.MapFS{
		"package.json": {Data: []byte("{}"), Mode: 0o444},
	}
	target := filepath.Join(t.TempDir(), "app")
	require.NoError(t, Materialize(src, afero.NewOsFs(), target))

	info, err := os.Stat(filepath.Join(target, "package.json"))
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o644), info.Mode().Perm())
}

func TestMaterialize_RecreatesSymlinks(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "real.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink("real.txt", filepath.Join(srcDir, "link.txt")))

	target := filepath.Join(t.TempDir(), "app")
	require.NoError(t, Materialize(os.DirFS(srcDir), afero.NewOsFs(), target))

	link, err := os.Readlink(filepath.Join(target, "link.txt"))
	require.NoError(t, err)
	assert.Equal(t, "real.txt", link)
}

// plainFS hides every optional interface of the wrapped filesystem.
type plainFS struct{ fs.FS }

// plainFs exposes only the afero.Fs methods, so it cannot create links.
type plainFs struct{ afero.Fs }

func TestMaterialize_SymlinkUnsupported(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.Symlink("elsewhere", filepath.Join(srcDir, "link")))

	t.Run("source cannot read links", func(t *testing.T) {
		err := Materialize(plainFS{os.DirFS(srcDir)}, afero.NewOsFs(), filepath.Join(t.TempDir(), "app"))
		require.Error(t, err)
		assert.Equal(t, model.ExitFilesystemError, model.ExitCodeOf(err))
	})

	t.Run("destination cannot create links", func(t *testing.T) {
		err := Materialize(os.DirFS(srcDir), plainFs{afero.NewOsFs()}, filepath.Join(t.TempDir(), "app"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot create links")
	})
}

func TestMaterialize_MissingTemplate(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	err := Materialize(os.DirFS(missing), afero.NewMemMapFs(), "/app")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTemplateMissing)
	assert.Equal(t, model.ExitPackagingDefect, model.ExitCodeOf(err))
}

func TestMaterialize_DestinationFailure(t *testing.T) {
	src := fstest.MapFS{"package.json": {Data: []byte("{}")}}
	err := Materialize(src, afero.NewReadOnlyFs(afero.NewMemMapFs()), "/app")
	require.Error(t, err)
	assert.Equal(t, model.ExitFilesystemError, model.ExitCodeOf(err))
}
