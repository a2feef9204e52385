package pkgjson

import (
	"testing"

	"github.com/codingin/create-starterpack/internal/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_WithComments(t *testing.T) {
	data := []byte(`{
  // root manifest
  "name": "my-app",
  "version": "0.1.0",
  "private": true,
  "workspaces": ["apps/*", "packages/*",],
  "scripts": {
    "dev": "vite", /* inline */
    "build": "tsc",
  },
}`)

	m, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "my-app", m.Name)
	assert.Equal(t, "0.1.0", m.Version)
	assert.True(t, m.Private)
	assert.Equal(t, Workspaces{"apps/*", "packages/*"}, m.Workspaces)
	assert.Equal(t, "vite", m.Scripts["dev"])
}

func TestParse_WorkspacesObjectForm(t *testing.T) {
	m, err := Parse([]byte(`{"name":"x","workspaces":{"packages":["apps/*"],"nohoist":["**/foo"]}}`))
	require.NoError(t, err)
	assert.Equal(t, Workspaces{"apps/*"}, m.Workspaces)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `name: x`},
		{"bad workspaces", `{"workspaces": 3}`},
		{"bad scripts", `{"scripts": ["dev"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/app/package.json", []byte(`{"name":"app"}`), 0o644))

	m, err := Load(fsys, "/app")
	require.NoError(t, err)
	assert.Equal(t, "app", m.Name)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nowhere")
	require.Error(t, err)
	assert.Equal(t, model.ExitFilesystemError, model.ExitCodeOf(err))
}

func TestNextScripts(t *testing.T) {
	tests := []struct {
		name    string
		scripts map[string]string
		want    []string
	}{
		{"all three in fixed order", map[string]string{"start": "s", "lint": "l", "build": "b", "dev": "d"}, []string{"dev", "build", "start"}},
		{"subset", map[string]string{"build": "b"}, []string{"build"}},
		{"none", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{Scripts: tt.scripts}
			assert.Equal(t, tt.want, m.ScriptNames())
			for _, s := range m.NextScripts() {
				assert.NotEmpty(t, s.Description)
			}
		})
	}
}
