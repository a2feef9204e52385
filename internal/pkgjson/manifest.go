package pkgjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/codingin/create-starterpack/internal/model"
	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
)

// FileName is the manifest file name inside a package directory.
const FileName = "package.json"

// Manifest holds the package.json fields the CLI uses.
type Manifest struct {
	// Name is the package name. In a scaffolded project it is the
	// normalized project name.
	Name string `json:"name"`

	// Version is the package version string.
	Version string `json:"version,omitempty"`

	// Private marks the package as unpublishable.
	Private bool `json:"private,omitempty"`

	// Scripts maps npm script names to their commands.
	Scripts map[string]string `json:"scripts,omitempty"`

	// Workspaces lists the workspace globs of a monorepo root.
	Workspaces Workspaces `json:"workspaces,omitempty"`
}

// Workspaces accepts both the array form ["apps/*"] and the object form
// {"packages": ["apps/*"]} used by yarn.
type Workspaces []string

// UnmarshalJSON decodes either workspaces form.
func (w *Workspaces) UnmarshalJSON(data []byte) error {
	// npm, pnpm and bun use the array form.
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*w = list
		return nil
	}

	// yarn classic also accepts {"packages": [...], "nohoist": [...]};
	// only packages matters here.
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("workspaces must be an array or an object with packages: %w", err)
	}
	*w = obj.Packages
	return nil
}

// Parse decodes manifest bytes, tolerating comments and trailing commas.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	// npm itself rejects comments, but editors and some tools write them;
	// jsonc.ToJSON strips them and trailing commas without moving offsets.
	if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &m, nil
}

// Load reads the manifest in dir.
func Load(fsys afero.Fs, dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		// A missing manifest is reported with the filesystem exit code so
		// callers can tell it apart from a malformed one.
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.WrapCLIError(model.ExitFilesystemError,
				fmt.Sprintf("%s not found: %s", FileName, path), err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Script is a runnable npm script suggested to the user after scaffolding.
type Script struct {
	// Name is the key under "scripts", run as "<pm> run <name>".
	Name string `json:"name" yaml:"name"`

	// Description is the one-line explanation shown next to the command.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// wellKnownScripts are suggested in this order when the manifest defines them.
var wellKnownScripts = []Script{
	{Name: "dev", Description: "Start development (frontend + backend)"},
	{Name: "build", Description: "Build for production"},
	{Name: "start", Description: "Start production server (single port)"},
}

// NextScripts returns the well-known scripts the manifest defines, in the
// order dev, build, start.
func (m *Manifest) NextScripts() []Script {
	// Iterate the fixed list, not the map, so the order is stable and
	// only scripts with a known meaning are suggested.
	var out []Script
	for _, s := range wellKnownScripts {
		if _, ok := m.Scripts[s.Name]; ok {
			out = append(out, s)
		}
	}
	return out
}

// ScriptNames returns the names of NextScripts.
func (m *Manifest) ScriptNames() []string {
	scripts := m.NextScripts()
	names := make([]string, 0, len(scripts))
	for _, s := range scripts {
		names = append(names, s.Name)
	}
	return names
}
