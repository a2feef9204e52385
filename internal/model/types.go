package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RenameMapping maps a literal template entry name to the name it must have
// in the scaffolded project (e.g. "_gitignore" -> ".gitignore").
//
// Template entries are stored with escaped names because package registries
// and version control tooling treat real dotfiles specially. The mapping is
// applied at every directory depth.
type RenameMapping map[string]string

// Keys returns the mapping keys in sorted order for stable output.
func (m RenameMapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that every key and value is a single path element.
// A mapping entry containing a separator could move entries across
// directories, which the renamer never does.
func (m RenameMapping) Validate() error {
	for _, from := range m.Keys() {
		to := m[from]
		if !isPathElement(from) {
			return fmt.Errorf("rename mapping: invalid source name %q", from)
		}
		if !isPathElement(to) {
			return fmt.Errorf("rename mapping: invalid target name %q for %q", to, from)
		}
		if from == to {
			return fmt.Errorf("rename mapping: %q maps to itself", from)
		}
	}
	return nil
}

// PlaceholderFileList is the ordered set of slash-separated paths, relative
// to the project root, that are eligible for placeholder substitution.
// Files not on the list are never scanned.
type PlaceholderFileList []string

// Validate checks that every entry is a clean relative path that stays
// inside the project root.
func (l PlaceholderFileList) Validate() error {
	seen := make(map[string]bool, len(l))
	for _, p := range l {
		if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
			return fmt.Errorf("placeholder files: invalid path %q", p)
		}
		for _, elem := range strings.Split(p, "/") {
			if elem == "" || elem == "." || elem == ".." {
				return fmt.Errorf("placeholder files: path %q must be clean and relative", p)
			}
		}
		if seen[p] {
			return fmt.Errorf("placeholder files: duplicate path %q", p)
		}
		seen[p] = true
	}
	return nil
}

func isPathElement(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\\")
}

// InstallStatus records the outcome of the dependency installation step.
type InstallStatus string

const (
	// InstallSkipped means installation was disabled (--no-install).
	InstallSkipped InstallStatus = "skipped"

	// InstallSucceeded means the package manager exited successfully.
	InstallSucceeded InstallStatus = "succeeded"

	// InstallFailed means the package manager failed. The project is still
	// usable; the user is told to retry manually.
	InstallFailed InstallStatus = "failed"
)

// String satisfies fmt.Stringer.
func (s InstallStatus) String() string {
	return string(s)
}

// GitStatus records the outcome of the optional repository initialization.
type GitStatus string

const (
	// GitSkipped means --git was not requested.
	GitSkipped GitStatus = "skipped"

	// GitInitialized means a new repository with an initial commit exists.
	GitInitialized GitStatus = "initialized"

	// GitInsideWorkTree means the target already lives inside a work tree,
	// so no nested repository was created.
	GitInsideWorkTree GitStatus = "inside-work-tree"

	// GitFailed means git init or the initial commit failed.
	GitFailed GitStatus = "failed"
)

// String satisfies fmt.Stringer.
func (s GitStatus) String() string {
	return string(s)
}

// Project describes a finished scaffold run. It is the payload of the
// json and yaml output formats.
type Project struct {
	// Name is the project name as the user typed it. It is also the name
	// of the target directory.
	Name string `json:"name" yaml:"name"`

	// PackageName is the normalized name substituted for the placeholder token.
	PackageName string `json:"packageName" yaml:"packageName"`

	// TargetDir is the absolute path of the scaffolded directory.
	TargetDir string `json:"targetDir" yaml:"targetDir"`

	// Overwritten is true when a pre-existing directory was removed first.
	Overwritten bool `json:"overwritten" yaml:"overwritten"`

	// Renamed lists the entries renamed by the mapping, relative to TargetDir,
	// using their new names.
	Renamed []string `json:"renamed,omitempty" yaml:"renamed,omitempty"`

	// Substituted lists the placeholder files that were rewritten.
	Substituted []string `json:"substituted,omitempty" yaml:"substituted,omitempty"`

	// Install is the dependency installation outcome.
	Install InstallStatus `json:"install" yaml:"install"`

	// Installer names the installer that ran (e.g. "npm", "docker:npm").
	Installer string `json:"installer,omitempty" yaml:"installer,omitempty"`

	// Git is the repository initialization outcome.
	Git GitStatus `json:"git" yaml:"git"`

	// Scripts lists the runnable package.json scripts suggested as next steps.
	Scripts []string `json:"scripts,omitempty" yaml:"scripts,omitempty"`

	// CreatedAt is when the run finished materializing the template.
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// ContainerInfo holds runtime information about a Docker container started
// by the containerized installer. It is fetched from the Docker API, never
// persisted.
type ContainerInfo struct {
	// ContainerID is the Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable container name, without the
	// leading slash the API adds.
	ContainerName string `json:"containerName"`

	// Status is the Docker state (e.g. "running", "exited", "created").
	Status string `json:"status"`

	// Labels is the full label set, including the starterpack.* labels.
	Labels map[string]string `json:"labels,omitempty"`
}
