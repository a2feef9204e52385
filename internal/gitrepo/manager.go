package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/codingin/create-starterpack/internal/model"
	"github.com/codingin/create-starterpack/internal/output"
)

// ErrGitNotFound is returned when no git executable is on PATH.
var ErrGitNotFound = errors.New("git executable not found")

// DefaultCommitMessage is the message of the initial commit.
const DefaultCommitMessage = "Initial commit from create-starterpack"

// Manager runs git commands. The zero value uses "git" from PATH.
type Manager struct {
	// Binary overrides the git executable.
	Binary string
}

// NewManager returns a Manager using git from PATH.
func NewManager() *Manager {
	return &Manager{}
}

// binary returns the configured executable, defaulting to "git".
func (m *Manager) binary() string {
	if m.Binary != "" {
		return m.Binary
	}
	return "git"
}

// Available reports whether the git executable can be found.
func (m *Manager) Available() bool {
	_, err := exec.LookPath(m.binary())
	return err == nil
}

// IsInsideWorkTree reports whether path is inside an existing work tree.
func (m *Manager) IsInsideWorkTree(ctx context.Context, path string) bool {
	// rev-parse fails outside a repository, which simply means "no". It
	// walks up from path, so a parent repository counts as well.
	out, err := m.run(ctx, path, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// Init creates an empty repository in path.
func (m *Manager) Init(ctx context.Context, path string) error {
	_, err := m.run(ctx, path, "init", "--quiet")
	return err
}

// CommitAll stages every file in path and commits with message.
func (m *Manager) CommitAll(ctx context.Context, path, message string) error {
	// --all also picks up dotfiles restored by the renamer. Files listed
	// in the generated .gitignore (node_modules, .env) stay untracked.
	if _, err := m.run(ctx, path, "add", "--all"); err != nil {
		return err
	}
	// A missing user.name/user.email makes this fail; the caller reports
	// it as a soft failure and the repository stays initialized.
	_, err := m.run(ctx, path, "commit", "--quiet", "-m", message)
	return err
}

// Setup initializes a repository with an initial commit in path, unless
// path is already inside a work tree.
func (m *Manager) Setup(ctx context.Context, path string) (model.GitStatus, error) {
	// Checked first so a missing git is reported clearly instead of as an
	// exec error from the first command.
	if !m.Available() {
		return model.GitFailed, ErrGitNotFound
	}
	// A project scaffolded inside another repository (e.g. a monorepo)
	// must not get a nested .git directory.
	if m.IsInsideWorkTree(ctx, path) {
		output.Debug("target is inside a git work tree, skipping init", "path", path)
		return model.GitInsideWorkTree, nil
	}
	if err := m.Init(ctx, path); err != nil {
		return model.GitFailed, err
	}
	if err := m.CommitAll(ctx, path, DefaultCommitMessage); err != nil {
		return model.GitFailed, err
	}
	return model.GitInitialized, nil
}

// run executes git -C path args and returns stdout. stderr is included
// in the error message on failure.
func (m *Manager) run(ctx context.Context, path string, args ...string) (string, error) {
	// -C runs git in path without changing the process's working
	// directory, which other goroutines may depend on.
	fullArgs := append([]string{"-C", path}, args...)

	// #nosec G204 -- arguments are built internally
	cmd := exec.CommandContext(ctx, m.binary(), fullArgs...)

	// stdout is the result; stderr is kept for the error message since
	// git explains its failures there.
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if s := strings.TrimSpace(stderr.String()); s != "" {
			message = fmt.Sprintf("%s: %s", message, s)
		}
		return "", fmt.Errorf("%s: %w", message, err)
	}
	return stdout.String(), nil
}
