package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/codingin/create-starterpack/internal/docker"
	"github.com/codingin/create-starterpack/internal/naming"
	"github.com/codingin/create-starterpack/internal/output"
)

// Installer installs dependencies in a project directory.
type Installer interface {
	// Install blocks until the install finishes. The directory must
	// already contain the project's package.json.
	Install(ctx context.Context, dir string) error

	// Name identifies the installer in results, e.g. "npm" or "docker:npm".
	Name() string
}

// Command returns the argv that installs dependencies with pm.
func Command(pm string) []string {
	return []string{pm, "install"}
}

// ManualCommand is the command the user is told to run after a failure.
func ManualCommand(pm string) string {
	return strings.Join(Command(pm), " ")
}

// ExecInstaller runs the package manager as a child process of the CLI.
type ExecInstaller struct {
	// PackageManager is the executable to run: npm, pnpm, yarn or bun.
	PackageManager string

	// Stdout and Stderr receive the child's output. They default to the
	// CLI's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Name returns the package manager.
func (e *ExecInstaller) Name() string {
	return e.PackageManager
}

// Install runs "<pm> install" in dir with inherited stdin.
func (e *ExecInstaller) Install(ctx context.Context, dir string) error {
	argv := Command(e.PackageManager)

	// #nosec G204 -- the package manager is validated against a fixed list
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	// Stdin is inherited so a package manager that asks a question can
	// still be answered.
	cmd.Stdin = os.Stdin
	cmd.Stdout = writerOr(e.Stdout, os.Stdout)
	cmd.Stderr = writerOr(e.Stderr, os.Stderr)

	output.Debug("running package manager", "cmd", strings.Join(argv, " "), "dir", dir)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", strings.Join(argv, " "), err)
	}
	return nil
}

// DockerInstaller runs the package manager inside a Node container with the
// project bind-mounted, so no Node toolchain is needed on the host.
type DockerInstaller struct {
	// PackageManager is npm, pnpm, yarn or bun. pnpm and yarn are enabled
	// through corepack, which ships with the official Node images.
	PackageManager string

	// Image is the Node image to run.
	Image string

	// Spinner shows a spinner while the image is pulled.
	Spinner bool

	// Stdout and Stderr receive the container's output.
	Stdout io.Writer
	Stderr io.Writer

	// now is overridden in tests.
	now func() time.Time
}

// Name returns "docker:" followed by the package manager.
func (d *DockerInstaller) Name() string {
	return "docker:" + d.PackageManager
}

// containerCommand returns the command run in the container. The container
// runs as an unprivileged user on Linux, so nothing may be installed into
// the image's global prefix: corepack runs pnpm and yarn directly from its
// cache and npx fetches bun into the npm cache, both under HOME.
func (d *DockerInstaller) containerCommand() []string {
	switch d.PackageManager {
	case "pnpm", "yarn":
		return append([]string{"corepack"}, Command(d.PackageManager)...)
	case "bun":
		return append([]string{"npx", "--yes"}, Command(d.PackageManager)...)
	default:
		return Command(d.PackageManager)
	}
}

// spec builds the container description for dir. The project label uses
// the normalized directory name, matching the package name inside.
func (d *DockerInstaller) spec(dir string) docker.InstallSpec {
	now := time.Now
	if d.now != nil {
		now = d.now
	}
	return docker.InstallSpec{
		Project:        naming.Normalize(filepath.Base(dir)),
		TargetDir:      dir,
		PackageManager: d.PackageManager,
		Image:          d.Image,
		CreatedAt:      now(),
	}
}

// Install connects to the daemon, removes containers left by earlier
// interrupted installs, pulls the image if needed and runs the install.
func (d *DockerInstaller) Install(ctx context.Context, dir string) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	// Fail fast with a clear "daemon unavailable" before any pull.
	if err := cli.Ping(ctx); err != nil {
		return err
	}

	// Leftovers from an earlier killed run are harmless, so a cleanup
	// failure is only logged.
	if n, err := docker.RemoveStale(ctx, cli); err != nil {
		output.Debug("stale container cleanup failed", "err", err)
	} else if n > 0 {
		output.Debug("removed stale install containers", "count", n)
	}

	pull := func() error { return docker.EnsureImage(ctx, cli, d.Image) }
	if d.Spinner {
		err = output.RunWithSpinner(ctx, "Pulling "+d.Image+"...", pull)
	} else {
		err = pull()
	}
	if err != nil {
		return err
	}

	return docker.RunInstall(ctx, cli, d.spec(dir), d.containerCommand(),
		writerOr(d.Stdout, os.Stdout), writerOr(d.Stderr, os.Stderr))
}

// writerOr returns w, or fallback when w is nil.
func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
