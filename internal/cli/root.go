// Package cli implements the cobra command of create-starterpack.
//
// The root command is the create flow itself: it resolves settings,
// prompts for a project name when none is given, scaffolds the bundled
// template, optionally installs dependencies and initializes git, and
// prints the result as text, JSON or YAML.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/codingin/create-starterpack/internal/config"
	"github.com/codingin/create-starterpack/internal/gitrepo"
	"github.com/codingin/create-starterpack/internal/install"
	"github.com/codingin/create-starterpack/internal/model"
	"github.com/codingin/create-starterpack/internal/output"
)

// Version, Commit and Date are set from main, which receives them via
// ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// annotationOutput stores the resolved output format on the root command
// so Execute can format errors the same way as results.
const annotationOutput = "starterpack.output"

// GitInitializer sets up version control in a scaffolded project.
type GitInitializer interface {
	Setup(ctx context.Context, path string) (model.GitStatus, error)
}

// InstallerFactory builds the installer for the resolved settings. stdout
// and stderr receive the package manager's output.
type InstallerFactory func(cfg *config.Config, stdout, stderr io.Writer) install.Installer

// Deps are the collaborators of the create flow. Zero fields are filled
// with the real implementations by NewRootCommandWithDeps.
type Deps struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Prompter asks for the project name and overwrite confirmation.
	// Defaults to a TerminalPrompter on In and Err.
	Prompter Prompter

	NewInstaller InstallerFactory
	Git          GitInitializer
	FS           afero.Fs
}

func (d *Deps) withDefaults() *Deps {
	out := *d
	if out.In == nil {
		out.In = os.Stdin
	}
	if out.Out == nil {
		out.Out = os.Stdout
	}
	if out.Err == nil {
		out.Err = os.Stderr
	}
	if out.Prompter == nil {
		out.Prompter = NewTerminalPrompter(out.In, out.Err)
	}
	if out.NewInstaller == nil {
		out.NewInstaller = defaultInstaller
	}
	if out.Git == nil {
		out.Git = gitrepo.NewManager()
	}
	if out.FS == nil {
		out.FS = afero.NewOsFs()
	}
	return &out
}

func defaultInstaller(cfg *config.Config, stdout, stderr io.Writer) install.Installer {
	if cfg.Docker {
		return &install.DockerInstaller{
			PackageManager: cfg.PackageManager,
			Image:          cfg.DockerImage,
			Spinner:        !cfg.Machine(),
			Stdout:         stdout,
			Stderr:         stderr,
		}
	}
	return &install.ExecInstaller{
		PackageManager: cfg.PackageManager,
		Stdout:         stdout,
		Stderr:         stderr,
	}
}

// NewRootCommand returns the root command wired to the real terminal,
// filesystem, package manager and git.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithDeps(Deps{})
}

// NewRootCommandWithDeps returns the root command using deps.
func NewRootCommandWithDeps(deps Deps) *cobra.Command {
	a := &app{deps: deps.withDefaults()}

	rootCmd := &cobra.Command{
		Use:   "create-starterpack [project-name]",
		Short: "Scaffold a React + NestJS fullstack monorepo",
		Long: `create-starterpack creates a new fullstack monorepo (React + Vite frontend,
NestJS backend, shared types package) in ./<project-name>.

The project name is asked for when omitted. It names the directory as given
and, normalized to a valid npm package name, the packages inside it.

Examples:
  create-starterpack my-app
  create-starterpack "My Cool App" --package-manager pnpm --git
  create-starterpack my-app --no-install -o json
  create-starterpack my-app --docker --docker-image node:20-alpine`,
		// The project name is optional; it is prompted for when absent.
		Args: cobra.MaximumNArgs(1),

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors leaves error output to Execute, which knows the
		// output format of the run.
		SilenceErrors: true,

		// Version is displayed when --version is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// Annotations carries the resolved output format back to Execute.
		Annotations: map[string]string{},

		// Logging is configured once flags are parsed so --verbose applies
		// to every step.
		PersistentPreRunE: a.setupLogging,
		RunE:              a.runCreate,
	}
	// Route cobra's own output (help, version, usage) through the same
	// streams as the create flow.
	rootCmd.SetIn(a.deps.In)
	rootCmd.SetOut(a.deps.Out)
	rootCmd.SetErr(a.deps.Err)

	// Settings flags are named after their config keys so config.Load can
	// bind them to viper directly.
	f := rootCmd.Flags()
	f.BoolVarP(&a.opts.force, "force", "f", false, "Overwrite an existing directory without asking")
	f.Bool("no-install", false, "Skip dependency installation")
	f.String(config.KeyPackageManager, config.DefaultPackageManager, "Package manager: npm, pnpm, yarn or bun")
	f.Bool(config.KeyDocker, false, "Install dependencies inside a Node container")
	f.String(config.KeyDockerImage, config.DefaultDockerImage, "Image used with --docker")
	f.Bool(config.KeyGit, false, "Initialize a git repository with an initial commit")
	f.StringP(config.KeyOutput, "o", config.DefaultOutput, "Output format: text, json or yaml")

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&a.opts.configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/create-starterpack/config.yaml)")

	return rootCmd
}

// Execute runs rootCmd and returns the process exit code. Errors are
// printed to stderr in the output format of the run. A cancelled run
// prints a notice and exits 0.
func Execute(ctx context.Context, rootCmd *cobra.Command) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return int(model.ExitSuccess)
	}

	// The annotation is only set once config loaded; earlier failures
	// (bad flags, bad config) fall back to the raw --output value.
	format := rootCmd.Annotations[annotationOutput]
	if format == "" {
		format, _ = rootCmd.Flags().GetString(config.KeyOutput)
	}

	if errors.Is(err, model.ErrUserCancelled) {
		printCancelled(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr(), format)
		return int(model.ExitSuccess)
	}

	printError(rootCmd.ErrOrStderr(), format, err)
	return int(model.ExitCodeOf(err))
}

// printCancelled reports a cancellation. Text mode writes the notice to
// stdout where the success message would have gone; the machine formats
// keep stdout empty.
func printCancelled(stdout, stderr io.Writer, format string) {
	switch format {
	case "json", "yaml":
		writeStructured(stderr, format, map[string]interface{}{
			"cancelled": true,
			"message":   model.ErrUserCancelled.Error(),
		})
	default:
		_, _ = fmt.Fprintln(stdout)
		_, _ = fmt.Fprintln(stdout, output.FormatCancelled())
	}
}

// printError writes err to w as text, or as an {"error": {...}} object in
// the machine-readable formats.
func printError(w io.Writer, format string, err error) {
	switch format {
	case "json", "yaml":
		body := map[string]interface{}{
			"message":  err.Error(),
			"exitCode": int(model.ExitCodeOf(err)),
		}
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			body["message"] = cliErr.Message
			if cliErr.Err != nil {
				body["detail"] = cliErr.Err.Error()
			}
		}
		writeStructured(w, format, map[string]interface{}{"error": body})
	default:
		_, _ = fmt.Fprintln(w, output.FormatError(err))
	}
}

func writeStructured(w io.Writer, format string, v interface{}) {
	if format == "yaml" {
		data, err := yaml.Marshal(v)
		if err == nil {
			_, _ = w.Write(data)
		}
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err == nil {
		_, _ = fmt.Fprintln(w, string(data))
	}
}
