package cli

// create.go implements the create flow run by the root command.
//
// Orchestration steps:
//  1. Resolve settings (flags, environment, config file, defaults)
//  2. Ask for the project name when it was not given
//  3. Scaffold the template into ./<project-name>
//  4. Install dependencies (soft failure)
//  5. Initialize git (soft failure)
//  6. Print next steps (text) or the project record (json, yaml)

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/codingin/create-starterpack/internal/config"
	"github.com/codingin/create-starterpack/internal/install"
	"github.com/codingin/create-starterpack/internal/model"
	"github.com/codingin/create-starterpack/internal/output"
	"github.com/codingin/create-starterpack/internal/pkgjson"
	"github.com/codingin/create-starterpack/internal/scaffold"
	"github.com/codingin/create-starterpack/internal/template"
)

// options holds flag values that are not part of config.Config.
type options struct {
	force      bool
	verbose    bool
	configFile string
}

// app binds the root command to its collaborators.
type app struct {
	deps *Deps
	opts options
}

func (a *app) setupLogging(_ *cobra.Command, _ []string) error {
	output.SetupLogging(output.LogConfig{Verbose: a.opts.verbose, Writer: a.deps.Err})
	return nil
}

func (a *app) runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Resolve settings.
	cfg, err := config.Load(viper.New(), cmd.Flags(), a.opts.configFile)
	if err != nil {
		return err
	}
	// Record the format so Execute renders a later error the same way.
	cmd.Root().Annotations[annotationOutput] = cfg.Output
	if cfg.File != "" {
		output.Debug("loaded config file", "path", cfg.File)
	}

	// Decoration goes to stderr so stdout carries only the result.
	if !cfg.Machine() {
		_, _ = fmt.Fprintln(a.deps.Err, output.Banner())
	}

	// Step 2: Determine the project name. An empty argument counts as
	// missing and falls back to the prompt.
	var name string
	if len(args) > 0 && args[0] != "" {
		name = args[0]
	} else {
		name, err = a.deps.Prompter.ProjectName(ctx, template.DefaultProjectName)
		if err != nil {
			return err
		}
	}

	// The target is always ./<name>, exactly as typed; only the package
	// name inside is normalized.
	wd, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitFilesystemError, "failed to determine working directory", err)
	}
	target := filepath.Join(wd, name)

	// Step 3: Scaffold. The progress line is printed once the target is
	// cleared, so a declined overwrite never announces a copy.
	s := scaffold.New(a.deps.Prompter)
	s.FS = a.deps.FS
	if !cfg.Machine() {
		s.BeforeCopy = func(target string) {
			_, _ = fmt.Fprintln(a.deps.Err)
			_, _ = fmt.Fprintln(a.deps.Err, output.FormatStep("Scaffolding project in %s...", target))
		}
	}
	project, err := s.Run(ctx, scaffold.Request{ProjectName: name, TargetDir: target, Force: a.opts.force})
	if err != nil {
		return err
	}

	// Suggested scripts come from the manifest that was just written,
	// so the next steps never mention a script the template lacks.
	var scripts []pkgjson.Script
	if manifest, err := pkgjson.Load(a.deps.FS, project.TargetDir); err != nil {
		output.Debug("could not read package.json, skipping script suggestions", "err", err)
	} else {
		scripts = manifest.NextScripts()
		project.Scripts = manifest.ScriptNames()
	}

	// Step 4: Install dependencies.
	if cfg.Install {
		if err := a.install(ctx, cfg, project); err != nil {
			return err
		}
	}

	// Step 5: Initialize git. It runs after the install so the lockfile
	// lands in the initial commit.
	if cfg.Git {
		status, err := a.deps.Git.Setup(ctx, project.TargetDir)
		project.Git = status
		if err != nil {
			a.warn(cfg, fmt.Sprintf("Failed to initialize git repository: %v", err))
		} else if status == model.GitInsideWorkTree {
			output.Info("target is inside an existing git work tree, skipping git init", "path", project.TargetDir)
		}
	}

	// Step 6: Output results.
	return renderProject(a.deps.Out, cfg, project, scripts)
}

// install runs the configured installer and records the outcome on
// project. A failed install is reported as a warning; only an interrupt
// aborts the run.
func (a *app) install(ctx context.Context, cfg *config.Config, project *model.Project) error {
	// Package manager output must not mix with a machine-readable result.
	stdout := a.deps.Out
	if cfg.Machine() {
		stdout = a.deps.Err
	}

	// The installer's name is recorded even when the install fails, so
	// the result shows what was attempted.
	inst := a.deps.NewInstaller(cfg, stdout, a.deps.Err)
	project.Installer = inst.Name()

	if !cfg.Machine() {
		_, _ = fmt.Fprintln(a.deps.Err)
		_, _ = fmt.Fprintln(a.deps.Err, output.FormatStep("Installing dependencies..."))
		_, _ = fmt.Fprintln(a.deps.Err)
	}
	output.Debug("running installer", "installer", inst.Name(), "dir", project.TargetDir)

	if err := inst.Install(ctx, project.TargetDir); err != nil {
		// An interrupt kills the package manager too; that is the user
		// stopping the run, not an install failure.
		if ctx.Err() != nil || errors.Is(err, model.ErrUserCancelled) {
			return model.ErrUserCancelled
		}
		project.Install = model.InstallFailed
		output.Debug("install failed", "err", err)
		a.warn(cfg, fmt.Sprintf("Failed to install dependencies. You can try running %q manually.",
			install.ManualCommand(cfg.PackageManager)))
		return nil
	}
	project.Install = model.InstallSucceeded
	return nil
}

// warn reports a soft failure: a styled line in text mode, a log record
// otherwise.
func (a *app) warn(cfg *config.Config, msg string) {
	if cfg.Machine() {
		output.Warn(msg)
		return
	}
	_, _ = fmt.Fprintln(a.deps.Err, output.FormatWarning(msg))
}

