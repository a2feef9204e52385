// Package main is the entry point for the create-starterpack CLI.
//
// It delegates all functionality to the internal/cli package. Build-time
// variables (version, commit, date) are injected via ldflags and default
// to "dev", "none" and "unknown" during development.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/codingin/create-starterpack/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// Interrupts cancel the context; prompts and the installer observe it
	// and the run ends as a cancellation.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewRootCommand())
	stop()
	os.Exit(code)
}
