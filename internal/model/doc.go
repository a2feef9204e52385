// Package model defines the domain types and value objects for the
// create-starterpack CLI.
//
// This package contains pure data structures with no external dependencies:
// the declarative rename mapping and placeholder file list consumed by the
// scaffold stages, the Project result of a run, and the exit codes and
// CLIError type the CLI layer uses to terminate the process.
package model
