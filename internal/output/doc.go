// Package output provides terminal output utilities for create-starterpack:
// the process-wide structured logger, the lipgloss palette and message
// formatters, the banner, a spinner for long-running steps and TTY
// detection.
//
// Log output and progress lines go to stderr. Stdout is reserved for the
// final result (human summary, JSON or YAML) so it can be piped.
package output
