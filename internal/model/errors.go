package model

import (
	"errors"
	"fmt"
)

// ErrUserCancelled is returned when the user declines to overwrite an
// existing directory or aborts an interactive prompt. It is not a failure:
// the process exits with status 0.
var ErrUserCancelled = errors.New("operation cancelled")

// ErrRenameConflict is wrapped when a rename destination already exists.
// The mapping is controlled by the template author, so this indicates a
// packaging defect rather than bad user input.
var ErrRenameConflict = errors.New("rename destination already exists")

// ErrTemplateMissing is wrapped when the bundled template root cannot be read.
var ErrTemplateMissing = errors.New("template root is missing")

// ExitCode defines the process exit codes of the CLI.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully. A user
	// cancellation also exits with this code.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates a usage, configuration or unclassified error.
	ExitGeneralError ExitCode = 1

	// ExitFilesystemError indicates a copy, rename, read or write failed.
	ExitFilesystemError ExitCode = 2

	// ExitPackagingDefect indicates the bundled template itself is malformed
	// (missing template root, rename conflict).
	ExitPackagingDefect ExitCode = 3
)

// String returns a short diagnostic label for the exit code.
func (c ExitCode) String() string {
	switch c {
	case ExitSuccess:
		return "success"
	case ExitGeneralError:
		return "error"
	case ExitFilesystemError:
		return "filesystem error"
	case ExitPackagingDefect:
		return "packaging defect"
	default:
		return fmt.Sprintf("exit code %d", int(c))
	}
}

// CLIError is an error that carries the exit code the CLI should
// terminate with.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error returns the message, followed by the underlying error when present.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeOf returns the exit code an error should map to. Cancellation maps
// to ExitSuccess, a CLIError anywhere in the chain maps to its own code, and
// everything else is ExitGeneralError.
func ExitCodeOf(err error) ExitCode {
	if err == nil || errors.Is(err, ErrUserCancelled) {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}
