package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stdout is attached to a terminal.
func IsTTY() bool {
	// Fd is a uintptr; term takes an int on every supported platform.
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsTerminal reports whether w is an *os.File attached to a terminal.
// Buffers and pipes are never terminals.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
