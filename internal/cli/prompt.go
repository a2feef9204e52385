package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/codingin/create-starterpack/internal/model"
	"github.com/codingin/create-starterpack/internal/output"
)

// Prompter asks the interactive questions of the create flow. It also
// serves as the scaffold.Confirmer of the run.
type Prompter interface {
	// ProjectName asks for the project name. An empty answer selects
	// initial.
	ProjectName(ctx context.Context, initial string) (string, error)

	// ConfirmOverwrite asks whether the existing directory name may be
	// replaced.
	ConfirmOverwrite(ctx context.Context, name string) (bool, error)
}

// TerminalPrompter reads answers line by line from a reader and writes the
// questions to a writer. End of input and context cancellation both yield
// model.ErrUserCancelled.
type TerminalPrompter struct {
	// in is shared by all questions so input typed ahead is not lost
	// between them.
	in *bufio.Reader

	// out receives the questions. The CLI passes stderr so prompts never
	// end up in a redirected result.
	out io.Writer
}

// NewTerminalPrompter returns a prompter reading from in and writing to out.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

// ProjectName asks for the project name until a non-blank answer is given.
// The answer is trimmed.
func (p *TerminalPrompter) ProjectName(ctx context.Context, initial string) (string, error) {
	for {
		_, _ = fmt.Fprintf(p.out, "%s Project name: %s ",
			output.StyleNoun.Render("?"), output.StyleLabel.Render("("+initial+")"))

		line, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		// Pressing Enter accepts the default shown in parentheses.
		if line == "" {
			return initial, nil
		}
		if name := strings.TrimSpace(line); name != "" {
			return name, nil
		}
		_, _ = fmt.Fprintln(p.out, output.FormatWarning("Project name is required"))
	}
}

// ConfirmOverwrite asks a yes/no question defaulting to no.
func (p *TerminalPrompter) ConfirmOverwrite(ctx context.Context, name string) (bool, error) {
	_, _ = fmt.Fprintf(p.out, "%s Directory %q already exists. Overwrite? %s ",
		output.StyleNoun.Render("?"), name, output.StyleLabel.Render("[y/N]"))

	line, err := p.readLine(ctx)
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// readLine returns the next line without its line ending. A final line
// without a newline is returned as is; end of input before any text is a
// cancellation.
func (p *TerminalPrompter) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	// Reads cannot be interrupted, so the read runs in a goroutine and
	// ctx is raced against it. On cancel the goroutine is abandoned; the
	// process exits right after.
	ch := make(chan result, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- result{line: line, err: err}
	}()

	select {
	// Finish the prompt line so the cancellation notice starts on a
	// fresh line.
	case <-ctx.Done():
		_, _ = fmt.Fprintln(p.out)
		return "", model.ErrUserCancelled
	case r := <-ch:
		if r.err != nil {
			if !errors.Is(r.err, io.EOF) {
				return "", model.WrapCLIError(model.ExitGeneralError, "failed to read user input", r.err)
			}
			if r.line == "" {
				_, _ = fmt.Fprintln(p.out)
				return "", model.ErrUserCancelled
			}
		}
		return strings.TrimRight(r.line, "\r\n"), nil
	}
}
