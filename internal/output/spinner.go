package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// RunWithSpinner runs action while a spinner with the given title is shown.
// Without a terminal the action simply runs. The action's error is returned.
func RunWithSpinner(ctx context.Context, title string, action func() error) error {
	// A spinner on a pipe or CI log only produces escape-code noise.
	if !IsTTY() {
		return action()
	}

	// Buffered so the action never blocks on send if the spinner has
	// already returned because ctx was cancelled.
	done := make(chan error, 1)
	spinErr := spinner.New().
		Title(title).
		Context(ctx).
		Action(func() {
			done <- action()
		}).
		Run()
	if spinErr != nil {
		return fmt.Errorf("spinner error: %w", spinErr)
	}

	// The spinner returns once the action finishes or ctx is done;
	// prefer the action's own result when both are ready.
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
