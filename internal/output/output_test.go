package output

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetupLogging(LogConfig{Verbose: verbose, Writer: &buf})
	t.Cleanup(func() { SetupLogging(LogConfig{}) })
	return &buf
}

func TestSetupLogging_InfoHidesDebug(t *testing.T) {
	buf := captureLog(t, false)
	Debug("hidden-msg")
	Info("shown-msg", "path", "package.json")

	out := buf.String()
	assert.NotContains(t, out, "hidden-msg")
	assert.Contains(t, out, "shown-msg")
	assert.Contains(t, out, "path=package.json")
}

func TestSetupLogging_VerboseEnablesDebug(t *testing.T) {
	buf := captureLog(t, true)
	Debug("verbose-msg")
	assert.Contains(t, buf.String(), "verbose-msg")
}

func TestWarnAndError(t *testing.T) {
	buf := captureLog(t, false)
	Warn("careful")
	Error("broken")
	assert.Contains(t, buf.String(), "careful")
	assert.Contains(t, buf.String(), "broken")
}

func TestFormatters(t *testing.T) {
	assert.Contains(t, FormatStep("Scaffolding project in %s...", "/tmp/app"), "/tmp/app")
	assert.Contains(t, FormatSuccess("Project created successfully!"), "Project created successfully!")
	assert.Contains(t, FormatWarning("install failed"), "install failed")
	assert.Contains(t, FormatCancelled(), "Operation cancelled.")
	assert.Contains(t, FormatError(errors.New("boom")), "boom")
	assert.Contains(t, FormatURL("API", "http://localhost:3000/api"), "http://localhost:3000/api")
}

func TestFormatCommand(t *testing.T) {
	line := FormatCommand("npm run dev", 16, "Start development")
	assert.Contains(t, line, "npm run dev")
	assert.Contains(t, line, "Start development")

	assert.NotContains(t, FormatCommand("cd app", 16, ""), " - ")
}

func TestBanner(t *testing.T) {
	b := Banner()
	assert.Contains(t, b, "Codingin Starterpack")
	assert.Contains(t, b, "React Vite + NestJS Fullstack Monorepo")
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

// Tests never run with a terminal on stdout, so the action runs directly.
func TestRunWithSpinner_NoTTY(t *testing.T) {
	if IsTTY() {
		t.Skip("stdout is a terminal")
	}
	called := false
	err := RunWithSpinner(context.Background(), "working", func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	want := errors.New("pull failed")
	err = RunWithSpinner(context.Background(), "working", func() error { return want })
	assert.ErrorIs(t, err, want)
}
