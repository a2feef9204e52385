package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Use these instead of inline lipgloss.Color literals.
var (
	// ColorCyan is used for progress lines, commands and paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the success line.
	ColorGreen = lipgloss.Color("10")

	// ColorYellow is used for soft-failure warnings.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for cancellation and errors.
	ColorRed = lipgloss.Color("196")

	// ColorGray is used for labels and structural chrome.
	ColorGray = lipgloss.Color("245")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns: paths, commands, URLs.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleLabel styles dim labels in the next-steps block.
	StyleLabel = lipgloss.NewStyle().Foreground(ColorGray)

	// StyleTitle styles headings.
	StyleTitle = lipgloss.NewStyle().Bold(true)

	styleSuccess = lipgloss.NewStyle().Foreground(ColorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(ColorYellow)
	styleFailure = lipgloss.NewStyle().Foreground(ColorRed)
)

// FormatStep renders a progress line such as "⏳ Installing dependencies...".
func FormatStep(format string, args ...interface{}) string {
	return StyleNoun.Render("⏳ " + fmt.Sprintf(format, args...))
}

// FormatSuccess renders a green checkmark line.
func FormatSuccess(msg string) string {
	return styleSuccess.Render("✅ " + msg)
}

// FormatWarning renders a yellow warning line.
func FormatWarning(msg string) string {
	return styleWarning.Render("⚠  " + msg)
}

// FormatCancelled renders the cancellation line.
func FormatCancelled() string {
	return styleFailure.Render("✖ Operation cancelled.")
}

// FormatError renders an "Error:" prefixed line.
func FormatError(err error) string {
	return styleFailure.Render("Error:") + " " + err.Error()
}

// FormatCommand renders a next-step command padded to width, followed by a
// dim description when one is given.
func FormatCommand(cmd string, width int, desc string) string {
	line := StyleNoun.Render(fmt.Sprintf("%-*s", width, cmd))
	if desc == "" {
		return line
	}
	return line + " - " + desc
}

// FormatURL renders a labelled URL line such as "Frontend:  http://...".
func FormatURL(label, url string) string {
	return StyleLabel.Render(fmt.Sprintf("%-10s", label+":")) + " " + url
}
