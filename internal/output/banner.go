package output

import "github.com/charmbracelet/lipgloss"

// bannerStyle draws a double-line box around the banner text.
var bannerStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(ColorCyan).
	Padding(0, 2)

// Banner returns the boxed product banner printed at the start of a
// text-mode run.
func Banner() string {
	return bannerStyle.Render(
		StyleTitle.Render("🚀 Codingin Starterpack") + "\n" +
			"React Vite + NestJS Fullstack Monorepo",
	)
}
