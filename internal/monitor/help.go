package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Help overlay styles
var (
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(10)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelp renders the keyboard shortcut box from keyMap.
func (m Model) renderHelp() string {
	var lines []string
	lines = append(lines, overlayTitleStyle.Render("Keyboard Shortcuts"))

	for _, b := range keyMap {
		h := b.Help()
		lines = append(lines, helpKeyStyle.Render(h.Key)+helpDescStyle.Render(h.Desc))
	}

	lines = append(lines, "")
	lines = append(lines, LabelStyle.Render("Press ? to close"))

	return overlayBoxStyle.Render(strings.Join(lines, "\n"))
}

// place centers box in the terminal. Before the first resize it returns
// box unchanged.
func (m Model) place(box string) string {
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}
