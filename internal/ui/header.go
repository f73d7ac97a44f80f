package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Version string // e.g. "v0.1.0"
	Tagline string // optional
	Host    string // optional hostname line
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// RenderHeader renders the branded sysdash header.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ColorNeonPink).
		Bold(true)

	versionStyle := lipgloss.NewStyle().
		Foreground(ColorNeonCyan)

	var output strings.Builder

	output.WriteString(titleStyle.Render("sysdash"))
	if info.Version != "" {
		output.WriteString(" ")
		output.WriteString(versionStyle.Render(info.Version))
	}
	output.WriteString("\n")

	if info.Tagline != "" {
		output.WriteString(lipgloss.NewStyle().Foreground(ColorSecondary).Render(info.Tagline))
		output.WriteString("\n")
	}

	if info.Host != "" {
		output.WriteString(lipgloss.NewStyle().Foreground(ColorMuted).Render(info.Host))
		output.WriteString("\n")
	}

	output.WriteString(lipgloss.NewStyle().Foreground(ColorGlassBorder).Render(strings.Repeat("━", HeaderWidth)))
	output.WriteString("\n")

	return output.String()
}

// PrintHeader writes the styled header to w.
func PrintHeader(w io.Writer, info HeaderInfo) {
	fmt.Fprint(w, RenderHeader(info))
}
