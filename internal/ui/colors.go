package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for status indication, as ANSI codes for terminal
// compatibility.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Brand accents, shared with the dashboard palette.
const (
	ColorNeonPink    lipgloss.Color = "#FF2E97"
	ColorNeonPurple  lipgloss.Color = "#BF40FF"
	ColorNeonCyan    lipgloss.Color = "#00FFFF"
	ColorNeonGreen   lipgloss.Color = "#39FF14"
	ColorGlassBorder lipgloss.Color = "#2A2A4A"
)

// GradientColors is the spinner color cycle (pink -> purple -> cyan -> green).
var GradientColors = []lipgloss.Color{
	ColorNeonPink,
	ColorNeonPurple,
	ColorNeonCyan,
	ColorNeonGreen,
}

// Thresholds decide when a usage percentage turns yellow or red.
type Thresholds struct {
	Warning  float64
	Critical float64
}

// DefaultThresholds returns the built-in 70/90 split.
func DefaultThresholds() Thresholds {
	return Thresholds{Warning: 70, Critical: 90}
}

// Color returns the semantic color for percent.
func (t Thresholds) Color(percent float64) lipgloss.Color {
	switch {
	case percent >= t.Critical:
		return ColorError
	case percent >= t.Warning:
		return ColorWarning
	default:
		return ColorSuccess
	}
}
