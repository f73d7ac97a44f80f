package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysdash/internal/escalation"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Semantic colors for metrics
	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")

	ColorGraph = lipgloss.Color("#00FFFF")
)

// Default thresholds for metric severity coloring.
const (
	DefaultWarningThreshold  = 70.0
	DefaultCriticalThreshold = 90.0
)

// Thresholds decide when a usage percentage turns amber or red.
type Thresholds struct {
	Warning  float64
	Critical float64
}

// DefaultThresholds returns the built-in 70/90 split.
func DefaultThresholds() Thresholds {
	return Thresholds{Warning: DefaultWarningThreshold, Critical: DefaultCriticalThreshold}
}

// Color returns the threshold color for percent.
func (t Thresholds) Color(percent float64) lipgloss.Color {
	switch {
	case percent >= t.Critical:
		return ColorCritical
	case percent >= t.Warning:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// Style returns a foreground style in the threshold color for percent.
func (t Thresholds) Style(percent float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Color(percent))
}

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1).
			MarginBottom(1)

	// CardFailedStyle marks a card whose source failed this cycle.
	CardFailedStyle = CardStyle.
			BorderForeground(ColorCritical)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	DegradedBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorDarkBg).
				Background(ColorWarning).
				Bold(true).
				Padding(0, 1)

	UnavailableStyle = lipgloss.NewStyle().
				Foreground(ColorCritical).
				Bold(true)

	overlayBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	overlayTitleStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true).
				MarginBottom(1)
)

// SeverityColor maps a notice severity to its display color.
func SeverityColor(s escalation.Severity) lipgloss.Color {
	switch s {
	case escalation.SeverityLow:
		return ColorTextSecondary
	case escalation.SeverityMedium:
		return ColorWarning
	case escalation.SeverityHigh, escalation.SeverityCritical:
		return ColorCritical
	}
	return ColorTextSecondary
}

// ProgressBar renders a bracketless bar colored by t.
func ProgressBar(width int, percent float64, t Thresholds) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
	return t.Style(percent).Render(bar)
}
