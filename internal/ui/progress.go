package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Progress bar block characters.
const (
	progressFilled = "█"
	progressEmpty  = "░"
)

// RenderProgressBar renders a usage bar followed by the percentage:
//
//	████████░░░░  67%
//
// percent is clamped to 0-100 and the bar is colored by t.
func RenderProgressBar(percent float64, width int, t Thresholds) string {
	if width <= 0 {
		return ""
	}

	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	filled := int((percent / 100.0) * float64(width))
	bar := strings.Repeat(progressFilled, filled) + strings.Repeat(progressEmpty, width-filled)

	style := lipgloss.NewStyle().Foreground(t.Color(percent))
	return style.Render(bar) + fmt.Sprintf(" %3.0f%%", percent)
}
