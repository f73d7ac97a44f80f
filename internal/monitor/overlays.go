package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysdash/internal/escalation"
)

var statsKeyStyle = lipgloss.NewStyle().
	Foreground(ColorTextSecondary).
	Width(18)

// renderStats renders cache, error and performance statistics.
func (m Model) renderStats() string {
	s := m.stats
	row := func(k, v string) string {
		return statsKeyStyle.Render(k) + ValueStyle.Render(v)
	}

	lines := []string{
		overlayTitleStyle.Render("Engine Stats"),
		row("run", s.RunID),
		row("cycles", fmt.Sprintf("%d", s.State.CycleCount)),
		row("cadence", formatCadence(s.State.CadenceMs)),
		row("degraded", fmt.Sprintf("%t", s.State.Degraded)),
		"",
		row("avg cycle", fmt.Sprintf("%.1f ms", s.Performance.AverageMs)),
		row("last cycle", fmt.Sprintf("%.1f ms", s.Performance.LastMs)),
		row("max cycle", fmt.Sprintf("%.1f ms", s.Performance.MaxMs)),
		row("skipped ticks", fmt.Sprintf("%d", s.Performance.SkippedTicks)),
		row("slow cycles", fmt.Sprintf("%d", s.Performance.SlowCycles)),
		"",
		row("cache entries", fmt.Sprintf("%d", s.Cache.Size)),
		row("cache ttl", s.Cache.TTL.String()),
		"",
		row("errors", fmt.Sprintf("%d", s.Errors.Total)),
	}

	for _, kind := range escalation.Kinds {
		if s.Errors.CountKind(kind) == 0 {
			continue
		}
		var parts []string
		for _, sev := range escalation.Severities {
			if n := s.Errors.Count(kind, sev); n > 0 {
				parts = append(parts, fmt.Sprintf("%s %d", strings.ToLower(sev.String()), n))
			}
		}
		lines = append(lines, row("  "+string(kind), strings.Join(parts, "  ")))
	}

	lines = append(lines, "", LabelStyle.Render("Press s or esc to close"))
	return overlayBoxStyle.Render(strings.Join(lines, "\n"))
}

// renderErrorOverlay wraps the scrollable error log.
func (m Model) renderErrorOverlay() string {
	title := overlayTitleStyle.Render(fmt.Sprintf("Error Log (%d/%d)",
		len(m.ctrl.ErrorLog()), m.ctrl.MaxLogSize()))
	footer := LabelStyle.Render("↑/↓ scroll · e or esc to close")
	return overlayBoxStyle.Render(title + "\n" + m.errorLog.View() + "\n\n" + footer)
}

// renderErrorLog renders records newest first, one per line.
func renderErrorLog(records []escalation.Record, width int) string {
	if len(records) == 0 {
		return MutedStyle.Render("No errors recorded")
	}

	lines := make([]string, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		sev := lipgloss.NewStyle().Foreground(SeverityColor(r.Severity)).Bold(true).
			Render(fmt.Sprintf("%-8s", r.Severity))
		text := string(r.Kind)
		if r.Source != "" {
			text += " " + r.Source
		}
		text += ": " + firstLine(r.Message)

		prefix := MutedStyle.Render(r.Timestamp.Format("15:04:05")) + " " + sev + " "
		lines = append(lines, prefix+ValueStyle.Render(
			truncateWithEllipsis(text, max(width-lipgloss.Width(prefix), 10))))
	}
	return strings.Join(lines, "\n")
}

// renderBlockingNotice renders the oldest notice that needs dismissal.
func (m Model) renderBlockingNotice() string {
	n := m.blocking[0]
	color := SeverityColor(n.Severity)

	title := "Degraded"
	if n.Severity == escalation.SeverityCritical {
		title = "Critical failure"
	}

	lines := []string{
		lipgloss.NewStyle().Foreground(color).Bold(true).Render(title),
		"",
		ValueStyle.Render(n.Message),
		"",
	}
	if more := len(m.blocking) - 1; more > 0 {
		lines = append(lines, MutedStyle.Render(fmt.Sprintf("+%d more", more)))
	}
	lines = append(lines, LabelStyle.Render("Press esc or enter to dismiss"))

	box := overlayBoxStyle.BorderForeground(color)
	if m.width > 0 {
		box = box.MaxWidth(max(m.width-4, 20))
	}
	return box.Render(strings.Join(lines, "\n"))
}
