package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if notices := m.renderNotices(); notices != "" {
		b.WriteString(notices)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderCards())

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title bar with cycle, cadence and degraded state.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("sysdash")

	if !m.hasSnap {
		return HeaderStyle.Render(title + LabelStyle.Render(" | waiting for first refresh"))
	}

	st := m.snap.State
	info := fmt.Sprintf(" | cycle %d | every %s | updated %s",
		st.CycleCount,
		formatCadence(st.CadenceMs),
		m.snap.At.Format("15:04:05"))

	header := HeaderStyle.Render(title + LabelStyle.Render(info))
	if st.Degraded {
		header += " " + DegradedBadgeStyle.Render("DEGRADED")
	}
	return header
}

// renderNotices renders the transient notices, newest last.
func (m Model) renderNotices() string {
	if len(m.notices) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.notices))
	for _, n := range m.notices {
		style := lipgloss.NewStyle().Foreground(SeverityColor(n.Severity))
		lines = append(lines, style.Render(" ● "+n.Message))
	}
	return strings.Join(lines, "\n")
}

// renderCards renders one card per source in display order.
func (m Model) renderCards() string {
	cardWidth := m.calculateCardWidth()

	cards := make([]string, 0, len(metrics.AllSources))
	for _, src := range metrics.AllSources {
		cards = append(cards, m.renderCard(src, cardWidth))
	}
	return m.layoutCards(cards, cardWidth)
}

// calculateCardWidth determines the card width based on terminal width.
func (m Model) calculateCardWidth() int {
	if m.width == 0 {
		return defaultCardWidth
	}
	if m.width >= BreakpointCompact {
		return wideCardWidth
	}
	return max(m.width-4, 20)
}

// layoutCards arranges cards in rows based on terminal width.
func (m Model) layoutCards(cards []string, cardWidth int) string {
	if len(cards) == 0 {
		return ""
	}

	cardsPerRow := 1
	if m.width > 0 {
		// Account for card margins and borders
		effectiveCardWidth := cardWidth + 3
		cardsPerRow = max(m.width/effectiveCardWidth, 1)
	}

	var rows []string
	for i := 0; i < len(cards); i += cardsPerRow {
		end := min(i+cardsPerRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFooter renders the key hints from the key table.
func (m Model) renderFooter() string {
	var hints []string
	for _, b := range keyMap {
		if !b.Footer {
			continue
		}
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

// formatCadence renders a cadence in milliseconds as 2s, 1.5s or 750ms.
func formatCadence(ms int64) string {
	switch {
	case ms < 1000:
		return fmt.Sprintf("%dms", ms)
	case ms%1000 == 0:
		return fmt.Sprintf("%ds", ms/1000)
	default:
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
}

// FormatRate formats a KB/s rate as a human-readable string.
func FormatRate(kbps float64) string {
	switch {
	case kbps < 1024:
		return fmt.Sprintf("%.1f KB/s", kbps)
	case kbps < 1024*1024:
		return fmt.Sprintf("%.1f MB/s", kbps/1024)
	default:
		return fmt.Sprintf("%.1f GB/s", kbps/(1024*1024))
	}
}

// truncateWithEllipsis truncates a string to maxLen runes, adding ellipsis if needed.
func truncateWithEllipsis(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	r := []rune(s)
	if len(r) > maxLen {
		return string(r[:maxLen-3]) + "..."
	}
	return s
}
