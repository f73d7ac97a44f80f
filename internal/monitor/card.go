package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// cardBody is the per-source content of a card.
type cardBody struct {
	percent   float64
	hasBar    bool
	value     string
	sparkline string
	details   []string
}

// renderCard renders a single source card.
func (m Model) renderCard(src metrics.Source, width int) string {
	inner := max(width-4, 10) // border + padding

	failed := m.snap.Failed(src)
	style := CardStyle.Width(width - 2)
	if failed {
		style = CardFailedStyle.Width(width - 2)
	}

	if !m.hasSnap {
		return style.Render(TitleStyle.Render(src.Label()) + "\n" + MutedStyle.Render("waiting…"))
	}

	reading, ok := m.snap.Readings[src]
	if !ok {
		reading = metrics.Default(src)
	}
	body := m.cardBody(reading, inner)

	var lines []string
	lines = append(lines, m.renderCardTitle(src, body, inner, failed))
	if body.hasBar {
		lines = append(lines, ProgressBar(inner, body.percent, m.opts.Thresholds))
	}
	if body.sparkline != "" {
		lines = append(lines, body.sparkline)
	}
	for _, d := range body.details {
		lines = append(lines, LabelStyle.Render(truncateWithEllipsis(d, inner)))
	}
	if failed {
		lines = append(lines, UnavailableStyle.Render(truncateWithEllipsis(
			firstLine(m.snap.Errors[src]), inner)))
	}

	return style.Render(strings.Join(lines, "\n"))
}

// renderCardTitle renders "Label [cached]" on the left and the value on the right.
func (m Model) renderCardTitle(src metrics.Source, body cardBody, width int, failed bool) string {
	left := TitleStyle.Render(src.Label())
	if m.snap.Cached[src] {
		left += MutedStyle.Render(" cached")
	}

	var right string
	switch {
	case failed:
		right = UnavailableStyle.Render("unavailable")
	case body.hasBar:
		right = m.opts.Thresholds.Style(body.percent).Bold(true).Render(body.value)
	default:
		right = ValueStyle.Bold(true).Render(body.value)
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) cardBody(r metrics.Reading, width int) cardBody {
	t := m.opts.Thresholds
	switch v := r.(type) {
	case metrics.CPUReading:
		details := []string{fmt.Sprintf("%d cores", len(v.PerCore))}
		if v.Model != "" {
			details[0] += " · " + v.Model
		}
		if v.SpeedGHz > 0 {
			details = append(details, fmt.Sprintf("%.2f GHz", v.SpeedGHz))
		}
		return cardBody{
			percent:   v.Usage,
			hasBar:    true,
			value:     fmt.Sprintf("%.1f%%", v.Usage),
			sparkline: RenderSparkline(m.history.Last(SeriesCPU, width), width, t),
			details:   details,
		}

	case metrics.MemoryReading:
		return cardBody{
			percent:   v.UsagePercent,
			hasBar:    true,
			value:     fmt.Sprintf("%.1f%%", v.UsagePercent),
			sparkline: RenderSparkline(m.history.Last(SeriesMemory, width), width, t),
			details: []string{
				fmt.Sprintf("%.2f / %.2f GB used", v.UsedGB, v.TotalGB),
				fmt.Sprintf("%.2f GB free", v.FreeGB),
			},
		}

	case metrics.DiskReading:
		vol, ok := v.Primary()
		if !ok {
			return cardBody{hasBar: true, value: "0.0%", details: []string{"no volumes"}}
		}
		details := []string{fmt.Sprintf("%s %.2f / %.2f GB", vol.Mount, vol.UsedGB, vol.SizeGB)}
		if extra := len(v.Volumes) - 1; extra > 0 {
			details = append(details, fmt.Sprintf("+%d more volumes", extra))
		}
		return cardBody{
			percent:   vol.UsagePercent,
			hasBar:    true,
			value:     fmt.Sprintf("%.1f%%", vol.UsagePercent),
			sparkline: RenderSparkline(m.history.Last(SeriesDisk, width), width, t),
			details:   details,
		}

	case metrics.NetworkReading:
		iface, ok := v.Active()
		if !ok {
			return cardBody{value: "idle", details: []string{"no interfaces"}}
		}
		return cardBody{
			value:     iface.Name,
			sparkline: RenderRateSparkline(m.history.Last(SeriesRx, width), width, ColorGraph),
			details: []string{
				fmt.Sprintf("↓ %s  ↑ %s", FormatRate(iface.RxKBps), FormatRate(iface.TxKBps)),
				fmt.Sprintf("rx %.2f MB  tx %.2f MB", iface.RxMB, iface.TxMB),
			},
		}
	}
	return cardBody{value: "-"}
}

// firstLine returns the first non-empty line of a possibly multi-line error.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return strings.TrimPrefix(line, "✗ ")
		}
	}
	return s
}
