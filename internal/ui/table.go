package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableStyle provides consistent styling for tables across the CLI.
type TableStyle struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Border   lipgloss.Style
}

// DefaultTableStyle returns the default table styling.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
		Cell: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Selected: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Background(ColorMuted),
		Border: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	// Apply styling
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	s.Selected = s.Selected.
		Foreground(ColorPrimary).
		Background(ColorMuted).
		Bold(false)

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
// This is for CLI output (not TUI), producing a simple formatted table.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	// Create the table
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(columns, tableRows)
	return t.View()
}

// SnapshotRow is one source line of the snapshot table.
type SnapshotRow struct {
	OK      bool
	Cached  bool
	Source  string
	Value   string  // headline value, e.g. "42.5%" or "eth0"
	Percent float64 // drives the usage bar; negative means no bar
	Detail  string  // extra info, or the error when !OK
}

// Snapshot table column widths.
const (
	snapshotSourceWidth = 10
	snapshotValueWidth  = 10
	snapshotBarWidth    = 12
)

// RenderSnapshotTable renders one line per source with status, value, usage bar
// and detail. Failed sources show their error in place of the detail.
func RenderSnapshotTable(rows []SnapshotRow, t Thresholds) string {
	if len(rows) == 0 {
		return "No sources collected"
	}

	successStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ColorError)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(ColorMuted)

	var b strings.Builder
	b.WriteString(headerStyle.Render("     " +
		padRight("SOURCE", snapshotSourceWidth) +
		padRight("VALUE", snapshotValueWidth) +
		padRight("USAGE", snapshotBarWidth+6) +
		"DETAIL"))
	b.WriteString("\n")

	for _, row := range rows {
		var icon string
		switch {
		case !row.OK:
			icon = errorStyle.Render(SymbolFail)
		case row.Cached:
			icon = mutedStyle.Render(SymbolCached)
		default:
			icon = successStyle.Render(SymbolSuccess)
		}

		bar := ""
		if row.OK && row.Percent >= 0 {
			bar = RenderProgressBar(row.Percent, snapshotBarWidth, t)
		}

		detail := mutedStyle.Render(row.Detail)
		if !row.OK {
			detail = errorStyle.Render(row.Detail)
		}

		b.WriteString("  " + icon + "  " +
			padRight(row.Source, snapshotSourceWidth) +
			padRight(row.Value, snapshotValueWidth) +
			padRight(bar, snapshotBarWidth+6) +
			detail)
		b.WriteString("\n")
	}

	return b.String()
}

// DoctorCheckRow represents a row in the doctor diagnostic table.
type DoctorCheckRow struct {
	Status     string // "pass", "warn", "fail"
	Category   string // Check category
	Message    string // Check result message
	Suggestion string // Suggestion for fixing (if not passing)
}

// RenderDoctorTable renders doctor check results grouped by category, in
// the order categories first appear.
func RenderDoctorTable(rows []DoctorCheckRow) string {
	if len(rows) == 0 {
		return "No checks to display"
	}

	successStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	categories := make(map[string][]DoctorCheckRow)
	var categoryOrder []string
	for _, row := range rows {
		if _, exists := categories[row.Category]; !exists {
			categoryOrder = append(categoryOrder, row.Category)
		}
		categories[row.Category] = append(categories[row.Category], row)
	}

	var b strings.Builder
	for _, cat := range categoryOrder {
		b.WriteString(headerStyle.Render(cat) + "\n")

		for _, row := range categories[cat] {
			var statusIcon string
			switch row.Status {
			case "pass":
				statusIcon = successStyle.Render(SymbolSuccess)
			case "warn":
				statusIcon = warnStyle.Render(SymbolCached)
			case "fail":
				statusIcon = errorStyle.Render(SymbolFail)
			default:
				statusIcon = mutedStyle.Render(SymbolPending)
			}

			b.WriteString("  " + statusIcon + " " + row.Message + "\n")

			if row.Suggestion != "" && row.Status != "pass" {
				for _, line := range strings.Split(row.Suggestion, "\n") {
					b.WriteString("    " + mutedStyle.Render(line) + "\n")
				}
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	// Account for ANSI codes when calculating visible length
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
