package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	"github.com/stretchr/testify/assert"
)

func TestDefaultTableStyle(t *testing.T) {
	style := DefaultTableStyle()
	assert.NotPanics(t, func() {
		_ = style.Header.Render("test")
		_ = style.Cell.Render("test")
		_ = style.Selected.Render("test")
		_ = style.Border.Render("test")
	})
}

func TestNewTable(t *testing.T) {
	columns := []TableColumn{
		{Title: "Source", Width: 10},
		{Title: "Value", Width: 10},
	}
	tbl := NewTable(columns, []table.Row{{"cpu", "42.5%"}})

	view := tbl.View()
	assert.Contains(t, view, "Source")
	assert.Contains(t, view, "cpu")
	assert.Contains(t, view, "42.5%")
}

func TestRenderSimpleTable_Empty(t *testing.T) {
	assert.Empty(t, RenderSimpleTable([]TableColumn{{Title: "A", Width: 5}}, nil))
}

func TestRenderSnapshotTable(t *testing.T) {
	rows := []SnapshotRow{
		{OK: true, Source: "CPU", Value: "42.5%", Percent: 42.5, Detail: "8 cores"},
		{OK: true, Cached: true, Source: "Memory", Value: "75.0%", Percent: 75},
		{OK: false, Source: "Disk", Value: "0.0%", Percent: 0, Detail: "disk: permission denied"},
		{OK: true, Source: "Network", Value: "eth0", Percent: -1, Detail: "↓ 2.0 MB/s"},
	}

	out := RenderSnapshotTable(rows, DefaultThresholds())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// header, border, four rows
	assert.Len(t, lines, 6)
	assert.Contains(t, lines[0], "SOURCE")
	assert.Contains(t, lines[2], SymbolSuccess)
	assert.Contains(t, lines[2], " 42%")
	assert.Contains(t, lines[3], SymbolCached)
	assert.Contains(t, lines[4], SymbolFail)
	assert.Contains(t, lines[4], "permission denied")
	assert.NotContains(t, lines[4], progressFilled)
	assert.NotContains(t, lines[5], progressEmpty)
}

func TestRenderSnapshotTable_Empty(t *testing.T) {
	assert.Equal(t, "No sources collected", RenderSnapshotTable(nil, DefaultThresholds()))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}

func TestRenderDoctorTable(t *testing.T) {
	rows := []DoctorCheckRow{
		{Status: "pass", Category: "CONFIG", Message: "Config file: /x"},
		{Status: "warn", Category: "PATHS", Message: "Log directory missing", Suggestion: "It will be created\non first write"},
		{Status: "fail", Category: "CONFIG", Message: "Invalid setting", Suggestion: "Fix it"},
		{Status: "pass", Category: "PATHS", Message: "ok", Suggestion: "hidden"},
	}

	out := RenderDoctorTable(rows)

	assert.Less(t, strings.Index(out, "CONFIG"), strings.Index(out, "PATHS"))
	assert.Equal(t, 1, strings.Count(out, "CONFIG"))
	assert.Contains(t, out, SymbolSuccess+" Config file: /x")
	assert.Contains(t, out, SymbolFail+" Invalid setting")
	assert.Contains(t, out, SymbolCached+" Log directory missing")
	assert.Contains(t, out, "    on first write")
	assert.NotContains(t, out, "hidden")
	// grouped: the failing CONFIG row sits under CONFIG, before PATHS
	assert.Less(t, strings.Index(out, "Invalid setting"), strings.Index(out, "PATHS"))
}

func TestRenderDoctorTable_Empty(t *testing.T) {
	assert.Equal(t, "No checks to display", RenderDoctorTable(nil))
}
