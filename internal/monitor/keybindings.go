package monitor

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Binding pairs a key with the dashboard action it triggers.
type Binding struct {
	key.Binding
	// Blocking bindings stay active while a blocking notice is shown.
	Blocking bool
	// Footer bindings are listed in the footer hint line.
	Footer bool
	action func(m *Model, msg tea.KeyMsg) tea.Cmd
}

// keyMap is the static key table. The help overlay and footer are
// generated from it.
var keyMap = []Binding{
	{
		Binding:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Blocking: true,
		Footer:   true,
		action:   quitAction,
	},
	{
		Binding: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "force refresh")),
		Footer:  true,
		action:  refreshAction,
	},
	{
		Binding: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear cache")),
		Footer:  true,
		action:  clearCacheAction,
	},
	{
		Binding: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle stats")),
		Footer:  true,
		action:  statsAction,
	},
	{
		Binding: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "toggle error log")),
		Footer:  true,
		action:  errorLogAction,
	},
	{
		Binding: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "leave degraded mode")),
		action:  clearDegradedAction,
	},
	{
		Binding: key.NewBinding(key.WithKeys("up", "k", "down", "j", "pgup", "pgdown"), key.WithHelp("↑/↓", "scroll error log")),
		action:  scrollAction,
	},
	{
		Binding:  key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc", "dismiss notice / close")),
		Blocking: true,
		action:   dismissAction,
	},
	{
		Binding: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Footer:  true,
		action:  helpAction,
	},
}

// HandleKeyMsg runs the action bound to msg. While a blocking notice is
// up, only blocking bindings run and every other key is swallowed.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	for _, b := range keyMap {
		if !key.Matches(msg, b.Binding) {
			continue
		}
		if len(m.blocking) > 0 && !b.Blocking {
			return true, nil
		}
		return true, b.action(m, msg)
	}
	return false, nil
}

func quitAction(m *Model, _ tea.KeyMsg) tea.Cmd {
	m.quitting = true
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = ctrl.Shutdown(ctx)
		return tea.QuitMsg{}
	}
}

func refreshAction(m *Model, _ tea.KeyMsg) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return tea.Batch(
		m.localNotice("refreshing"),
		func() tea.Msg {
			ctrl.ForceRefresh(ctx)
			return nil
		},
	)
}

func clearCacheAction(m *Model, _ tea.KeyMsg) tea.Cmd {
	m.ctrl.ClearCache()
	return m.localNotice("cache cleared")
}

func statsAction(m *Model, _ tea.KeyMsg) tea.Cmd {
	m.toggleOverlay(overlayStats)
	return nil
}

func errorLogAction(m *Model, _ tea.KeyMsg) tea.Cmd {
	m.toggleOverlay(overlayErrors)
	return nil
}

func clearDegradedAction(m *Model, _ tea.KeyMsg) tea.Cmd {
	if m.ctrl.ClearDegraded() {
		return m.localNotice("degraded mode cleared, cadence restored")
	}
	return m.localNotice("not in degraded mode")
}

func scrollAction(m *Model, msg tea.KeyMsg) tea.Cmd {
	if m.overlay != overlayErrors {
		return nil
	}
	var cmd tea.Cmd
	m.errorLog, cmd = m.errorLog.Update(msg)
	return cmd
}

func dismissAction(m *Model, _ tea.KeyMsg) tea.Cmd {
	m.dismiss()
	return nil
}

func helpAction(m *Model, _ tea.KeyMsg) tea.Cmd {
	m.toggleOverlay(overlayHelp)
	return nil
}
