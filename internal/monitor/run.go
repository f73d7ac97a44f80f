package monitor

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dashboard in the alternate screen and blocks until the
// user quits. The engine behind ctrl must publish to bridge.
func Run(ctx context.Context, ctrl Controller, bridge *Bridge, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(NewModel(ctx, ctrl, opts), tea.WithAltScreen())
	bridge.Attach(program)

	final, err := program.Run()

	// The quit key shuts the engine down itself; signals and errors don't.
	if fm, ok := final.(Model); !ok || !fm.quitting {
		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		_ = ctrl.Shutdown(sctx)
	}
	return err
}
