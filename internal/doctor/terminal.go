package doctor

import (
	"context"
	"os"

	"golang.org/x/term"
)

// TerminalCheck warns when stdout isn't a terminal, since the dashboard
// then falls back to a one-shot snapshot.
type TerminalCheck struct {
	// IsTerminal defaults to checking os.Stdout.
	IsTerminal func() bool
}

func (c *TerminalCheck) Name() string     { return "terminal" }
func (c *TerminalCheck) Category() string { return CategoryTerminal }

func (c *TerminalCheck) Run(ctx context.Context) CheckResult {
	isTerm := c.IsTerminal
	if isTerm == nil {
		isTerm = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	}

	if !isTerm() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "stdout is not a terminal",
			Suggestion: "'sysdash monitor' will print one snapshot instead of the dashboard",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "stdout is a terminal",
	}
}

func (c *TerminalCheck) Fix() error {
	return nil
}
