package monitor

import (
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sysdash/internal/engine"
	"github.com/rileyhilliard/sysdash/internal/escalation"
)

// sender is the part of *tea.Program the bridge forwards to.
type sender interface {
	Send(msg tea.Msg)
}

// Bridge implements engine.Sink and forwards snapshots and notices to the
// Bubble Tea program via program.Send(). This is goroutine-safe. Messages
// published before Attach are dropped.
type Bridge struct {
	mu      sync.RWMutex
	target  sender
	program *tea.Program
	stderr  io.Writer
}

var _ engine.Sink = (*Bridge)(nil)

// NewBridge creates a detached bridge. The engine needs its sink before the
// program exists, so the program is attached afterwards.
func NewBridge() *Bridge {
	return &Bridge{stderr: os.Stderr}
}

// Attach starts forwarding to p.
func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = p
	b.target = p
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.RLock()
	t := b.target
	b.mu.RUnlock()
	if t == nil {
		return
	}
	t.Send(msg)
}

// Publish forwards a cycle snapshot to the TUI.
func (b *Bridge) Publish(s engine.Snapshot) {
	b.send(snapshotMsg{snap: s})
}

// Notify forwards an escalation notice to the TUI.
func (b *Bridge) Notify(n escalation.Notice) {
	b.send(noticeMsg{notice: n})
}

// Terminator returns an escalation.Terminator that tears down the TUI,
// prints summary to stderr and calls exit with the code.
func (b *Bridge) Terminator(exit func(code int)) escalation.Terminator {
	return func(code int, summary string) {
		b.mu.RLock()
		p := b.program
		b.mu.RUnlock()
		if p != nil {
			// Restores the terminal synchronously; Kill alone returns
			// before the renderer has stopped.
			_ = p.ReleaseTerminal()
			p.Kill()
		}
		fmt.Fprintln(b.stderr, summary)
		exit(code)
	}
}
