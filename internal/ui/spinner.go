package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
)

// Spinner animation frames
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const spinnerInterval = 80 * time.Millisecond

// Spinner displays an animated status line such as "⣾ Sampling metrics...".
// It is only meant for terminals; callers skip it when stdout is piped.
type Spinner struct {
	mu           sync.Mutex
	w            io.Writer
	label        string
	state        SpinnerState
	frame        int
	startTime    time.Time
	stopChan     chan struct{}
	doneChan     chan struct{}
	running      bool
	lastRendered string
	now          func() time.Time
}

// NewSpinner creates a spinner that writes to w.
func NewSpinner(w io.Writer, label string) *Spinner {
	return &Spinner{
		w:     w,
		label: label,
		state: SpinnerPending,
		now:   time.Now,
	}
}

// Start begins the spinner animation. Starting twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.state = SpinnerInProgress
	s.startTime = s.now()
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.mu.Unlock()

	s.render()

	go s.animate()
}

// Stop halts the animation without changing state.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	<-s.doneChan
}

// Success stops the spinner and marks it as successful.
func (s *Spinner) Success() { s.finish(SpinnerSuccess) }

// Fail stops the spinner and marks it as failed.
func (s *Spinner) Fail() { s.finish(SpinnerFailed) }

func (s *Spinner) finish(state SpinnerState) {
	s.Stop()
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.renderFinal()
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.mu.Unlock()
			s.render()
		}
	}
}

// clearLine erases the last rendered line. Callers hold s.mu.
func (s *Spinner) clearLine() {
	if s.lastRendered == "" {
		return
	}
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", lipgloss.Width(s.lastRendered))+"\r")
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()

	colorIndex := (s.frame / 2) % len(GradientColors)
	style := lipgloss.NewStyle().Foreground(GradientColors[colorIndex])
	line := fmt.Sprintf("%s %s...", style.Render(spinnerFrames[s.frame]), s.label)

	s.clearLine()
	fmt.Fprint(s.w, "\r"+line)
	s.lastRendered = line
}

func (s *Spinner) renderFinal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var symbol string
	var style lipgloss.Style
	switch s.state {
	case SpinnerSuccess:
		symbol = SymbolSuccess
		style = lipgloss.NewStyle().Foreground(ColorSuccess)
	case SpinnerFailed:
		symbol = SymbolFail
		style = lipgloss.NewStyle().Foreground(ColorError)
	default:
		symbol = SymbolPending
		style = lipgloss.NewStyle().Foreground(ColorMuted)
	}

	timing := lipgloss.NewStyle().Foreground(ColorMuted).Render(formatDuration(s.now().Sub(s.startTime)))

	s.clearLine()
	s.lastRendered = ""
	fmt.Fprintf(s.w, "%s %s %s\n", style.Render(symbol), s.label, timing)
}

// formatDuration formats a duration for display (e.g., "0.03s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
