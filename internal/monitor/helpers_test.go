package monitor

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/sysdash/internal/engine"
	"github.com/rileyhilliard/sysdash/internal/escalation"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

func init() {
	// Force TrueColor output in tests so we can verify ANSI color codes
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// fakeController records the calls the dashboard makes.
type fakeController struct {
	mu sync.Mutex

	startErr      error
	degraded      bool
	log           []escalation.Record
	stats         engine.Stats
	reported      []error
	started       int
	forced        int
	cleared       int
	shutdowns     int
	degradedCalls int
}

func (f *fakeController) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
	return f.startErr
}

func (f *fakeController) ForceRefresh(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forced++
}

func (f *fakeController) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
}

func (f *fakeController) ClearDegraded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.degradedCalls++
	was := f.degraded
	f.degraded = false
	return was
}

func (f *fakeController) Report(err error) *escalation.Failure {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reported = append(f.reported, err)
	return escalation.Classify(err)
}

func (f *fakeController) Stats() engine.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

func (f *fakeController) ErrorLog() []escalation.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]escalation.Record(nil), f.log...)
}

func (f *fakeController) MaxLogSize() int { return 100 }

func (f *fakeController) Shutdown(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdowns++
	return nil
}

// fakeClock is a manually advanced clock.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var testEpoch = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestModel(ctrl Controller) (Model, *fakeClock) {
	clock := &fakeClock{t: testEpoch}
	m := NewModel(context.Background(), ctrl, Options{
		HistorySize:    10,
		NoticeDuration: 20 * time.Millisecond,
		Now:            clock.Now,
	})
	return m, clock
}

// update feeds msg through Update and returns the concrete model.
func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// healthySnapshot is a fully successful cycle.
func healthySnapshot(cycle uint64) engine.Snapshot {
	return engine.Snapshot{
		Cycle: cycle,
		At:    testEpoch,
		Readings: map[metrics.Source]metrics.Reading{
			metrics.SourceCPU: metrics.CPUReading{
				Usage: 42.5, PerCore: []float64{40, 45}, Model: "Test CPU", SpeedGHz: 3.2,
			},
			metrics.SourceMemory: metrics.MemoryReading{
				TotalGB: 16, UsedGB: 12, FreeGB: 4, UsagePercent: 75,
			},
			metrics.SourceDisk: metrics.DiskReading{Volumes: []metrics.DiskVolume{
				{Mount: "/", SizeGB: 500, UsedGB: 475, FreeGB: 25, UsagePercent: 95},
				{Mount: "/home", SizeGB: 100, UsedGB: 10, FreeGB: 90, UsagePercent: 10},
			}},
			metrics.SourceNetwork: metrics.NetworkReading{Interfaces: []metrics.NetInterface{
				{Name: "lo"},
				{Name: "eth0", RxMB: 120.5, TxMB: 30.25, RxKBps: 2048, TxKBps: 12.5},
			}},
		},
		Cached: map[metrics.Source]bool{},
		State: engine.StateSnapshot{
			Running: true, CadenceMs: 2000, BaseCadenceMs: 2000, CycleCount: cycle,
		},
	}
}

// failedSnapshot is a cycle where disk failed and shows its default.
func failedSnapshot(cycle uint64) engine.Snapshot {
	s := healthySnapshot(cycle)
	s.Readings[metrics.SourceDisk] = metrics.Default(metrics.SourceDisk)
	s.Errors = map[metrics.Source]string{metrics.SourceDisk: "disk: permission denied"}
	return s
}
