package escalation

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/rileyhilliard/sysdash/internal/cache"
	sderrors "github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeActions records recovery calls and flips degraded once.
type fakeActions struct {
	mu          sync.Mutex
	cache       *cache.Cache
	clears      int
	degradeCall int
	degraded    bool
}

func (a *fakeActions) ClearCache() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clears++
	if a.cache != nil {
		a.cache.Clear()
	}
}

func (a *fakeActions) EnterDegraded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.degradeCall++
	if a.degraded {
		return false
	}
	a.degraded = true
	return true
}

// noticeLog collects notices.
type noticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

func (n *noticeLog) add(notice Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *noticeLog) all() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.notices...)
}

// fakeDiagnostics records bundles and the order of events around them.
type fakeDiagnostics struct {
	mu      sync.Mutex
	bundles []Bundle
	events  *[]string
	err     error
}

func (d *fakeDiagnostics) Write(b Bundle) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bundles = append(d.bundles, b)
	if d.events != nil {
		*d.events = append(*d.events, "diagnostics")
	}
	if d.err != nil {
		return "", d.err
	}
	return "/tmp/bundle.json", nil
}

func newTestEscalator(t *testing.T, cfg Config, opts ...Option) (*Escalator, *fakeActions, *noticeLog, *logger.BufferLogger) {
	t.Helper()
	actions := &fakeActions{}
	notices := &noticeLog{}
	log := logger.NewBufferLogger()

	base := []Option{
		WithActions(actions),
		WithNotifier(notices.add),
		WithLogger(log),
		WithTerminator(func(int, string) { t.Error("unexpected terminate") }),
	}
	return NewEscalator(cfg, append(base, opts...)...), actions, notices, log
}

func TestHandle_Nil(t *testing.T) {
	e, _, notices, _ := newTestEscalator(t, Config{})
	assert.Nil(t, e.Handle(nil))
	assert.Empty(t, e.Log())
	assert.Empty(t, notices.all())
}

func TestHandle_Low(t *testing.T) {
	e, actions, notices, log := newTestEscalator(t, Config{})

	f := e.Handle(New(KindSystem, SeverityLow, "disk unavailable").WithSource("disk"))
	require.NotNil(t, f)

	require.Len(t, e.Log(), 1)
	assert.Equal(t, 1, e.Stats().Count(KindSystem, SeverityLow))
	assert.Equal(t, 0, actions.clears)
	assert.Equal(t, 0, actions.degradeCall)

	got := notices.all()
	require.Len(t, got, 1)
	assert.False(t, got[0].Blocking)
	assert.Equal(t, "[SYSTEM] disk: disk unavailable", got[0].Message)

	assert.True(t, log.HasLevel("info"))
}

func TestHandle_MediumDataClearsCache(t *testing.T) {
	c := cache.New(time.Minute)
	now := time.Now()
	for _, s := range metrics.AllSources {
		c.Put(s, metrics.Default(s), now)
	}
	require.Equal(t, 4, c.Len())

	actions := &fakeActions{cache: c}
	e := NewEscalator(Config{}, WithActions(actions))

	f := e.Handle(fmt.Errorf("parse /proc/net/dev: %w", sderrors.MalformedData))
	assert.Equal(t, KindData, f.Kind)
	assert.Equal(t, SeverityMedium, f.Severity)
	assert.Equal(t, 0, c.Len())

	// A second clear on an empty cache is harmless.
	e.Handle(fmt.Errorf("again: %w", sderrors.MalformedData))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 2, actions.clears)
}

func TestHandle_MediumRecovery(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		clears int
		logMsg string
	}{
		{"system clears cache", KindSystem, 1, "cleared metric cache"},
		{"data clears cache", KindData, 1, "cleared metric cache"},
		{"network only notes retry", KindNetwork, 0, "retrying next cycle"},
		{"performance does nothing", KindPerformance, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, actions, notices, log := newTestEscalator(t, Config{})
			e.Handle(New(tt.kind, SeverityMedium, "boom"))

			assert.Equal(t, tt.clears, actions.clears)
			assert.Len(t, notices.all(), 1)
			assert.True(t, log.HasLevel("warn"))
			if tt.logMsg != "" {
				assert.True(t, log.HasMessage(tt.logMsg))
			}
		})
	}
}

func TestHandle_HighEntersDegradedOnce(t *testing.T) {
	e, actions, notices, log := newTestEscalator(t, Config{})

	e.Handle(permissionError())
	e.Handle(permissionError())

	assert.True(t, actions.degraded)
	assert.Equal(t, 2, actions.degradeCall)

	got := notices.all()
	require.Len(t, got, 2)
	assert.True(t, got[0].Blocking)
	assert.Equal(t, SeverityHigh, got[0].Severity)

	degradedLogs := 0
	for _, m := range log.Snapshot() {
		if m.Message == "entered degraded mode" {
			degradedLogs++
		}
	}
	assert.Equal(t, 1, degradedLogs)
	assert.Equal(t, 2, e.Stats().Count(KindSystem, SeverityHigh))
}

func TestHandle_CriticalWritesDiagnosticsThenTerminates(t *testing.T) {
	var events []string
	diag := &fakeDiagnostics{events: &events}
	exited := make(chan int, 2)
	var summary string

	e, _, notices, _ := newTestEscalator(t, Config{ExitGrace: 10 * time.Millisecond, RunID: "run-1"},
		WithDiagnostics(diag),
		WithTerminator(func(code int, s string) {
			events = append(events, "exit")
			summary = s
			exited <- code
		}),
	)

	start := time.Now()
	e.Handle(New(KindSystem, SeverityLow, "earlier"))
	e.Handle(New(KindSystem, SeverityCritical, "collector panicked"))
	assert.True(t, e.Terminating())

	select {
	case code := <-exited:
		assert.NotZero(t, code)
		assert.Equal(t, ExitCodeCritical, code)
		assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("process was not terminated")
	}

	assert.Equal(t, []string{"diagnostics", "exit"}, events)
	assert.Contains(t, summary, "collector panicked")
	assert.Contains(t, summary, "/tmp/bundle.json")

	require.Len(t, diag.bundles, 1)
	b := diag.bundles[0]
	assert.Equal(t, "run-1", b.RunID)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, SeverityCritical, b.Reason.Severity)
	assert.Len(t, b.ErrorLog, 2)
	assert.Equal(t, 2, b.Statistics.Total)
	assert.NotZero(t, b.Runtime.PID)

	last := notices.all()
	require.NotEmpty(t, last)
	assert.True(t, last[len(last)-1].Blocking)
}

func TestHandle_CriticalOnlyTerminatesOnce(t *testing.T) {
	diag := &fakeDiagnostics{}
	var calls int
	var mu sync.Mutex

	e, _, _, _ := newTestEscalator(t, Config{},
		WithDiagnostics(diag),
		WithTerminator(func(int, string) {
			mu.Lock()
			calls++
			mu.Unlock()
		}),
		withAfterFunc(func(_ time.Duration, fn func()) { fn() }),
	)

	e.Handle(New(KindSystem, SeverityCritical, "first"))
	e.Handle(New(KindSystem, SeverityCritical, "second"))

	assert.Equal(t, 1, calls)
	assert.Len(t, diag.bundles, 1)
	assert.Len(t, e.Log(), 2, "both failures are still recorded")
}

func TestHandle_CriticalDiagnosticsFailureStillTerminates(t *testing.T) {
	diag := &fakeDiagnostics{err: errors.New("read-only file system")}
	terminated := false

	e, _, _, log := newTestEscalator(t, Config{},
		WithDiagnostics(diag),
		WithTerminator(func(int, string) { terminated = true }),
		withAfterFunc(func(_ time.Duration, fn func()) { fn() }),
	)

	e.Handle(New(KindSystem, SeverityCritical, "fatal"))
	assert.True(t, terminated)
	assert.True(t, log.HasMessage("diagnostics write failed"))
}

func TestLog_RingBound(t *testing.T) {
	const maxLogSize = 5
	const extra = 3
	e, _, _, _ := newTestEscalator(t, Config{MaxLogSize: maxLogSize})

	for i := 0; i < maxLogSize+extra; i++ {
		e.Handle(New(KindData, SeverityLow, fmt.Sprintf("error %d", i)))
	}

	log := e.Log()
	require.Len(t, log, maxLogSize)
	for i, rec := range log {
		assert.Equal(t, fmt.Sprintf("error %d", i+extra), rec.Message)
	}

	assert.Equal(t, maxLogSize+extra, e.Stats().Total, "statistics are cumulative")
	assert.Equal(t, "error 7", e.Stats().Last[KindData].Message)
}

func TestStatisticsAndClear(t *testing.T) {
	e, _, _, _ := newTestEscalator(t, Config{})

	e.Handle(New(KindNetwork, SeverityMedium, "a"))
	e.Handle(New(KindNetwork, SeverityLow, "b"))
	e.Handle(New(KindData, SeverityMedium, "c"))

	stats := e.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.CountKind(KindNetwork))
	assert.Equal(t, 1, stats.Count(KindData, SeverityMedium))
	assert.Equal(t, "b", stats.Last[KindNetwork].Message)

	// Mutating the copy must not leak back.
	stats.Counts[KindNetwork][SeverityLow] = 99
	assert.Equal(t, 1, e.Stats().Count(KindNetwork, SeverityLow))

	e.Clear()
	assert.Equal(t, 0, e.Stats().Total)
	assert.Empty(t, e.Log())
}

func TestNewEscalator_Defaults(t *testing.T) {
	e := NewEscalator(Config{MaxLogSize: -1, ExitGrace: -time.Second})
	assert.Equal(t, DefaultMaxLogSize, e.MaxLogSize())
	assert.NotPanics(t, func() {
		e.Handle(New(KindSystem, SeverityHigh, "x"))
		e.Handle(New(KindSystem, SeverityMedium, "y"))
	})
}

func permissionError() error {
	return &fs.PathError{Op: "open", Path: "/proc/diskstats", Err: fs.ErrPermission}
}
