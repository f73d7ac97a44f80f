// Package engine is the resilient refresh core: it owns the cache, the
// collectors, the escalator and the scheduler, and exposes the named
// operations the dashboard calls.
package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rileyhilliard/sysdash/internal/cache"
	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/escalation"
	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// Config holds engine settings.
type Config struct {
	Interval       time.Duration
	CollectTimeout time.Duration
	SlowCycle      time.Duration // zero disables the slow-cycle warning
	CacheTTL       time.Duration
	MaxLogSize     int
	ExitGrace      time.Duration
	DiagnosticsDir string // empty discards diagnostics bundles
	KeepBundles    int
}

// FromConfig maps the file config onto engine settings.
func FromConfig(c *config.Config) Config {
	return Config{
		Interval:       c.Refresh.Interval,
		CollectTimeout: c.Refresh.CollectTimeout,
		SlowCycle:      c.SlowCycleThreshold(),
		CacheTTL:       c.Cache.TTL,
		MaxLogSize:     c.Errors.MaxLogSize,
		ExitGrace:      c.Errors.ExitGrace,
		DiagnosticsDir: c.Errors.DiagnosticsDir,
		KeepBundles:    c.Errors.KeepDiagnostics,
	}
}

// Snapshot is what the render sink receives after each cycle.
type Snapshot struct {
	Cycle    uint64                             `json:"cycle"`
	At       time.Time                          `json:"at"`
	Readings map[metrics.Source]metrics.Reading `json:"readings"`
	Errors   map[metrics.Source]string          `json:"errors,omitempty"`
	Cached   map[metrics.Source]bool            `json:"cached,omitempty"`
	State    StateSnapshot                      `json:"state"`
}

// Failed reports whether src failed this cycle and shows a default.
func (s Snapshot) Failed(src metrics.Source) bool {
	_, ok := s.Errors[src]
	return ok
}

// Stats is the combined view returned by Engine.Stats.
type Stats struct {
	RunID       string                `json:"run_id"`
	Cache       cache.Stats           `json:"cache"`
	Errors      escalation.Statistics `json:"errors"`
	Performance PerformanceStats      `json:"performance"`
	State       StateSnapshot         `json:"state"`
}

// Sink receives snapshots and notices. Implementations must not block.
type Sink interface {
	Publish(s Snapshot)
	Notify(n escalation.Notice)
}

type noopSink struct{}

func (noopSink) Publish(Snapshot)         {}
func (noopSink) Notify(escalation.Notice) {}

// Engine owns every piece of mutable engine state; there are no globals.
type Engine struct {
	cfg   Config
	runID string

	state       *State
	cache       *cache.Cache
	perf        *perfTracker
	escalator   *escalation.Escalator
	coordinator *Coordinator
	scheduler   *Scheduler

	collectors  []metrics.Collector
	sink        Sink
	logger      logger.Logger
	now         func() time.Time
	terminator  escalation.Terminator
	diagnostics escalation.Diagnostics

	// forcePending makes the next cycle to start skip the cache.
	forcePending atomic.Bool

	mu   sync.RWMutex // Protects last
	last Snapshot
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink sets the render sink.
func WithSink(s Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithCollectors replaces the OS-backed collectors.
func WithCollectors(c ...metrics.Collector) Option {
	return func(e *Engine) { e.collectors = c }
}

// WithClock replaces the clock used for cache ages and record timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the structured log sink.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithTerminator replaces the process exit used on critical failure.
func WithTerminator(t escalation.Terminator) Option {
	return func(e *Engine) { e.terminator = t }
}

// WithDiagnostics replaces the diagnostics writer.
func WithDiagnostics(d escalation.Diagnostics) Option {
	return func(e *Engine) { e.diagnostics = d }
}

// WithRunID sets the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(e *Engine) { e.runID = id }
}

// New builds a stopped engine.
func New(cfg Config, opts ...Option) *Engine {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}

	e := &Engine{
		cfg:    cfg,
		sink:   noopSink{},
		logger: logger.Noop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.runID == "" {
		e.runID = uuid.NewString()
	}
	if e.collectors == nil {
		e.collectors = metrics.NewCollectors()
	}
	if e.diagnostics == nil {
		if cfg.DiagnosticsDir != "" {
			e.diagnostics = escalation.FileDiagnostics{Dir: cfg.DiagnosticsDir, Keep: cfg.KeepBundles}
		} else {
			e.diagnostics = escalation.DiscardDiagnostics{}
		}
	}

	baseLogger := e.logger
	e.logger = baseLogger.With("run_id", e.runID)

	e.state = NewState(cfg.Interval)
	e.cache = cache.New(cfg.CacheTTL, cache.WithClock(e.now))
	e.perf = &perfTracker{}

	escOpts := []escalation.Option{
		escalation.WithLogger(baseLogger),
		escalation.WithActions(engineActions{e}),
		escalation.WithNotifier(func(n escalation.Notice) { e.sink.Notify(n) }),
		escalation.WithDiagnostics(e.diagnostics),
		escalation.WithClock(e.now),
	}
	if e.terminator != nil {
		escOpts = append(escOpts, escalation.WithTerminator(e.terminator))
	}
	e.escalator = escalation.NewEscalator(escalation.Config{
		MaxLogSize: cfg.MaxLogSize,
		ExitGrace:  cfg.ExitGrace,
		RunID:      e.runID,
	}, escOpts...)

	e.coordinator = NewCoordinator(e.collectors, e.cache, e.escalator, cfg.CollectTimeout, e.now, e.logger)
	e.scheduler = NewScheduler(e.state, e.cycle, e.perf, e.logger)
	e.scheduler.OnSlowCycle(cfg.SlowCycle, e.reportSlow)

	return e
}

// engineActions adapts the engine to escalation.Actions.
type engineActions struct{ e *Engine }

func (a engineActions) ClearCache() { a.e.scheduler.Do(a.e.cache.Clear) }

func (a engineActions) EnterDegraded() bool {
	if !a.e.state.EnterDegraded() {
		return false
	}
	a.e.logger.Warn("cadence reduced", "cadence_ms", a.e.state.Cadence().Milliseconds())
	return true
}

// RunID identifies this engine run in logs and diagnostics.
func (e *Engine) RunID() string { return e.runID }

// Start runs the first cycle synchronously and then refreshes on the
// configured cadence until Shutdown or ctx cancellation.
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("engine starting",
		"interval_ms", e.cfg.Interval.Milliseconds(),
		"cache_ttl_ms", e.cache.TTL().Milliseconds(),
		"sources", len(e.collectors))
	return e.scheduler.Start(ctx)
}

// cycle is one refresh pass. A panic anywhere in it escalates as
// SYSTEM/CRITICAL.
func (e *Engine) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			e.escalator.Handle(escalation.New(escalation.KindSystem, escalation.SeverityCritical,
				fmt.Sprintf("refresh cycle panicked: %v", r)).
				WithDetail("stack", string(debug.Stack())))
		}
	}()

	var results []Result
	if e.forcePending.Swap(false) {
		e.cache.Clear()
		results = e.coordinator.ForceAll(ctx)
	} else {
		results = e.coordinator.RefreshAll(ctx)
	}
	n := e.state.nextCycle()

	snap := Snapshot{
		Cycle:    n,
		At:       e.now(),
		Readings: make(map[metrics.Source]metrics.Reading, len(results)),
		Cached:   make(map[metrics.Source]bool),
		State:    e.state.Snapshot(),
	}
	for _, r := range results {
		snap.Readings[r.Source] = r.Value()
		if r.Cached {
			snap.Cached[r.Source] = true
		}
		if r.Err != nil {
			if snap.Errors == nil {
				snap.Errors = make(map[metrics.Source]string)
			}
			snap.Errors[r.Source] = r.Err.Error()
		}
	}

	e.mu.Lock()
	e.last = snap
	e.mu.Unlock()

	e.sink.Publish(snap)
}

func (e *Engine) reportSlow(d time.Duration) {
	e.escalator.Handle(escalation.New(escalation.KindPerformance, escalation.SeverityLow,
		fmt.Sprintf("refresh cycle took %s", d.Round(time.Millisecond))).
		WithDetail("duration_ms", d.Milliseconds()).
		WithDetail("threshold_ms", e.cfg.SlowCycle.Milliseconds()))
}

// RefreshOnce runs a single cycle without the scheduler and returns its
// snapshot. Used for one-shot output.
func (e *Engine) RefreshOnce(ctx context.Context) Snapshot {
	e.scheduler.RunOnce(ctx)
	return e.Snapshot()
}

// ForceRefresh bypasses the cache and runs a cycle now. While running, the
// cycle is handed to the scheduler loop; otherwise it runs inline. Only a
// cycle that starts after the call counts as forced, so a collection already
// in flight can't satisfy it with a reading taken before the request.
func (e *Engine) ForceRefresh(ctx context.Context) {
	e.forcePending.Store(true)
	if e.state.Running() {
		e.scheduler.Trigger()
		return
	}
	e.scheduler.RunOnce(ctx)
}

// ClearCache drops every cached reading. While running, the clear happens
// on the scheduler loop between cycles.
func (e *Engine) ClearCache() {
	e.scheduler.Do(func() {
		e.cache.Clear()
		e.logger.Info("cache cleared by operator")
	})
}

// ClearDegraded leaves degraded mode and restores the configured cadence.
// Degraded mode is never cleared automatically.
func (e *Engine) ClearDegraded() bool {
	if !e.state.ClearDegraded() {
		return false
	}
	e.logger.Info("degraded mode cleared by operator", "cadence_ms", e.state.Cadence().Milliseconds())
	return true
}

// Report escalates a failure raised outside the refresh cycle, such as a
// rendering problem in the dashboard.
func (e *Engine) Report(err error) *escalation.Failure {
	return e.escalator.Handle(err)
}

// Stats returns cache, error, performance and state statistics.
func (e *Engine) Stats() Stats {
	return Stats{
		RunID:       e.runID,
		Cache:       e.cache.Stats(),
		Errors:      e.escalator.Stats(),
		Performance: e.perf.stats(),
		State:       e.state.Snapshot(),
	}
}

// ErrorLog returns the bounded error log, oldest first.
func (e *Engine) ErrorLog() []escalation.Record {
	return e.escalator.Log()
}

// MaxLogSize returns the error log capacity.
func (e *Engine) MaxLogSize() int {
	return e.escalator.MaxLogSize()
}

// State returns the current engine state.
func (e *Engine) State() StateSnapshot {
	return e.state.Snapshot()
}

// Snapshot returns the most recent cycle's snapshot.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last
}

// Shutdown stops the scheduler, waits for an in-flight cycle within ctx,
// logs final statistics and releases the cache.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.scheduler.Stop()
	err := e.scheduler.Wait(ctx)

	stats := e.Stats()
	e.logger.Info("engine stopped",
		"cycles", stats.State.CycleCount,
		"errors", stats.Errors.Total,
		"average_cycle_ms", stats.Performance.AverageMs,
		"skipped_ticks", stats.Performance.SkippedTicks,
		"degraded", stats.State.Degraded)

	e.cache.Clear()
	return err
}
