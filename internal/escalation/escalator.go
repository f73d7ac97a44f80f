package escalation

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/rileyhilliard/sysdash/internal/ring"
)

// DefaultMaxLogSize bounds the error log when no size is configured.
const DefaultMaxLogSize = 100

// ExitCodeCritical is the process status after a critical failure.
const ExitCodeCritical = 1

// Actions are the recovery hooks the escalator drives. Both must be
// idempotent.
type Actions interface {
	// ClearCache drops every cached reading.
	ClearCache()
	// EnterDegraded sets degraded mode and doubles the cadence. It reports
	// whether this call made the transition.
	EnterDegraded() bool
}

// Notice is a user-visible message produced for every escalated failure.
// Blocking notices stay up until the operator dismisses them.
type Notice struct {
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Blocking bool      `json:"blocking"`
	At       time.Time `json:"at"`
}

// Terminator ends the process. The default prints summary to stderr and
// calls os.Exit.
type Terminator func(code int, summary string)

// Config holds escalator settings.
type Config struct {
	MaxLogSize int
	ExitGrace  time.Duration
	RunID      string
}

// Escalator classifies, records and dispatches failures. Safe for
// concurrent use.
type Escalator struct {
	cfg Config

	mu    sync.Mutex // Protects log and stats
	log   *ring.Buffer[Record]
	stats Statistics

	logger      logger.Logger
	actions     Actions
	notify      func(Notice)
	diagnostics Diagnostics
	terminate   Terminator
	now         func() time.Time
	afterFunc   func(time.Duration, func())

	terminating atomic.Bool
}

// Option configures an Escalator.
type Option func(*Escalator)

// WithLogger sets the structured log sink.
func WithLogger(l logger.Logger) Option {
	return func(e *Escalator) { e.logger = l }
}

// WithActions sets the recovery hooks.
func WithActions(a Actions) Option {
	return func(e *Escalator) { e.actions = a }
}

// WithNotifier sets the function that receives user-visible notices.
func WithNotifier(fn func(Notice)) Option {
	return func(e *Escalator) { e.notify = fn }
}

// WithDiagnostics sets where bundles are written on critical failure.
func WithDiagnostics(d Diagnostics) Option {
	return func(e *Escalator) { e.diagnostics = d }
}

// WithTerminator replaces the process exit.
func WithTerminator(t Terminator) Option {
	return func(e *Escalator) { e.terminate = t }
}

// WithClock replaces the clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Escalator) { e.now = now }
}

// withAfterFunc replaces time.AfterFunc in tests.
func withAfterFunc(fn func(time.Duration, func())) Option {
	return func(e *Escalator) { e.afterFunc = fn }
}

// NewEscalator creates an escalator. Unset hooks default to no-ops, except
// the terminator, which exits the process.
func NewEscalator(cfg Config, opts ...Option) *Escalator {
	if cfg.MaxLogSize <= 0 {
		cfg.MaxLogSize = DefaultMaxLogSize
	}
	if cfg.ExitGrace < 0 {
		cfg.ExitGrace = 0
	}

	e := &Escalator{
		cfg:         cfg,
		log:         ring.New[Record](cfg.MaxLogSize),
		stats:       newStatistics(),
		logger:      logger.Noop(),
		actions:     noopActions{},
		notify:      func(Notice) {},
		diagnostics: DiscardDiagnostics{},
		terminate:   exitProcess,
		now:         time.Now,
		afterFunc:   func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
	for _, opt := range opts {
		opt(e)
	}
	if cfg.RunID != "" {
		e.logger = e.logger.With("run_id", cfg.RunID)
	}
	return e
}

// Handle classifies err and runs it through the escalation steps. It
// returns the classified failure, or nil for a nil error.
func (e *Escalator) Handle(err error) *Failure {
	f := Classify(err)
	if f == nil {
		return nil
	}

	rec := Record{
		Timestamp: e.now(),
		Kind:      f.Kind,
		Severity:  f.Severity,
		Source:    f.Source,
		Message:   f.Message,
		Details:   f.Details,
	}

	e.logRecord(rec, f)

	e.mu.Lock()
	e.log.Push(rec)
	e.stats.add(rec)
	e.mu.Unlock()

	e.dispatch(f, rec)
	return f
}

func (e *Escalator) logRecord(rec Record, f *Failure) {
	kv := []any{"kind", rec.Kind, "severity", rec.Severity.String()}
	if rec.Source != "" {
		kv = append(kv, "source", rec.Source)
	}
	if f.Cause != nil {
		kv = append(kv, "error", f.Cause.Error())
	}
	for k, v := range rec.Details {
		kv = append(kv, k, v)
	}

	switch rec.Severity {
	case SeverityLow:
		e.logger.Info(rec.Message, kv...)
	case SeverityMedium:
		e.logger.Warn(rec.Message, kv...)
	case SeverityHigh, SeverityCritical:
		e.logger.Error(rec.Message, kv...)
	}
}

func (e *Escalator) dispatch(f *Failure, rec Record) {
	switch f.Severity {
	case SeverityLow:
		e.send(f, false)
	case SeverityMedium:
		e.send(f, false)
		e.recover(f)
	case SeverityHigh:
		if e.actions.EnterDegraded() {
			e.logger.Warn("entered degraded mode", "kind", f.Kind, "source", f.Source)
		}
		e.send(f, true)
	case SeverityCritical:
		e.shutdown(f, rec)
	}
}

// recover runs the source-specific recovery for a MEDIUM failure.
func (e *Escalator) recover(f *Failure) {
	switch f.Kind {
	case KindSystem, KindData:
		e.actions.ClearCache()
		e.logger.Info("cleared metric cache", "kind", f.Kind, "source", f.Source)
	case KindNetwork:
		e.logger.Info("network failure, retrying next cycle", "source", f.Source)
	case KindUI, KindPerformance:
	}
}

// shutdown persists diagnostics, shows the summary and schedules the exit.
// Only the first critical failure does this.
func (e *Escalator) shutdown(f *Failure, rec Record) {
	if !e.terminating.CompareAndSwap(false, true) {
		return
	}

	bundle := e.Bundle(rec)
	path, err := e.diagnostics.Write(bundle)
	if err != nil {
		e.logger.Error("diagnostics write failed", "error", err.Error())
	} else if path != "" {
		e.logger.Error("diagnostics written", "path", path, "bundle_id", bundle.ID)
	}

	summary := e.summary(f, path)
	e.notify(Notice{Severity: SeverityCritical, Message: summary, Blocking: true, At: e.now()})

	e.afterFunc(e.cfg.ExitGrace, func() {
		e.terminate(ExitCodeCritical, summary)
	})
}

func (e *Escalator) summary(f *Failure, path string) string {
	stats := e.Stats()
	s := fmt.Sprintf("sysdash stopped after a critical failure\n  %s\n  %d errors recorded this run",
		f.Summary(), stats.Total)
	if path != "" {
		s += fmt.Sprintf("\n  diagnostics: %s", path)
	}
	return s
}

func (e *Escalator) send(f *Failure, blocking bool) {
	e.notify(Notice{Severity: f.Severity, Message: f.Summary(), Blocking: blocking, At: e.now()})
}

// Bundle assembles a diagnostics bundle for reason from the current log
// and statistics.
func (e *Escalator) Bundle(reason Record) Bundle {
	return Bundle{
		ID:         NewBundleID(),
		RunID:      e.cfg.RunID,
		CreatedAt:  e.now(),
		Reason:     reason,
		ErrorLog:   e.Log(),
		Statistics: e.Stats(),
		Runtime:    CollectRuntimeInfo(),
	}
}

// Terminating reports whether a critical failure has scheduled the exit.
func (e *Escalator) Terminating() bool {
	return e.terminating.Load()
}

// Log returns the error log, oldest first.
func (e *Escalator) Log() []Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.All()
}

// Stats returns a copy of the cumulative statistics.
func (e *Escalator) Stats() Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.clone()
}

// MaxLogSize returns the error log capacity.
func (e *Escalator) MaxLogSize() int {
	return e.cfg.MaxLogSize
}

// Clear resets the error log and statistics.
func (e *Escalator) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log.Reset()
	e.stats = newStatistics()
}

type noopActions struct{}

func (noopActions) ClearCache()         {}
func (noopActions) EnterDegraded() bool { return false }

func exitProcess(code int, summary string) {
	fmt.Fprintln(os.Stderr, summary)
	os.Exit(code)
}
