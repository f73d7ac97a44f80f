package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/logger"
)

// Scheduler drives non-overlapping refresh cycles at the cadence held in
// State. Cadence changes apply from the next arm; the wait already in
// progress is not shortened or stretched.
type Scheduler struct {
	state  *State
	cycle  func(ctx context.Context)
	perf   *perfTracker
	logger logger.Logger

	slowAfter time.Duration
	onSlow    func(d time.Duration)

	inFlight atomic.Bool

	mu      sync.Mutex // Protects trigger, wake, queued, stopCh and done
	trigger chan struct{}
	wake    chan struct{}
	queued  []func()
	stopCh  chan struct{}
	done    chan struct{}
}

// NewScheduler creates a stopped scheduler that runs cycle on each tick.
func NewScheduler(state *State, cycle func(ctx context.Context), perf *perfTracker, log logger.Logger) *Scheduler {
	if perf == nil {
		perf = &perfTracker{}
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Scheduler{
		state:  state,
		cycle:  cycle,
		perf:   perf,
		logger: log,
	}
}

// OnSlowCycle calls fn after any cycle that took longer than threshold.
// A zero threshold disables the check.
func (s *Scheduler) OnSlowCycle(threshold time.Duration, fn func(d time.Duration)) {
	s.slowAfter = threshold
	s.onSlow = fn
}

// Start runs one cycle synchronously, then arms the timer. The loop ends on
// Stop or when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Running() {
		s.mu.Unlock()
		return errors.New(errors.ErrEngine, "Scheduler is already running", "")
	}
	s.state.setRunning(true)
	s.trigger = make(chan struct{}, 1)
	s.wake = make(chan struct{}, 1)
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	trigger, wake, stopCh, done := s.trigger, s.wake, s.stopCh, s.done
	s.mu.Unlock()

	s.tick(ctx)

	go s.loop(ctx, trigger, wake, stopCh, done)
	return nil
}

func (s *Scheduler) loop(ctx context.Context, trigger, wake, stopCh <-chan struct{}, done chan struct{}) {
	defer close(done)
	// Work queued right before the loop exits still runs.
	defer s.drain()

	timer := time.NewTimer(s.state.Cadence())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			if s.done == done {
				s.state.setRunning(false)
			}
			s.mu.Unlock()
			return
		case <-stopCh:
			return
		case <-wake:
			s.drain()
			continue
		case <-timer.C:
		case <-trigger:
		}

		s.drain()
		s.tick(ctx)
		timer.Reset(s.state.Cadence())
	}
}

// Do runs fn on the loop goroutine between cycles, so it never overlaps a
// cycle the loop is running. Work queued before a Trigger runs before the
// triggered cycle. When the loop isn't running, fn runs inline.
func (s *Scheduler) Do(fn func()) {
	s.mu.Lock()
	if !s.state.Running() || s.wake == nil {
		s.mu.Unlock()
		fn()
		return
	}
	s.queued = append(s.queued, fn)
	wake := s.wake
	s.mu.Unlock()

	select {
	case wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) drain() {
	s.mu.Lock()
	queued := s.queued
	s.queued = nil
	s.mu.Unlock()
	for _, fn := range queued {
		fn()
	}
}

// tick runs one cycle unless one is already in flight, in which case the
// tick is dropped and counted.
func (s *Scheduler) tick(ctx context.Context) bool {
	if !s.state.Running() {
		return false
	}
	return s.runGuarded(ctx)
}

// RunOnce runs a single cycle outside the timer, subject to the same
// overlap guard. Reports whether the cycle ran.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	return s.runGuarded(ctx)
}

func (s *Scheduler) runGuarded(ctx context.Context) bool {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.perf.skip()
		s.logger.Debug("skipped tick, cycle still running")
		return false
	}
	defer s.inFlight.Store(false)

	start := time.Now()
	s.cycle(ctx)
	d := time.Since(start)

	avg := s.perf.record(d)
	s.logger.Debug("cycle complete", "duration_ms", d.Milliseconds(), "average_ms", avg.Milliseconds())

	if s.slowAfter > 0 && d > s.slowAfter {
		s.perf.markSlow()
		if s.onSlow != nil {
			s.onSlow(d)
		}
	}
	return true
}

// Trigger asks the loop to run a cycle now. Requests made while one is
// already pending collapse into it.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	trigger := s.trigger
	s.mu.Unlock()
	if trigger == nil {
		return
	}
	select {
	case trigger <- struct{}{}:
	default:
	}
}

// Stop disarms the timer. A cycle in progress finishes; no new one starts.
// Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh == nil {
		return
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	s.state.setRunning(false)
}

// Wait blocks until the loop has exited or ctx is done.
func (s *Scheduler) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
