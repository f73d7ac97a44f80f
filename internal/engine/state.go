package engine

import (
	"sync"
	"time"
)

// State is the process-wide engine state. Writers are the scheduler and
// the escalator; everyone else reads through Snapshot.
type State struct {
	mu          sync.RWMutex
	running     bool
	degraded    bool
	baseCadence time.Duration
	cadence     time.Duration
	reduced     bool
	cycles      uint64
}

// StateSnapshot is a point-in-time copy of State.
type StateSnapshot struct {
	Running        bool   `json:"running"`
	Degraded       bool   `json:"degraded"`
	CadenceMs      int64  `json:"cadence_ms"`
	BaseCadenceMs  int64  `json:"base_cadence_ms"`
	CadenceReduced bool   `json:"cadence_reduced"`
	CycleCount     uint64 `json:"cycle_count"`
}

// NewState creates a stopped, non-degraded state at the given cadence.
func NewState(cadence time.Duration) *State {
	return &State{baseCadence: cadence, cadence: cadence}
}

// Cadence returns the current interval between cycles.
func (s *State) Cadence() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cadence
}

// Running reports whether the scheduler is running.
func (s *State) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Degraded reports whether degraded mode is active.
func (s *State) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// EnterDegraded sets degraded mode and doubles the cadence. The doubling
// is a one-shot transition: repeated calls neither compound the interval
// nor change anything else. Reports whether this call made the transition.
func (s *State) EnterDegraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.degraded && s.reduced {
		return false
	}
	changed := !s.degraded
	s.degraded = true
	if !s.reduced {
		s.cadence = s.baseCadence * 2
		s.reduced = true
		changed = true
	}
	return changed
}

// ClearDegraded leaves degraded mode and restores the configured cadence.
// Reports whether degraded mode was active.
func (s *State) ClearDegraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.degraded && !s.reduced {
		return false
	}
	s.degraded = false
	s.reduced = false
	s.cadence = s.baseCadence
	return true
}

func (s *State) setRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = running
}

func (s *State) nextCycle() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles++
	return s.cycles
}

// Snapshot returns a copy of the state.
func (s *State) Snapshot() StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StateSnapshot{
		Running:        s.running,
		Degraded:       s.degraded,
		CadenceMs:      s.cadence.Milliseconds(),
		BaseCadenceMs:  s.baseCadence.Milliseconds(),
		CadenceReduced: s.reduced,
		CycleCount:     s.cycles,
	}
}
