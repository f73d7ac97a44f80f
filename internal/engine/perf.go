package engine

import (
	"sync"
	"time"
)

// PerformanceStats summarizes cycle timing.
type PerformanceStats struct {
	Cycles       int     `json:"cycles"`
	AverageMs    float64 `json:"average_ms"`
	LastMs       float64 `json:"last_ms"`
	MaxMs        float64 `json:"max_ms"`
	SkippedTicks int     `json:"skipped_ticks"`
	SlowCycles   int     `json:"slow_cycles"`
}

// perfTracker keeps a running average of cycle durations:
// avg_n = (avg_{n-1}*(n-1) + t_n) / n.
type perfTracker struct {
	mu      sync.Mutex
	cycles  int
	avg     time.Duration
	last    time.Duration
	max     time.Duration
	skipped int
	slow    int
}

// record folds d into the average and returns the new average.
func (p *perfTracker) record(d time.Duration) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cycles++
	n := int64(p.cycles)
	p.avg = time.Duration((int64(p.avg)*(n-1) + int64(d)) / n)
	p.last = d
	if d > p.max {
		p.max = d
	}
	return p.avg
}

func (p *perfTracker) skip() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skipped++
}

func (p *perfTracker) markSlow() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slow++
}

func (p *perfTracker) stats() PerformanceStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PerformanceStats{
		Cycles:       p.cycles,
		AverageMs:    ms(p.avg),
		LastMs:       ms(p.last),
		MaxMs:        ms(p.max),
		SkippedTicks: p.skipped,
		SlowCycles:   p.slow,
	}
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
