package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/sysdash/internal/escalation"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// countingCollector returns a fixed reading or error and counts calls.
type countingCollector struct {
	source  metrics.Source
	reading metrics.Reading
	err     error
	delay   time.Duration
	calls   atomic.Int32
	panicV  any

	onCollect func() // runs at the start of each Collect
}

func (c *countingCollector) Source() metrics.Source { return c.source }

func (c *countingCollector) Collect(ctx context.Context) (metrics.Reading, error) {
	c.calls.Add(1)
	if c.onCollect != nil {
		c.onCollect()
	}
	if c.panicV != nil {
		panic(c.panicV)
	}
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, &metrics.CollectionError{Source: c.source, Cause: ctx.Err()}
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.reading, nil
}

func healthyCollectors() (cpu, mem, disk, net *countingCollector) {
	cpu = &countingCollector{source: metrics.SourceCPU, reading: metrics.CPUReading{Usage: 12.5}}
	mem = &countingCollector{source: metrics.SourceMemory, reading: metrics.MemoryReading{TotalGB: 16, UsedGB: 8, UsagePercent: 50}}
	disk = &countingCollector{source: metrics.SourceDisk, reading: metrics.DiskReading{Volumes: []metrics.DiskVolume{{Mount: "/", SizeGB: 100}}}}
	net = &countingCollector{source: metrics.SourceNetwork, reading: metrics.NetworkReading{Interfaces: []metrics.NetInterface{{Name: "eth0"}}}}
	return cpu, mem, disk, net
}

// recordingReporter collects escalated failures.
type recordingReporter struct {
	mu       sync.Mutex
	failures []*escalation.Failure
}

func (r *recordingReporter) Handle(err error) *escalation.Failure {
	f := escalation.Classify(err)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
	return f
}

func (r *recordingReporter) all() []*escalation.Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*escalation.Failure(nil), r.failures...)
}

// recordingSink collects published snapshots and notices.
type recordingSink struct {
	mu        sync.Mutex
	snapshots []Snapshot
	notices   []escalation.Notice
}

func (s *recordingSink) Publish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snap)
}

func (s *recordingSink) Notify(n escalation.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
}

func (s *recordingSink) published() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Snapshot(nil), s.snapshots...)
}

func (s *recordingSink) notified() []escalation.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]escalation.Notice(nil), s.notices...)
}

// fakeClock is a settable clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}
