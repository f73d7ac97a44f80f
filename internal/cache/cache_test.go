package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock for age checks.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Set(d time.Duration, base time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = base.Add(d)
}

func TestNew_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, New(0).TTL())
	assert.Equal(t, DefaultTTL, New(-time.Second).TTL())
	assert.Equal(t, 5*time.Second, New(5*time.Second).TTL())
}

func TestGet_TTLBoundary(t *testing.T) {
	clock := newFakeClock()
	start := clock.Now()
	c := New(2*time.Second, WithClock(clock.Now))

	r1 := metrics.CPUReading{Usage: 42}
	c.Put(metrics.SourceCPU, r1, start)

	tests := []struct {
		name  string
		at    time.Duration
		found bool
	}{
		{"fresh", 0, true},
		{"just before ttl", 1999 * time.Millisecond, true},
		{"at ttl", 2000 * time.Millisecond, false},
		{"past ttl", 2001 * time.Millisecond, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.Put(metrics.SourceCPU, r1, start)
			clock.Set(tt.at, start)

			got, ok := c.Get(metrics.SourceCPU)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, r1, got)
			} else {
				assert.Nil(t, got)
				assert.Equal(t, 0, c.Len(), "expired entry is evicted on read")
			}
		})
	}
}

func TestGet_Missing(t *testing.T) {
	c := New(time.Second)
	r, ok := c.Get(metrics.SourceDisk)
	assert.False(t, ok)
	assert.Nil(t, r)
}

func TestPut_UsesCaptureTime(t *testing.T) {
	clock := newFakeClock()
	now := clock.Now()
	c := New(2*time.Second, WithClock(clock.Now))

	// Captured 1.5s ago, inserted now: only 0.5s of life left.
	c.Put(metrics.SourceMemory, metrics.MemoryReading{TotalGB: 8}, now.Add(-1500*time.Millisecond))

	clock.Set(400*time.Millisecond, now)
	_, ok := c.Get(metrics.SourceMemory)
	assert.True(t, ok)

	clock.Set(500*time.Millisecond, now)
	_, ok = c.Get(metrics.SourceMemory)
	assert.False(t, ok)
}

func TestPut_Replaces(t *testing.T) {
	c := New(time.Minute)
	now := time.Now()

	c.Put(metrics.SourceNetwork, metrics.NetworkReading{Interfaces: []metrics.NetInterface{{Name: "eth0"}}}, now)
	c.Put(metrics.SourceNetwork, metrics.NetworkReading{}, now)

	got, ok := c.Get(metrics.SourceNetwork)
	require.True(t, ok)
	assert.Empty(t, got.(metrics.NetworkReading).Interfaces)
	assert.Equal(t, 1, c.Len())
}

func TestSweepExpired(t *testing.T) {
	clock := newFakeClock()
	start := clock.Now()
	c := New(2*time.Second, WithClock(clock.Now))

	c.Put(metrics.SourceCPU, metrics.CPUReading{}, start)
	c.Put(metrics.SourceMemory, metrics.MemoryReading{}, start.Add(time.Second))
	c.Put(metrics.SourceDisk, metrics.DiskReading{}, start.Add(1500*time.Millisecond))

	clock.Set(2500*time.Millisecond, start)
	assert.Equal(t, 1, c.SweepExpired())

	stats := c.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, []metrics.Source{metrics.SourceDisk, metrics.SourceMemory}, stats.Keys)

	clock.Set(10*time.Second, start)
	assert.Equal(t, 2, c.SweepExpired())
	assert.Equal(t, 0, c.SweepExpired())
	assert.Equal(t, 0, c.Len())
}

func TestClear(t *testing.T) {
	c := New(time.Minute)
	now := time.Now()
	for _, s := range metrics.AllSources {
		c.Put(s, metrics.Default(s), now)
	}
	require.Equal(t, 4, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())

	assert.NotPanics(t, c.Clear)
	assert.Equal(t, 0, c.Len())
}

func TestStats(t *testing.T) {
	c := New(3 * time.Second)
	stats := c.Stats()
	assert.Equal(t, 0, stats.Size)
	assert.Empty(t, stats.Keys)
	assert.Equal(t, 3*time.Second, stats.TTL)
}

func TestConcurrentAccess(t *testing.T) {
	c := New(time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := metrics.AllSources[i%len(metrics.AllSources)]
			for j := 0; j < 100; j++ {
				c.Put(s, metrics.Default(s), time.Now())
				c.Get(s)
				c.SweepExpired()
				c.Stats()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, c.Len())
}
