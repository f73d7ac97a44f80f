package metrics

import (
	"context"
	"sync"
	"time"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// counterSample stores cumulative byte counters for rate calculation.
type counterSample struct {
	rx uint64
	tx uint64
}

// NetworkCollector reads per-interface counters via gopsutil and derives
// instantaneous rates from the previous sample.
type NetworkCollector struct {
	counters func(ctx context.Context, perNIC bool) ([]psnet.IOCountersStat, error)
	now      func() time.Time

	mu     sync.Mutex // Protects prev and prevAt
	prev   map[string]counterSample
	prevAt time.Time
}

// NewNetworkCollector creates a network collector backed by the host OS.
func NewNetworkCollector(now func() time.Time) *NetworkCollector {
	if now == nil {
		now = time.Now
	}
	return &NetworkCollector{
		counters: psnet.IOCountersWithContext,
		now:      now,
		prev:     make(map[string]counterSample),
	}
}

// Source returns SourceNetwork.
func (c *NetworkCollector) Source() Source { return SourceNetwork }

// Collect returns cumulative MB and current KB/s per interface.
// The first sample of an interface has zero rates. A counter that went
// backwards (reset or wraparound) also yields zero for that direction.
func (c *NetworkCollector) Collect(ctx context.Context) (Reading, error) {
	stats, err := c.counters(ctx, true)
	if err != nil {
		return nil, collectionError(SourceNetwork, err)
	}

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := 0.0
	if !c.prevAt.IsZero() {
		elapsed = now.Sub(c.prevAt).Seconds()
	}

	reading := NetworkReading{Interfaces: make([]NetInterface, 0, len(stats))}
	next := make(map[string]counterSample, len(stats))

	for _, s := range stats {
		iface := NetInterface{
			Name: s.Name,
			RxMB: BytesToMB(s.BytesRecv),
			TxMB: BytesToMB(s.BytesSent),
		}

		if prev, ok := c.prev[s.Name]; ok && elapsed > 0 {
			iface.RxKBps = RateToKB(counterRate(prev.rx, s.BytesRecv, elapsed))
			iface.TxKBps = RateToKB(counterRate(prev.tx, s.BytesSent, elapsed))
		}

		next[s.Name] = counterSample{rx: s.BytesRecv, tx: s.BytesSent}
		reading.Interfaces = append(reading.Interfaces, iface)
	}

	c.prev = next
	c.prevAt = now

	return reading, nil
}

// counterRate returns bytes/sec between two cumulative counter values.
func counterRate(prev, cur uint64, elapsedSec float64) float64 {
	if cur < prev || elapsedSec <= 0 {
		return 0
	}
	return float64(cur-prev) / elapsedSec
}
