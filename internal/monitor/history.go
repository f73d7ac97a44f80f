package monitor

import (
	"github.com/rileyhilliard/sysdash/internal/engine"
	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/rileyhilliard/sysdash/internal/ring"
)

// DefaultHistorySize is the default number of data points to retain per series.
const DefaultHistorySize = 60

// Series names one sparkline's data.
type Series string

const (
	SeriesCPU    Series = "cpu"
	SeriesMemory Series = "memory"
	SeriesDisk   Series = "disk"
	SeriesRx     Series = "net_rx"
	SeriesTx     Series = "net_tx"
)

// History keeps recent values per series for sparklines. It lives on the
// Bubble Tea goroutine and needs no lock.
type History struct {
	size   int
	series map[Series]*ring.Buffer[float64]
}

// NewHistory creates a history tracker with the given per-series capacity.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:   size,
		series: make(map[Series]*ring.Buffer[float64]),
	}
}

// Push records the values of every source that succeeded in snap. Failed
// sources are skipped so their zero defaults don't show up as dips.
func (h *History) Push(snap engine.Snapshot) {
	for src, r := range snap.Readings {
		if snap.Failed(src) {
			continue
		}
		switch v := r.(type) {
		case metrics.CPUReading:
			h.push(SeriesCPU, v.Usage)
		case metrics.MemoryReading:
			h.push(SeriesMemory, v.UsagePercent)
		case metrics.DiskReading:
			if vol, ok := v.Primary(); ok {
				h.push(SeriesDisk, vol.UsagePercent)
			}
		case metrics.NetworkReading:
			var rx, tx float64
			for _, iface := range v.Interfaces {
				rx += iface.RxKBps
				tx += iface.TxKBps
			}
			h.push(SeriesRx, rx)
			h.push(SeriesTx, tx)
		}
	}
}

func (h *History) push(s Series, v float64) {
	buf, ok := h.series[s]
	if !ok {
		buf = ring.New[float64](h.size)
		h.series[s] = buf
	}
	buf.Push(v)
}

// Last returns up to count values for s, oldest first.
func (h *History) Last(s Series, count int) []float64 {
	buf, ok := h.series[s]
	if !ok {
		return nil
	}
	return buf.Last(count)
}

// Len returns the number of stored values for s.
func (h *History) Len(s Series) int {
	buf, ok := h.series[s]
	if !ok {
		return 0
	}
	return buf.Len()
}

// Size returns the per-series capacity.
func (h *History) Size() int {
	return h.size
}

// Reset drops all stored values.
func (h *History) Reset() {
	clear(h.series)
}
