package metrics

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/shirou/gopsutil/v3/mem"
)

// MemoryCollector reads virtual memory usage via gopsutil.
type MemoryCollector struct {
	virtual func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

// NewMemoryCollector creates a memory collector backed by the host OS.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{virtual: mem.VirtualMemoryWithContext}
}

// Source returns SourceMemory.
func (c *MemoryCollector) Source() Source { return SourceMemory }

// Collect returns total/used/free memory in GB.
// Used is everything not reclaimable (total - available), so page cache
// is reported as free.
func (c *MemoryCollector) Collect(ctx context.Context) (Reading, error) {
	v, err := c.virtual(ctx)
	if err != nil {
		return nil, collectionError(SourceMemory, err)
	}
	if v == nil || v.Total == 0 {
		return nil, collectionError(SourceMemory,
			fmt.Errorf("memory total is zero: %w", errors.MalformedData))
	}

	available := v.Available
	if available > v.Total {
		available = v.Total
	}
	used := v.Total - available

	return MemoryReading{
		TotalGB:      BytesToGB(v.Total),
		UsedGB:       BytesToGB(used),
		FreeGB:       BytesToGB(available),
		UsagePercent: Percent(used, v.Total),
	}, nil
}
