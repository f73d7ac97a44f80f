package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/shirou/gopsutil/v3/cpu"
)

// CPUCollector reads CPU usage via gopsutil.
//
// Percentages are computed by gopsutil against the previous call
// (interval 0), so the first reading after start reflects usage since boot
// and subsequent readings reflect the last refresh window.
type CPUCollector struct {
	percent func(ctx context.Context, interval time.Duration, perCPU bool) ([]float64, error)
	info    func(ctx context.Context) ([]cpu.InfoStat, error)
}

// NewCPUCollector creates a CPU collector backed by the host OS.
func NewCPUCollector() *CPUCollector {
	return &CPUCollector{
		percent: cpu.PercentWithContext,
		info:    cpu.InfoWithContext,
	}
}

// Source returns SourceCPU.
func (c *CPUCollector) Source() Source { return SourceCPU }

// Collect returns overall and per-core usage plus model and clock speed.
func (c *CPUCollector) Collect(ctx context.Context) (Reading, error) {
	total, err := c.percent(ctx, 0, false)
	if err != nil {
		return nil, collectionError(SourceCPU, err)
	}
	if len(total) == 0 {
		return nil, collectionError(SourceCPU,
			fmt.Errorf("cpu percent returned no values: %w", errors.MalformedData))
	}

	perCore, err := c.percent(ctx, 0, true)
	if err != nil {
		return nil, collectionError(SourceCPU, err)
	}

	infos, err := c.info(ctx)
	if err != nil {
		return nil, collectionError(SourceCPU, err)
	}

	reading := CPUReading{
		Usage:   ClampPercent(Round2(total[0])),
		PerCore: make([]float64, len(perCore)),
	}
	for i, p := range perCore {
		reading.PerCore[i] = ClampPercent(Round2(p))
	}

	// Hosts without /proc/cpuinfo model lines (some ARM boards, containers)
	// return no info; that's missing data, not a failure.
	if len(infos) > 0 {
		reading.Model = infos[0].ModelName
		reading.SpeedGHz = Round2(infos[0].Mhz / 1000)
	}

	return reading, nil
}
