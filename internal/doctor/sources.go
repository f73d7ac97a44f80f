package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/sysdash/internal/escalation"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// SourceCheck runs one collector once, the way a refresh cycle would.
type SourceCheck struct {
	Collector metrics.Collector
	Timeout   time.Duration
}

func (c *SourceCheck) Name() string     { return "source_" + c.Collector.Source().String() }
func (c *SourceCheck) Category() string { return CategorySources }

func (c *SourceCheck) Run(ctx context.Context) CheckResult {
	label := c.Collector.Source().Label()

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	start := time.Now()
	reading, err := c.Collector.Collect(ctx)
	took := time.Since(start).Round(time.Millisecond)

	if err != nil {
		f := escalation.Classify(err)
		status := StatusWarn
		if f.Severity >= escalation.SeverityHigh {
			status = StatusFail
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     status,
			Message:    fmt.Sprintf("%s unavailable (%s/%s): %s", label, f.Kind, f.Severity, f.Message),
			Suggestion: suggestionFor(f.Kind),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: %s (%s)", label, describe(reading), took),
	}
}

func (c *SourceCheck) Fix() error {
	return nil
}

func suggestionFor(kind escalation.Kind) string {
	switch kind {
	case escalation.KindSystem:
		return "The dashboard will show defaults for this source; check OS permissions"
	case escalation.KindNetwork:
		return "Network counters are unavailable; the card will show the last good value"
	case escalation.KindData:
		return "The OS returned data sysdash couldn't parse"
	default:
		return ""
	}
}

func describe(r metrics.Reading) string {
	switch v := r.(type) {
	case metrics.CPUReading:
		return fmt.Sprintf("%d cores, %.1f%% used", len(v.PerCore), v.Usage)
	case metrics.MemoryReading:
		return fmt.Sprintf("%.2f GB total, %.1f%% used", v.TotalGB, v.UsagePercent)
	case metrics.DiskReading:
		return fmt.Sprintf("%d volume%s", len(v.Volumes), pluralize(len(v.Volumes)))
	case metrics.NetworkReading:
		return fmt.Sprintf("%d interface%s", len(v.Interfaces), pluralize(len(v.Interfaces)))
	}
	return "ok"
}
