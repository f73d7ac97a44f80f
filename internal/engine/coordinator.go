package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rileyhilliard/sysdash/internal/cache"
	"github.com/rileyhilliard/sysdash/internal/escalation"
	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// Reporter receives failures for escalation.
type Reporter interface {
	Handle(err error) *escalation.Failure
}

// Result is the outcome for one source in one cycle. Exactly one of
// Reading and Err is set.
type Result struct {
	Source  metrics.Source
	Reading metrics.Reading
	Err     error
	Cached  bool
}

// OK reports whether the source produced a reading.
func (r Result) OK() bool {
	return r.Err == nil && r.Reading != nil
}

// Value returns the reading, or the zeroed default when the source failed.
func (r Result) Value() metrics.Reading {
	if r.Reading != nil {
		return r.Reading
	}
	return metrics.Default(r.Source)
}

// panicError is a collector panic captured inside its goroutine.
type panicError struct {
	source metrics.Source
	value  any
	stack  []byte
}

func (p *panicError) Error() string {
	return fmt.Sprintf("%s collector panicked: %v", p.source, p.value)
}

// Coordinator runs one refresh pass across all sources.
type Coordinator struct {
	collectors []metrics.Collector
	cache      *cache.Cache
	reporter   Reporter
	timeout    time.Duration
	now        func() time.Time
	logger     logger.Logger
}

// NewCoordinator creates a coordinator. Results follow the order of
// collectors.
func NewCoordinator(collectors []metrics.Collector, c *cache.Cache, r Reporter, timeout time.Duration, now func() time.Time, log logger.Logger) *Coordinator {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Coordinator{
		collectors: collectors,
		cache:      c,
		reporter:   r,
		timeout:    timeout,
		now:        now,
		logger:     log,
	}
}

// collected is a fresh reading plus the instant it was taken.
type collected struct {
	reading    metrics.Reading
	err        error
	capturedAt time.Time
}

// RefreshAll serves each source from the cache or collects it. Misses are
// collected concurrently and joined before any cache write or escalation.
// A failed source is reported at LOW severity and leaves its cache entry
// alone. Expired entries are swept once at the end.
func (c *Coordinator) RefreshAll(ctx context.Context) []Result {
	return c.refresh(ctx, true)
}

// ForceAll collects every source, ignoring cached entries. Fresh readings
// still replace the cache entries; failures leave them alone.
func (c *Coordinator) ForceAll(ctx context.Context) []Result {
	return c.refresh(ctx, false)
}

func (c *Coordinator) refresh(ctx context.Context, useCache bool) []Result {
	results := make([]Result, len(c.collectors))
	fresh := make([]collected, len(c.collectors))
	var wg sync.WaitGroup

	for i, col := range c.collectors {
		src := col.Source()
		results[i].Source = src

		if useCache {
			if r, ok := c.cache.Get(src); ok {
				results[i].Reading = r
				results[i].Cached = true
				continue
			}
		}

		wg.Add(1)
		go func(i int, col metrics.Collector) {
			defer wg.Done()
			fresh[i] = c.collectOne(ctx, col)
		}(i, col)
	}

	wg.Wait()

	for i := range results {
		if results[i].Cached {
			continue
		}
		f := fresh[i]
		if f.err != nil {
			results[i].Err = f.err
			c.report(results[i].Source, f.err)
			continue
		}
		results[i].Reading = f.reading
		c.cache.Put(results[i].Source, f.reading, f.capturedAt)
	}

	if n := c.cache.SweepExpired(); n > 0 {
		c.logger.Debug("swept expired cache entries", "evicted", n)
	}

	return results
}

func (c *Coordinator) collectOne(ctx context.Context, col metrics.Collector) (out collected) {
	src := col.Source()

	defer func() {
		if r := recover(); r != nil {
			out = collected{err: &panicError{source: src, value: r, stack: debug.Stack()}}
		}
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// The TTL counts from when sampling began.
	capturedAt := c.now()
	reading, err := col.Collect(ctx)
	if err == nil && reading == nil {
		err = fmt.Errorf("%s collector returned no reading", src)
	}
	if err != nil {
		if _, ok := err.(*metrics.CollectionError); !ok {
			err = &metrics.CollectionError{Source: src, Cause: err}
		}
		return collected{err: err}
	}
	return collected{reading: reading, capturedAt: capturedAt}
}

// report escalates a per-source failure. The cause picks the kind; the
// severity is always LOW since one widget degrades, not the system. A
// collector panic is the exception and escalates as CRITICAL.
func (c *Coordinator) report(src metrics.Source, err error) {
	if c.reporter == nil {
		return
	}

	if pe, ok := err.(*panicError); ok {
		c.reporter.Handle(escalation.New(escalation.KindSystem, escalation.SeverityCritical, pe.Error()).
			WithSource(src.String()).
			WithDetail("stack", string(pe.stack)))
		return
	}

	classified := escalation.Classify(err)
	c.reporter.Handle(escalation.Wrap(err, classified.Kind, escalation.SeverityLow, classified.Message).
		WithSource(src.String()))
}
