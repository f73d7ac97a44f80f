package metrics

import (
	"context"
	"fmt"
	"time"
)

// Collector fetches a fresh reading for one metric source.
// Implementations never fail for "no data" conditions (an empty reading
// is returned instead); they fail only on I/O, permission or
// malformed-data problems, always with a *CollectionError.
type Collector interface {
	Source() Source
	Collect(ctx context.Context) (Reading, error)
}

// CollectionError reports a failed collection for one source.
type CollectionError struct {
	Source Source
	Cause  error
}

// Error implements the error interface.
func (e *CollectionError) Error() string {
	return fmt.Sprintf("collect %s: %v", e.Source, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *CollectionError) Unwrap() error {
	return e.Cause
}

func collectionError(s Source, err error) error {
	return &CollectionError{Source: s, Cause: err}
}

// NewCollectors returns the OS-backed collectors for every source,
// in AllSources order.
func NewCollectors() []Collector {
	return []Collector{
		NewCPUCollector(),
		NewMemoryCollector(),
		NewDiskCollector(),
		NewNetworkCollector(time.Now),
	}
}

// CollectorFunc adapts a function into a Collector. Used for tests and
// for wrapping collectors with extra behavior.
type CollectorFunc struct {
	ID Source
	Fn func(ctx context.Context) (Reading, error)
}

// Source returns the source id.
func (c CollectorFunc) Source() Source { return c.ID }

// Collect calls the wrapped function.
func (c CollectorFunc) Collect(ctx context.Context) (Reading, error) { return c.Fn(ctx) }
