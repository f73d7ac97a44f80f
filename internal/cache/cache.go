// Package cache holds the last successful reading per metric source and
// refuses to serve any reading whose age has reached the TTL.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// DefaultTTL is used when New is given a non-positive ttl.
const DefaultTTL = 2 * time.Second

type entry struct {
	reading    metrics.Reading
	capturedAt time.Time
}

// Stats describes the cache contents at a point in time.
type Stats struct {
	Size int              `json:"size"`
	Keys []metrics.Source `json:"keys"`
	TTL  time.Duration    `json:"ttl"`
}

// Cache is a TTL store with at most one entry per source.
// Expired entries are evicted lazily on Get and eagerly by SweepExpired.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[metrics.Source]entry
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the wall clock used for age checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates an empty cache.
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		ttl:     ttl,
		entries: make(map[metrics.Source]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// expired reports whether an entry captured at t may no longer be served.
func (c *Cache) expired(e entry, now time.Time) bool {
	return now.Sub(e.capturedAt) >= c.ttl
}

// Get returns the cached reading for key. An entry whose age is at or past
// the TTL is evicted and reported as absent.
func (c *Cache) Get(key metrics.Source) (metrics.Reading, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.expired(e, c.now()) {
		delete(c.entries, key)
		return nil, false
	}
	return e.reading, true
}

// Put stores r under key, replacing any previous entry. capturedAt is the
// instant the reading was taken, which may precede the insertion.
func (c *Cache) Put(key metrics.Source, r metrics.Reading, capturedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{reading: r, capturedAt: capturedAt}
}

// SweepExpired evicts every expired entry and returns how many were removed.
func (c *Cache) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	evicted := 0
	for k, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, k)
			evicted++
		}
	}
	return evicted
}

// Clear drops all entries. Clearing an empty cache is a no-op.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of stored entries, including any not yet evicted.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Stats returns size, sorted keys and TTL.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]metrics.Source, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return Stats{Size: len(c.entries), Keys: keys, TTL: c.ttl}
}
