package dataset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/agrometeo/pluvio-monitor/internal/observability"
)

// Cache memoizes built datasets per mode for a fixed TTL. Expiry triggers a
// full rebuild; failed builds are not cached so the next query retries.
// A successfully built dataset is immutable and safe for concurrent readers.
// Each mode is locked independently: a burst of queries after expiry results
// in a single upstream fetch for that mode, and a slow rebuild of one mode
// never delays cache hits on the other.
type Cache struct {
	builder *Builder
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics

	mu      sync.Mutex
	entries map[Mode]*cacheEntry
	ready   atomic.Bool
}

// cacheEntry serializes rebuilds of a single mode.
type cacheEntry struct {
	mu sync.Mutex
	ds *Dataset
}

// NewCache creates a Cache around a Builder.
func NewCache(builder *Builder, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *Cache {
	return &Cache{
		builder: builder,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
		entries: make(map[Mode]*cacheEntry),
	}
}

// entry returns the per-mode slot, creating it on first use.
func (c *Cache) entry(mode Mode) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[mode]
	if !ok {
		e = &cacheEntry{}
		c.entries[mode] = e
	}
	return e
}

// Get returns the cached dataset for mode, rebuilding it when absent or
// older than the TTL.
func (c *Cache) Get(ctx context.Context, mode Mode) (*Dataset, error) {
	e := c.entry(mode)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ds != nil && c.clock.Now().Sub(e.ds.RefreshedAt) < c.ttl {
		c.metrics.CacheLookups.WithLabelValues(string(mode), "hit").Inc()
		return e.ds, nil
	}
	c.metrics.CacheLookups.WithLabelValues(string(mode), "miss").Inc()

	ds, err := c.builder.Build(ctx, mode)
	if err != nil {
		return nil, err
	}
	e.ds = ds
	c.ready.Store(true)
	return ds, nil
}

// Invalidate drops all cached datasets. The next Get per mode rebuilds.
// This backs the manual "reload full history" switch. An in-flight rebuild
// finishes against its orphaned slot and is rebuilt on the next query.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Mode]*cacheEntry)
}

// CheckReadiness reports whether at least one dataset has been built since
// startup, for the readiness probe.
func (c *Cache) CheckReadiness(_ context.Context) error {
	if !c.ready.Load() {
		return errors.New("no dataset has been built yet")
	}
	return nil
}
