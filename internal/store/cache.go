package store

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"deal-radar/internal/engine"
)

type metricsEntry struct {
	metrics *engine.MarketMetrics
	expires time.Time
}

// MetricsCache is a thread-safe read-through cache over the per-category
// market metrics table. Batch evaluation hits the same categories over
// and over; a singleflight.Group coalesces concurrent loads so each
// category is read from SQLite at most once per TTL window.
type MetricsCache struct {
	store *Store
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]*metricsEntry
	group   singleflight.Group
}

// NewMetricsCache wraps a store with an in-memory metrics cache.
func NewMetricsCache(s *Store, ttl time.Duration) *MetricsCache {
	return &MetricsCache{
		store:   s,
		ttl:     ttl,
		entries: make(map[string]*metricsEntry),
	}
}

// Get returns the metrics snapshot for a category, loading it through
// the store on a cache miss. A nil result (no snapshot stored) is cached
// like any other value.
func (c *MetricsCache) Get(category string) (*engine.MarketMetrics, error) {
	c.mu.RLock()
	e, ok := c.entries[category]
	c.mu.RUnlock()
	if ok && time.Now().Before(e.expires) {
		return e.metrics, nil
	}

	result, err, _ := c.group.Do(category, func() (interface{}, error) {
		m, err := c.store.LoadMarketMetrics(category)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[category] = &metricsEntry{metrics: m, expires: time.Now().Add(c.ttl)}
		c.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*engine.MarketMetrics), nil
}

// Invalidate drops the cached entry for a category, forcing the next
// Get to re-read the store.
func (c *MetricsCache) Invalidate(category string) {
	c.mu.Lock()
	delete(c.entries, category)
	c.mu.Unlock()
}
