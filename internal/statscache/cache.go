// Package statscache memoizes per-collection deck statistics with a TTL.
//
// The cache holds no business logic. The scheduler reads through it and
// invalidates entries after every commit. All writes are expected to come
// from the scheduler's single writer; reads may happen from any goroutine.
package statscache

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
)

// DefaultTTL is how long an entry stays valid after it was written.
const DefaultTTL = 30 * time.Second

// AllCards is the key for statistics over every card regardless of collection.
const AllCards = "*"

// Key returns the cache key for a collection scope. Nil means all cards.
func Key(collection *uuid.UUID) string {
	if collection == nil {
		return AllCards
	}
	return collection.String()
}

type entry struct {
	stats     domain.DeckStats
	writtenAt time.Time
}

// Cache is a TTL map from collection key to DeckStats.
// An entry is valid while its age is strictly less than the TTL.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	now        func() time.Time
	generation uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the validity window. Non-positive values keep the default.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the time source. Passing nil restores the wall clock.
//
// Example:
//
//	clock := statscache.NewManualClock(start)
//	cache := statscache.New(statscache.WithClock(clock.Now))
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now == nil {
			now = time.Now
		}
		c.now = now
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured validity window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached stats for key. The boolean is false on a miss or
// when the entry has expired.
func (c *Cache) Get(key string) (domain.DeckStats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.fresh(e) {
		return domain.DeckStats{}, false
	}
	return e.stats, true
}

// Set stores stats under key and resets its age to zero.
func (c *Cache) Set(key string, stats domain.DeckStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{stats: stats, writtenAt: c.now()}
}

// SetBatch stores every pair with one timestamp.
func (c *Cache) SetBatch(batch map[string]domain.DeckStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setBatchLocked(batch)
}

func (c *Cache) setBatchLocked(batch map[string]domain.DeckStats) {
	now := c.now()
	for key, stats := range batch {
		c.entries[key] = entry{stats: stats, writtenAt: now}
	}
}

// Generation returns a counter that advances on every invalidation.
// Capture it before computing stats and pass it to SetBatchIfCurrent.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// SetBatchIfCurrent stores batch only if no invalidation happened since gen
// was read. It reports whether the batch was stored.
func (c *Cache) SetBatchIfCurrent(gen uint64, batch map[string]domain.DeckStats) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return false
	}
	c.setBatchLocked(batch)
	return true
}

// Invalidate drops the entries for the given keys.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.generation++
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.generation++
}

// IsValid reports whether key holds an unexpired entry.
func (c *Cache) IsValid(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Age returns how long ago key was written. Expired entries still report
// their age; the boolean is false only when nothing is stored.
func (c *Cache) Age(key string) (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	return c.now().Sub(e.writtenAt), true
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) fresh(e entry) bool {
	return c.now().Sub(e.writtenAt) < c.ttl
}
