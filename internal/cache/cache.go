package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shameless/shameless/internal/kv"
)

// Cache is a TTL-bounded key-value cache whose whole mapping is persisted
// through a kv.Store after every mutation. Persistence is best-effort: any
// load or write failure leaves the cache working from memory.
type Cache[T any] struct {
	name  string
	ttl   time.Duration
	store kv.Store

	items map[string]Entry[T]

	now    func() time.Time
	logger *log.Logger

	mu    sync.Mutex
	stats Stats
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now    func() time.Time
	logger *log.Logger
}

// WithClock overrides the time source used for timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger sets the logger used to report persistence failures.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a cache named name, loading any persisted entries from store.
// A nil store runs the cache memory-only.
func New[T any](name string, ttl time.Duration, store kv.Store, opts ...Option) *Cache[T] {
	o := options{
		now:    time.Now,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache[T]{
		name:   name,
		ttl:    ttl,
		store:  store,
		items:  make(map[string]Entry[T]),
		now:    o.now,
		logger: o.logger.With("cache", name),
	}
	c.load()

	return c
}

// StorageKey returns the kv key the cache persists under.
func (c *Cache[T]) StorageKey() string {
	return "cache:" + c.name
}

// TTL returns the configured time-to-live.
func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}

// Get returns the value stored under key if it has not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	now := c.now()
	c.stats.LastAccess = now

	entry, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		c.logger.Debug("Cache miss", "key", key)
		return zero, false
	}

	if !entry.Valid(now, c.ttl) {
		// Expired entries are logically absent; drop them from memory and
		// let the next write carry the removal to storage.
		delete(c.items, key)
		c.stats.Misses++
		c.stats.Expired++
		c.logger.Debug("Cache entry expired", "key", key, "age", now.Sub(entry.CreatedAt()))
		return zero, false
	}

	c.stats.Hits++
	c.logger.Debug("Cache hit", "key", key)
	return entry.Value, true
}

// Contains reports whether a live entry exists without touching statistics.
func (c *Cache[T]) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	return ok && entry.Valid(c.now(), c.ttl)
}

// Put inserts or overwrites the value stored under key.
func (c *Cache[T]) Put(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = Entry[T]{
		Value:     value,
		Timestamp: c.now().UnixMilli(),
	}
	c.persist()
}

// Delete removes key from the cache.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; !ok {
		return
	}
	delete(c.items, key)
	c.persist()
}

// Clear removes all entries and the persisted representation.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]Entry[T])
	if c.store == nil {
		return
	}
	if err := c.store.Delete(c.StorageKey()); err != nil {
		c.markDegraded("clear", err)
		return
	}
	c.stats.Degraded = false
}

// Prune drops every expired entry and returns how many were removed.
func (c *Cache[T]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	pruned := 0
	for key, entry := range c.items {
		if !entry.Valid(now, c.ttl) {
			delete(c.items, key)
			pruned++
		}
	}
	if pruned > 0 {
		c.persist()
	}
	return pruned
}

// Len returns the number of entries held in memory, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Degraded reports whether the last persistence attempt failed.
func (c *Cache[T]) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats.Degraded
}

// Stats returns cache statistics.
func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.ItemCount = int64(len(c.items))
	if stats.Hits+stats.Misses > 0 {
		stats.HitRate = float64(stats.Hits) / float64(stats.Hits+stats.Misses)
	}
	return stats
}

// load reads the persisted mapping. Expired entries are skipped so they never
// resurface after a restart.
func (c *Cache[T]) load() {
	if c.store == nil {
		return
	}

	raw, ok, err := c.store.Get(c.StorageKey())
	if err != nil {
		c.markDegraded("load", err)
		return
	}
	if !ok || raw == "" {
		return
	}

	var persisted map[string]Entry[T]
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		c.markDegraded("load", fmt.Errorf("%w: %v", ErrCacheCorrupted, err))
		return
	}

	now := c.now()
	for key, entry := range persisted {
		if entry.Valid(now, c.ttl) {
			c.items[key] = entry
		}
	}
	c.logger.Debug("Loaded persisted cache", "entries", len(c.items), "skipped", len(persisted)-len(c.items))
}

// persist writes the whole mapping (must be called with lock held).
func (c *Cache[T]) persist() {
	if c.store == nil {
		return
	}

	data, err := json.Marshal(c.items)
	if err != nil {
		c.markDegraded("encode", err)
		return
	}
	if len(data) > MaxPersistBytes {
		c.markDegraded("write", fmt.Errorf("%w: %d bytes", ErrPersistTooLarge, len(data)))
		return
	}
	if err := c.store.Set(c.StorageKey(), string(data)); err != nil {
		c.markDegraded("write", err)
		return
	}
	c.stats.Degraded = false
}

func (c *Cache[T]) markDegraded(op string, err error) {
	c.stats.Degraded = true
	c.stats.PersistFails++
	c.logger.Warn("Cache persistence failed, continuing in memory", "op", op, "error", err)
}
