package cache

import (
	"errors"
	"time"
)

// TTLs used by the remote clients.
const (
	// SpeechTTL bounds how long a synthesized affirmation is reused.
	SpeechTTL = 24 * time.Hour

	// MediaTTL bounds how long a media search result is reused.
	MediaTTL = 5 * time.Minute

	// MaxPersistBytes caps the serialized size of one persisted cache.
	// Larger mappings stay in memory only, like a full browser storage quota.
	MaxPersistBytes = 4 * 1024 * 1024
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the store capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCacheMiss is returned when an item is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheCorrupted is returned when cache data is corrupted
	ErrCacheCorrupted = errors.New("cache data corrupted")

	// ErrPersistTooLarge is returned when the serialized cache exceeds MaxPersistBytes
	ErrPersistTooLarge = errors.New("serialized cache exceeds persistence limit")
)

// Stats holds cache performance metrics
type Stats struct {
	ItemCount int64 // Number of live items

	Hits    int64   // Number of cache hits
	Misses  int64   // Number of cache misses
	Expired int64   // Number of lookups that found an expired entry
	HitRate float64 // hits / (hits + misses)

	LastAccess time.Time // Last lookup time

	// Persistence health
	Degraded     bool  // True while running memory-only
	PersistFails int64 // Number of failed loads or writes
}

// Entry is the persisted form of one cached value.
type Entry[T any] struct {
	Value     T     `json:"value"`
	Timestamp int64 `json:"timestamp"` // unix millis at insertion
}

// CreatedAt returns the insertion time of the entry.
func (e Entry[T]) CreatedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Valid reports whether the entry is still live at now for the given ttl.
func (e Entry[T]) Valid(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CreatedAt()) < ttl
}
