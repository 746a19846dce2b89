package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/shameless/shameless/internal/kv"
	"pgregory.net/rapid"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// failingStore rejects every operation.
type failingStore struct{}

var errStorageUnavailable = errors.New("storage unavailable")

func (failingStore) Get(string) (string, bool, error) { return "", false, errStorageUnavailable }
func (failingStore) Set(string, string) error         { return errStorageUnavailable }
func (failingStore) Delete(string) error              { return errStorageUnavailable }

func TestCache_BasicOperations(t *testing.T) {
	clock := newFakeClock()
	c := New[string]("media", MediaTTL, kv.NewMemory(), WithClock(clock.Now))

	if _, ok := c.Get("k"); ok {
		t.Fatal("Get on empty cache returned a value")
	}

	c.Put("k", "v")
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("Get failed: key not found")
	}
	if got != "v" {
		t.Errorf("got %q, want %q", got, "v")
	}

	c.Put("k", "v2")
	if got, _ := c.Get("k"); got != "v2" {
		t.Errorf("overwrite: got %q, want %q", got, "v2")
	}

	c.Delete("k")
	if c.Contains("k") {
		t.Error("key still present after delete")
	}
}

func TestCache_TTLBoundary(t *testing.T) {
	tests := []struct {
		name  string
		ttl   time.Duration
		after time.Duration
		want  bool
	}{
		{"fresh", MediaTTL, 0, true},
		{"just before media ttl", MediaTTL, MediaTTL - time.Millisecond, true},
		{"exactly media ttl", MediaTTL, MediaTTL, false},
		{"past media ttl", MediaTTL, MediaTTL + time.Minute, false},
		{"speech within a day", SpeechTTL, 23 * time.Hour, true},
		{"speech at a day", SpeechTTL, SpeechTTL, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			c := New[int]("ttl", tt.ttl, nil, WithClock(clock.Now))

			c.Put("key", 42)
			clock.Advance(tt.after)

			_, ok := c.Get("key")
			if ok != tt.want {
				t.Errorf("Get after %v with ttl %v: ok=%v, want %v", tt.after, tt.ttl, ok, tt.want)
			}
		})
	}
}

// TestCache_TTLProperty checks that a value is visible for every read before
// t+ttl and absent for every read at or after it.
func TestCache_TTLProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ttlMillis := rapid.Int64Range(1, int64(SpeechTTL/time.Millisecond)).Draw(t, "ttl")
		ttl := time.Duration(ttlMillis) * time.Millisecond
		offsets := rapid.SliceOfN(rapid.Int64Range(0, 2*ttlMillis), 1, 20).Draw(t, "offsets")

		start := newFakeClock().Now()
		for _, off := range offsets {
			clock := &fakeClock{now: start}
			c := New[string]("prop", ttl, nil, WithClock(clock.Now))
			c.Put("key", "value")

			clock.Advance(time.Duration(off) * time.Millisecond)
			_, ok := c.Get("key")

			want := time.Duration(off)*time.Millisecond < ttl
			if ok != want {
				t.Fatalf("read at +%dms with ttl %v: ok=%v, want %v", off, ttl, ok, want)
			}
		}
	})
}

func TestCache_ExpiredEntryDroppedOnLookup(t *testing.T) {
	clock := newFakeClock()
	store := kv.NewMemory()
	c := New[string]("media", MediaTTL, store, WithClock(clock.Now))

	c.Put("old", "x")
	clock.Advance(MediaTTL)

	if _, ok := c.Get("old"); ok {
		t.Fatal("expired entry returned")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry still held in memory: len=%d", c.Len())
	}

	stats := c.Stats()
	if stats.Expired != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 expired miss", stats)
	}
}

func TestCache_PersistsAcrossInstances(t *testing.T) {
	clock := newFakeClock()
	store := kv.NewMemory()

	first := New[string]("speech", SpeechTTL, store, WithClock(clock.Now))
	first.Put("a", "alpha")
	first.Put("b", "beta")

	raw, ok, err := store.Get(first.StorageKey())
	if err != nil || !ok || raw == "" {
		t.Fatalf("nothing persisted: ok=%v err=%v", ok, err)
	}

	clock.Advance(time.Hour)
	second := New[string]("speech", SpeechTTL, store, WithClock(clock.Now))
	if got, ok := second.Get("a"); !ok || got != "alpha" {
		t.Errorf("reloaded a = %q (ok=%v), want alpha", got, ok)
	}
	if second.Degraded() {
		t.Error("cache degraded after a clean reload")
	}
}

func TestCache_LoadSkipsExpiredEntries(t *testing.T) {
	clock := newFakeClock()
	store := kv.NewMemory()

	first := New[string]("media", MediaTTL, store, WithClock(clock.Now))
	first.Put("stale", "x")
	clock.Advance(MediaTTL + time.Second)

	second := New[string]("media", MediaTTL, store, WithClock(clock.Now))
	if second.Len() != 0 {
		t.Errorf("expired entry reloaded: len=%d", second.Len())
	}
}

func TestCache_Clear(t *testing.T) {
	store := kv.NewMemory()
	c := New[string]("media", MediaTTL, store)

	for _, k := range []string{"a", "b", "c"} {
		c.Put(k, k)
	}
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len after clear = %d", c.Len())
	}
	if _, ok, _ := store.Get(c.StorageKey()); ok {
		t.Error("persisted representation survived Clear")
	}
}

func TestCache_CorruptStorageStartsEmpty(t *testing.T) {
	store := kv.NewMemory()
	if err := store.Set("cache:media", "{not json"); err != nil {
		t.Fatal(err)
	}

	c := New[string]("media", MediaTTL, store)
	if c.Len() != 0 {
		t.Errorf("corrupt storage produced %d entries", c.Len())
	}
	if !c.Degraded() {
		t.Error("expected degraded after corrupt load")
	}

	// A successful write recovers persistence.
	c.Put("k", "v")
	if c.Degraded() {
		t.Error("still degraded after a successful write")
	}
}

func TestCache_QuotaExceededKeepsMemoryCopy(t *testing.T) {
	store := kv.NewMemoryWithQuota(64)
	c := New[string]("speech", SpeechTTL, store)

	c.Put("big", string(make([]byte, 256)))

	if _, ok := c.Get("big"); !ok {
		t.Fatal("value lost when persistence failed")
	}
	stats := c.Stats()
	if !stats.Degraded || stats.PersistFails != 1 {
		t.Errorf("stats = %+v, want degraded with one failure", stats)
	}
}

func TestCache_FailingStoreNeverPanics(t *testing.T) {
	c := New[string]("media", MediaTTL, failingStore{})

	c.Put("k", "v")
	if got, ok := c.Get("k"); !ok || got != "v" {
		t.Errorf("memory-only cache lost value: %q ok=%v", got, ok)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Error("Clear did not empty memory")
	}
	if !c.Degraded() {
		t.Error("expected degraded with failing store")
	}
}

func TestCache_Prune(t *testing.T) {
	clock := newFakeClock()
	c := New[string]("media", MediaTTL, kv.NewMemory(), WithClock(clock.Now))

	c.Put("old", "x")
	clock.Advance(3 * time.Minute)
	c.Put("new", "y")
	clock.Advance(3 * time.Minute)

	if pruned := c.Prune(); pruned != 1 {
		t.Errorf("Prune removed %d, want 1", pruned)
	}
	if !c.Contains("new") {
		t.Error("live entry pruned")
	}
}
