package kv

import (
	"errors"
	"sync"
)

// Well-known keys for process-wide local state.
const (
	KeyLanguage           = "language"
	KeySupportStyle       = "support_style"
	KeyThemePreference    = "theme_preference"
	KeyAnchorPhrase       = "anchor_phrase"
	KeyOnboardingComplete = "onboarding_complete"
	KeyOnboardingSkipped  = "onboarding_skipped"
	KeyAppLanguage        = "app_language"
	KeyFavoriteMedia      = "favorite_media"
	KeyRecentMedia        = "recent_media"
)

var (
	// ErrQuotaExceeded is returned when a write would exceed the store quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrEmptyKey is returned for blank keys.
	ErrEmptyKey = errors.New("key is required")
)

// Store is a flat string key-value store with last-write-wins semantics.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Memory is an in-memory Store. A positive quota bounds the total number of
// bytes (keys plus values) it will hold.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
	quota int
	used  int
}

// NewMemory returns an unbounded in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

// NewMemoryWithQuota returns an in-memory store bounded to quota bytes.
func NewMemoryWithQuota(quota int) *Memory {
	m := NewMemory()
	m.quota = quota
	return m
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
func (m *Memory) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used + len(key) + len(value)
	if old, ok := m.items[key]; ok {
		used -= len(key) + len(old)
	}
	if m.quota > 0 && used > m.quota {
		return ErrQuotaExceeded
	}

	m.items[key] = value
	m.used = used
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *Memory) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.items[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.items, key)
	}
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
