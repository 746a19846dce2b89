package kv

import (
	"errors"
	"testing"
)

func TestMemory_BasicOperations(t *testing.T) {
	store := NewMemory()

	if _, ok, err := store.Get("missing"); ok || err != nil {
		t.Fatalf("Get on empty store: ok=%v err=%v", ok, err)
	}

	if err := store.Set(KeyLanguage, "fr"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, ok, err := store.Get(KeyLanguage)
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if v != "fr" {
		t.Errorf("got %q, want %q", v, "fr")
	}

	// Last write wins.
	if err := store.Set(KeyLanguage, "sw"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, _, _ := store.Get(KeyLanguage); v != "sw" {
		t.Errorf("got %q after overwrite, want %q", v, "sw")
	}

	if err := store.Delete(KeyLanguage); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := store.Get(KeyLanguage); ok {
		t.Error("key still present after delete")
	}
	if err := store.Delete(KeyLanguage); err != nil {
		t.Errorf("deleting missing key returned %v", err)
	}
}

func TestMemory_EmptyKey(t *testing.T) {
	store := NewMemory()

	if err := store.Set("", "x"); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Set: expected ErrEmptyKey, got %v", err)
	}
	if _, _, err := store.Get(""); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Get: expected ErrEmptyKey, got %v", err)
	}
	if err := store.Delete(""); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Delete: expected ErrEmptyKey, got %v", err)
	}
}

func TestMemory_Quota(t *testing.T) {
	store := NewMemoryWithQuota(10)

	if err := store.Set("a", "1234"); err != nil {
		t.Fatalf("Set within quota failed: %v", err)
	}
	if err := store.Set("b", "123456789"); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	// Replacing a value accounts for the bytes it frees.
	if err := store.Set("a", "12345678"); err != nil {
		t.Errorf("overwrite within quota failed: %v", err)
	}

	if err := store.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Set("b", "12345678"); err != nil {
		t.Errorf("Set after freeing space failed: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}
