package wins

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu   sync.Mutex
	wins []Win
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) CreateWin(_ context.Context, w Win) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wins = append(m.wins, w)
	return nil
}

func (m *MemoryStore) ListWins(_ context.Context, owner string) ([]Win, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Win
	for _, w := range m.wins {
		if w.Owner == owner {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *MemoryStore) DeleteWin(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, w := range m.wins {
		if w.ID == id {
			m.wins = append(m.wins[:i], m.wins[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
