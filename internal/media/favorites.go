package media

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shameless/shameless/internal/kv"
)

// ErrEmptyID is returned when a favorite has no id.
var ErrEmptyID = errors.New("media id is required")

// Favorites is the locally persisted list of favorited media, newest first.
// It never touches the network.
type Favorites struct {
	store  kv.Store
	logger *log.Logger
	now    func() time.Time

	mu    sync.Mutex
	items []Favorite
}

// NewFavorites loads the favorites persisted in store. Unreadable data is
// logged and treated as an empty list.
func NewFavorites(store kv.Store, logger *log.Logger) *Favorites {
	if logger == nil {
		logger = log.Default()
	}
	f := &Favorites{store: store, logger: logger, now: time.Now}
	f.load()
	return f
}

// IsFavorited reports whether id is in the list.
func (f *Favorites) IsFavorited(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index(id) >= 0
}

// IDs returns the set of favorited ids.
func (f *Favorites) IDs() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make(map[string]bool, len(f.items))
	for _, fav := range f.items {
		ids[fav.Item.ID] = true
	}
	return ids
}

// Add favorites item. Adding an existing id refreshes its stored item.
func (f *Favorites) Add(item Item) error {
	if strings.TrimSpace(item.ID) == "" {
		return ErrEmptyID
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	item.Favorited = true
	if i := f.index(item.ID); i >= 0 {
		f.items = append(f.items[:i], f.items[i+1:]...)
	}
	f.items = append([]Favorite{{Item: item, AddedAt: f.now()}}, f.items...)
	return f.save()
}

// Remove drops id from the list. Removing an unknown id is not an error.
func (f *Favorites) Remove(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.index(id)
	if i < 0 {
		return nil
	}
	f.items = append(f.items[:i], f.items[i+1:]...)
	return f.save()
}

// Toggle flips the favorite state of item and reports the new state.
func (f *Favorites) Toggle(item Item) (bool, error) {
	if f.IsFavorited(item.ID) {
		return false, f.Remove(item.ID)
	}
	return true, f.Add(item)
}

// List returns the favorites, newest first.
func (f *Favorites) List() []Favorite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Favorite(nil), f.items...)
}

func (f *Favorites) index(id string) int {
	for i, fav := range f.items {
		if fav.Item.ID == id {
			return i
		}
	}
	return -1
}

func (f *Favorites) load() {
	if f.store == nil {
		return
	}
	raw, ok, err := f.store.Get(kv.KeyFavoriteMedia)
	if err != nil {
		f.logger.Warn("Failed to load favorites", "error", err)
		return
	}
	if !ok || raw == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), &f.items); err != nil {
		f.logger.Warn("Ignoring unreadable favorites", "error", err)
		f.items = nil
	}
}

func (f *Favorites) save() error {
	if f.store == nil {
		return nil
	}
	data, err := json.Marshal(f.items)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := f.store.Set(kv.KeyFavoriteMedia, string(data)); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}
