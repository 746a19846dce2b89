// Package wins records the small victories a user wants to remember and
// pairs each new win with a celebration.
package wins

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
	"github.com/shameless/shameless/internal/celebrate"
)

var (
	// ErrEmptyWin is returned for empty or whitespace-only win text.
	ErrEmptyWin = errors.New("win text is required")

	// ErrNotFound is returned when a win does not exist.
	ErrNotFound = errors.New("win not found")
)

// MaxTextLength bounds the length of a win.
const MaxTextLength = 500

// Win is one recorded victory.
type Win struct {
	ID        string             `json:"id"`
	Owner     string             `json:"owner"`
	Text      string             `json:"text"`
	Category  celebrate.Category `json:"category"`
	CreatedAt time.Time          `json:"created_at"`
}

// Store is the record store holding wins.
type Store interface {
	CreateWin(ctx context.Context, w Win) error
	ListWins(ctx context.Context, owner string) ([]Win, error)
	DeleteWin(ctx context.Context, id string) error
}

// Service validates and records wins.
type Service struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
	newID  func() (uuid.UUID, error)

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithRand sets the random source used to pick celebrations.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) {
		s.rng = r
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a wins service over store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: log.Default(),
		now:    time.Now,
		newID:  uuid.NewV7,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x3a11))
	}
	return s
}

// Add records a win for owner and returns it with a celebration. Empty text
// is rejected before the store is touched.
func (s *Service) Add(ctx context.Context, owner, text string, category celebrate.Category) (Win, celebrate.Config, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Win{}, celebrate.Config{}, ErrEmptyWin
	}
	if len([]rune(text)) > MaxTextLength {
		return Win{}, celebrate.Config{}, fmt.Errorf("win text exceeds %d characters", MaxTextLength)
	}

	id, err := s.newID()
	if err != nil {
		return Win{}, celebrate.Config{}, fmt.Errorf("failed to generate id: %w", err)
	}

	w := Win{
		ID:        id.String(),
		Owner:     owner,
		Text:      text,
		Category:  celebrate.ParseCategory(string(category)),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateWin(ctx, w); err != nil {
		return Win{}, celebrate.Config{}, fmt.Errorf("failed to save win: %w", err)
	}
	s.logger.Debug("Recorded win", "id", w.ID, "category", w.Category)

	s.rngMu.Lock()
	cfg := celebrate.Select(w.Category, s.rng)
	s.rngMu.Unlock()

	return w, cfg, nil
}

// List returns owner's wins, newest first.
func (s *Service) List(ctx context.Context, owner string) ([]Win, error) {
	wins, err := s.store.ListWins(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list wins: %w", err)
	}
	sort.SliceStable(wins, func(i, j int) bool {
		return wins[i].CreatedAt.After(wins[j].CreatedAt)
	})
	return wins, nil
}

// Delete removes a win by id or unique id prefix.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	wins, err := s.store.ListWins(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to list wins: %w", err)
	}

	var match string
	for _, w := range wins {
		if w.ID == id {
			match = id
			break
		}
		if strings.HasPrefix(w.ID, id) {
			if match != "" {
				return fmt.Errorf("id prefix %q is ambiguous", id)
			}
			match = w.ID
		}
	}
	if match == "" {
		return ErrNotFound
	}
	return s.store.DeleteWin(ctx, match)
}

// Search returns owner's wins fuzzily matching query, best match first.
func (s *Service) Search(ctx context.Context, owner, query string) ([]Win, error) {
	wins, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return wins, nil
	}

	matches := fuzzy.FindFrom(query, winSource(wins))
	out := make([]Win, 0, len(matches))
	for _, m := range matches {
		out = append(out, wins[m.Index])
	}
	return out, nil
}

type winSource []Win

func (w winSource) String(i int) string {
	return string(w[i].Category) + " " + w[i].Text
}

func (w winSource) Len() int {
	return len(w)
}
