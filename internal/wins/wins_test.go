package wins

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shameless/shameless/internal/celebrate"
)

// countingStore counts create calls.
type countingStore struct {
	*MemoryStore
	creates int
}

func (c *countingStore) CreateWin(ctx context.Context, w Win) error {
	c.creates++
	return c.MemoryStore.CreateWin(ctx, w)
}

func newTestService(store Store) (*Service, *time.Time) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(store,
		WithRand(rand.New(rand.NewPCG(5, 6))),
		WithClock(func() time.Time { return now }),
		WithLogger(log.New(io.Discard)),
	)
	return svc, &now
}

func TestAdd(t *testing.T) {
	store := &countingStore{MemoryStore: NewMemoryStore()}
	svc, _ := newTestService(store)
	ctx := context.Background()

	w, cfg, err := svc.Add(ctx, "me", "  Asked for help at work ", celebrate.CategoryCourage)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if w.Text != "Asked for help at work" || w.Category != celebrate.CategoryCourage {
		t.Errorf("win = %+v", w)
	}
	id, err := uuid.Parse(w.ID)
	if err != nil || id.Version() != 7 {
		t.Errorf("id %q is not a v7 uuid", w.ID)
	}
	if !strings.Contains(cfg.Render(w.Text), "Asked for help at work") {
		t.Errorf("celebration %q does not mention the win", cfg.Render(w.Text))
	}

	w, _, err = svc.Add(ctx, "me", "watered the plants", "gardening")
	if err != nil {
		t.Fatal(err)
	}
	if w.Category != celebrate.CategoryCustom {
		t.Errorf("unknown category stored as %q", w.Category)
	}
}

func TestAddRejectsEmptyText(t *testing.T) {
	store := &countingStore{MemoryStore: NewMemoryStore()}
	svc, _ := newTestService(store)

	for _, text := range []string{"", "   ", "\n"} {
		if _, _, err := svc.Add(context.Background(), "me", text, celebrate.CategoryRest); !errors.Is(err, ErrEmptyWin) {
			t.Errorf("Add(%q) error = %v, want ErrEmptyWin", text, err)
		}
	}
	if store.creates != 0 {
		t.Errorf("store touched %d times for empty wins", store.creates)
	}

	long := strings.Repeat("a", MaxTextLength+1)
	if _, _, err := svc.Add(context.Background(), "me", long, ""); err == nil {
		t.Error("overlong win accepted")
	}
}

func TestListNewestFirstPerOwner(t *testing.T) {
	svc, now := newTestService(NewMemoryStore())
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if _, _, err := svc.Add(ctx, "me", text, ""); err != nil {
			t.Fatal(err)
		}
		*now = now.Add(time.Hour)
	}
	svc.Add(ctx, "someone-else", "not mine", "")

	wins, err := svc.List(ctx, "me")
	if err != nil {
		t.Fatal(err)
	}
	if len(wins) != 3 {
		t.Fatalf("got %d wins, want 3", len(wins))
	}
	if wins[0].Text != "third" || wins[2].Text != "first" {
		t.Errorf("order = %s, %s, %s", wins[0].Text, wins[1].Text, wins[2].Text)
	}
}

func TestDeleteByPrefix(t *testing.T) {
	svc, _ := newTestService(NewMemoryStore())
	ctx := context.Background()

	w, _, _ := svc.Add(ctx, "me", "said no kindly", celebrate.CategoryBoundaries)
	if err := svc.Delete(ctx, "me", w.ID[:13]); err != nil {
		t.Fatalf("Delete by prefix failed: %v", err)
	}
	if err := svc.Delete(ctx, "me", w.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, "me", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty id error = %v", err)
	}
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(NewMemoryStore())
	ctx := context.Background()

	svc.Add(ctx, "me", "went to bed early", celebrate.CategoryRest)
	svc.Add(ctx, "me", "called my sister", celebrate.CategoryConnection)
	svc.Add(ctx, "me", "took a slow walk", celebrate.CategorySelfCare)

	got, err := svc.Search(ctx, "me", "sister")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Text != "called my sister" {
		t.Errorf("Search(sister) = %+v", got)
	}

	got, _ = svc.Search(ctx, "me", "rest")
	if len(got) == 0 || got[0].Category != celebrate.CategoryRest {
		t.Errorf("Search(rest) = %+v", got)
	}

	all, _ := svc.Search(ctx, "me", " ")
	if len(all) != 3 {
		t.Errorf("blank query returned %d wins", len(all))
	}
}
