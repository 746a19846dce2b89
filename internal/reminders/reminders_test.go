package reminders

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

var start = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *time.Time) {
	now := start
	return NewService(NewMemoryStore(),
		WithClock(func() time.Time { return now }),
		WithLogger(log.New(io.Discard)),
	), &now
}

func TestSchedule(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	r, err := svc.Schedule(ctx, "Ana <ana@example.com>", "  Drink water  ", start.Add(time.Hour))
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if r.Recipient != "ana@example.com" || r.Content != "Drink water" || r.Status != StatusScheduled {
		t.Errorf("reminder = %+v", r)
	}

	tests := []struct {
		name      string
		recipient string
		content   string
		sendAt    time.Time
		want      error
	}{
		{"bad address", "not-an-email", "hi", start.Add(time.Hour), ErrInvalidRecipient},
		{"empty content", "ana@example.com", " ", start.Add(time.Hour), ErrEmptyContent},
		{"past", "ana@example.com", "hi", start.Add(-time.Minute), ErrInPast},
		{"now", "ana@example.com", "hi", start, ErrInPast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Schedule(ctx, tt.recipient, tt.content, tt.sendAt); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDueAndTransitions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	soon, _ := svc.Schedule(ctx, "a@example.com", "soon", start.Add(time.Minute))
	later, _ := svc.Schedule(ctx, "b@example.com", "later", start.Add(time.Hour))

	due, err := svc.Due(ctx, start.Add(30*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 || due[0].ID != soon.ID {
		t.Fatalf("due = %+v", due)
	}

	sent, err := svc.MarkSent(ctx, soon.ID)
	if err != nil || sent.Status != StatusSent {
		t.Fatalf("MarkSent = %+v, %v", sent, err)
	}
	if _, err := svc.MarkFailed(ctx, soon.ID, "smtp down"); !errors.Is(err, ErrNotScheduled) {
		t.Errorf("second transition error = %v", err)
	}

	failed, err := svc.MarkFailed(ctx, later.ID, "mailbox full")
	if err != nil || failed.Status != StatusFailed || failed.Error != "mailbox full" {
		t.Errorf("MarkFailed = %+v, %v", failed, err)
	}

	due, _ = svc.Due(ctx, start.Add(2*time.Hour))
	if len(due) != 0 {
		t.Errorf("sent/failed reminders still due: %+v", due)
	}
}

func TestListAndCancel(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, _ := svc.Schedule(ctx, "b@example.com", "second", start.Add(2*time.Hour))
	a, _ := svc.Schedule(ctx, "a@example.com", "first", start.Add(time.Hour))

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("List order wrong: %+v", list)
	}

	if err := svc.Cancel(ctx, a.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := svc.Cancel(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Cancel error = %v", err)
	}
	list, _ = svc.List(ctx)
	if len(list) != 1 {
		t.Errorf("got %d reminders after cancel", len(list))
	}
}
