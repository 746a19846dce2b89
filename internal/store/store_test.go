package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/shameless/shameless/internal/cache"
	"github.com/shameless/shameless/internal/celebrate"
	"github.com/shameless/shameless/internal/kv"
	"github.com/shameless/shameless/internal/onboarding"
	"github.com/shameless/shameless/internal/reminders"
	"github.com/shameless/shameless/internal/wins"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data", DefaultFileName)
	s, err := Open(path, WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	s, path := openTestStore(t)
	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, s.Close())

	reopened, err := Open(path, WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	_, path := openTestStore(t)

	_, err := Open(path, WithLogger(log.New(io.Discard)), WithLatestVersion(0))
	require.ErrorIs(t, err, ErrMigrationDowngrade)
}

func TestKVRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(kv.KeyLanguage, "es"))
	require.NoError(t, s.Set(kv.KeyLanguage, "fr"))

	v, ok, err := s.Get(kv.KeyLanguage)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "fr", v, "last write wins")

	require.NoError(t, s.Delete(kv.KeyLanguage))
	require.NoError(t, s.Delete(kv.KeyLanguage), "deleting a missing key is not an error")

	_, ok, err = s.Get(kv.KeyLanguage)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKVRejectsEmptyKey(t *testing.T) {
	s, _ := openTestStore(t)

	_, _, err := s.Get("")
	require.ErrorIs(t, err, kv.ErrEmptyKey)
	require.ErrorIs(t, s.Set("", "v"), kv.ErrEmptyKey)
	require.ErrorIs(t, s.Delete(""), kv.ErrEmptyKey)
}

func TestKeys(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.Set("b", "2"))
	require.NoError(t, s.Set("a", "1"))

	keys, err := s.Keys(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, keys)
}

func TestCachePersistsThroughSQLite(t *testing.T) {
	s, path := openTestStore(t)
	logger := log.New(io.Discard)

	c := cache.New[string]("test", time.Hour, s, cache.WithLogger(logger))
	c.Put("key", "value")
	require.NoError(t, s.Close())

	reopened, err := Open(path, WithLogger(logger))
	require.NoError(t, err)
	defer reopened.Close()

	c = cache.New[string]("test", time.Hour, reopened, cache.WithLogger(logger))
	v, ok := c.Get("key")
	require.True(t, ok)
	require.Equal(t, "value", v)
}

func TestOnboardingResumesFromSQLite(t *testing.T) {
	s, _ := openTestStore(t)
	logger := log.New(io.Discard)

	ctrl := onboarding.New(s, onboarding.WithLogger(logger))
	require.NoError(t, ctrl.SelectLanguage("es"))
	ctrl.Advance()

	resumed := onboarding.Resume(s, onboarding.WithLogger(logger))
	require.Equal(t, "es", resumed.Answers().Language)
	require.Equal(t, onboarding.StepSupport, resumed.Step())
}

func TestWins(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, text := range []string{"drank water", "said no", "called mom"} {
		require.NoError(t, s.CreateWin(ctx, wins.Win{
			ID:        string(rune('a' + i)),
			Owner:     "me",
			Text:      text,
			Category:  celebrate.CategorySelfCare,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, s.CreateWin(ctx, wins.Win{ID: "z", Owner: "other", Text: "x", CreatedAt: base}))

	got, err := s.ListWins(ctx, "me")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "called mom", got[0].Text, "newest first")
	require.Equal(t, celebrate.CategorySelfCare, got[0].Category)
	require.True(t, got[0].CreatedAt.Equal(base.Add(2*time.Minute)))

	require.NoError(t, s.DeleteWin(ctx, "a"))
	require.ErrorIs(t, s.DeleteWin(ctx, "a"), wins.ErrNotFound)

	got, err = s.ListWins(ctx, "me")
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestWinsServiceOverSQLite(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	svc := wins.NewService(s, wins.WithLogger(log.New(io.Discard)))

	w, cfg, err := svc.Add(ctx, "me", "went outside", celebrate.CategoryCourage)
	require.NoError(t, err)
	require.NotEmpty(t, w.ID)
	require.NotEmpty(t, cfg.MessageTemplate)

	_, _, err = svc.Add(ctx, "me", "   ", celebrate.CategoryCourage)
	require.ErrorIs(t, err, wins.ErrEmptyWin)

	list, err := svc.List(ctx, "me")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestReminders(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mk := func(id string, sendAt time.Time) reminders.Reminder {
		return reminders.Reminder{
			ID:        id,
			Recipient: "me@example.com",
			Content:   "breathe",
			SendAt:    sendAt,
			Status:    reminders.StatusScheduled,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	require.NoError(t, s.CreateReminder(ctx, mk("late", now.Add(time.Hour))))
	require.NoError(t, s.CreateReminder(ctx, mk("early", now.Add(-time.Hour))))
	require.NoError(t, s.CreateReminder(ctx, mk("exact", now)))

	all, err := s.ListReminders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "early", all[0].ID)

	due, err := s.DueReminders(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	require.Equal(t, "early", due[0].ID)
	require.Equal(t, "exact", due[1].ID)

	sent := due[0]
	sent.Status = reminders.StatusSent
	sent.UpdatedAt = now.Add(time.Second)
	require.NoError(t, s.UpdateReminder(ctx, sent))

	got, err := s.GetReminder(ctx, "early")
	require.NoError(t, err)
	require.Equal(t, reminders.StatusSent, got.Status)
	require.True(t, got.UpdatedAt.Equal(now.Add(time.Second)))

	due, err = s.DueReminders(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1, "sent reminders are no longer due")

	require.NoError(t, s.DeleteReminder(ctx, "late"))
	require.ErrorIs(t, s.DeleteReminder(ctx, "late"), reminders.ErrNotFound)
	_, err = s.GetReminder(ctx, "late")
	require.ErrorIs(t, err, reminders.ErrNotFound)
	require.ErrorIs(t, s.UpdateReminder(ctx, mk("late", now)), reminders.ErrNotFound)
}
