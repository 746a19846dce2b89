package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shameless/shameless/internal/reminders"
)

var _ reminders.Store = (*Store)(nil)

const reminderColumns = `id, recipient, content, send_at, status, error, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminder(row rowScanner) (reminders.Reminder, error) {
	var (
		r                            reminders.Reminder
		status                       string
		sendAt, createdAt, updatedAt int64
	)
	if err := row.Scan(&r.ID, &r.Recipient, &r.Content, &sendAt, &status, &r.Error, &createdAt, &updatedAt); err != nil {
		return reminders.Reminder{}, err
	}
	r.Status = reminders.Status(status)
	r.SendAt = fromMillis(sendAt)
	r.CreatedAt = fromMillis(createdAt)
	r.UpdatedAt = fromMillis(updatedAt)
	return r, nil
}

// CreateReminder inserts r.
func (s *Store) CreateReminder(ctx context.Context, r reminders.Reminder) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO reminders (`+reminderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, r.ID, r.Recipient, r.Content, toMillis(r.SendAt), string(r.Status), r.Error,
		toMillis(r.CreatedAt), toMillis(r.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

// GetReminder returns the reminder with id.
func (s *Store) GetReminder(ctx context.Context, id string) (reminders.Reminder, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	r, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return reminders.Reminder{}, reminders.ErrNotFound
	}
	if err != nil {
		return reminders.Reminder{}, fmt.Errorf("get reminder: %w", err)
	}
	return r, nil
}

// ListReminders returns every reminder ordered by send time.
func (s *Store) ListReminders(ctx context.Context) ([]reminders.Reminder, error) {
	return s.queryReminders(ctx, `SELECT `+reminderColumns+` FROM reminders ORDER BY send_at, id`)
}

// DueReminders returns scheduled reminders whose send time is at or before now.
func (s *Store) DueReminders(ctx context.Context, now time.Time) ([]reminders.Reminder, error) {
	return s.queryReminders(ctx, `
SELECT `+reminderColumns+`
FROM reminders
WHERE status = ? AND send_at <= ?
ORDER BY send_at, id
`, string(reminders.StatusScheduled), toMillis(now))
}

// UpdateReminder replaces the stored reminder with r.
func (s *Store) UpdateReminder(ctx context.Context, r reminders.Reminder) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE reminders
SET recipient = ?, content = ?, send_at = ?, status = ?, error = ?, updated_at = ?
WHERE id = ?
`, r.Recipient, r.Content, toMillis(r.SendAt), string(r.Status), r.Error, toMillis(r.UpdatedAt), r.ID)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return reminders.ErrNotFound
	}
	return nil
}

// DeleteReminder removes the reminder with id.
func (s *Store) DeleteReminder(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return reminders.ErrNotFound
	}
	return nil
}

func (s *Store) queryReminders(ctx context.Context, query string, args ...any) ([]reminders.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var out []reminders.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}
	return out, nil
}
