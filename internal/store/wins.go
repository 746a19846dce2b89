package store

import (
	"context"
	"fmt"

	"github.com/shameless/shameless/internal/celebrate"
	"github.com/shameless/shameless/internal/wins"
)

var _ wins.Store = (*Store)(nil)

// CreateWin inserts w.
func (s *Store) CreateWin(ctx context.Context, w wins.Win) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO wins (id, owner, text, category, created_at) VALUES (?, ?, ?, ?, ?)
`, w.ID, w.Owner, w.Text, string(w.Category), toMillis(w.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert win: %w", err)
	}
	return nil
}

// ListWins returns owner's wins, newest first.
func (s *Store) ListWins(ctx context.Context, owner string) ([]wins.Win, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, owner, text, category, created_at
FROM wins
WHERE owner = ?
ORDER BY created_at DESC, id DESC
`, owner)
	if err != nil {
		return nil, fmt.Errorf("list wins: %w", err)
	}
	defer rows.Close()

	var out []wins.Win
	for rows.Next() {
		var (
			w         wins.Win
			category  string
			createdAt int64
		)
		if err := rows.Scan(&w.ID, &w.Owner, &w.Text, &category, &createdAt); err != nil {
			return nil, fmt.Errorf("scan win: %w", err)
		}
		w.Category = celebrate.Category(category)
		w.CreatedAt = fromMillis(createdAt)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wins: %w", err)
	}
	return out, nil
}

// DeleteWin removes the win with id.
func (s *Store) DeleteWin(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM wins WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete win: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return wins.ErrNotFound
	}
	return nil
}
