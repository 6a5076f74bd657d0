package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// LookupTitle returns the title tool produced for name, if cached.
func (s *Store) LookupTitle(ctx context.Context, tool, name string) (string, bool, error) {
	var title string
	err := s.db.QueryRowContext(ctx, "SELECT title FROM titles WHERE tool = ? AND name = ?", tool, name).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup title: %w", err)
	}
	return title, true, nil
}

// StoreTitle caches the title tool produced for name, replacing any previous
// value.
func (s *Store) StoreTitle(ctx context.Context, tool, name, title string) error {
	_, err := s.exec(ctx,
		`INSERT INTO titles (tool, name, title, updated_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(tool, name) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`,
		tool, name, title, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("store title: %w", err)
	}
	return nil
}

// CountTitles reports how many titles are cached.
func (s *Store) CountTitles(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM titles").Scan(&count); err != nil {
		return 0, fmt.Errorf("count titles: %w", err)
	}
	return count, nil
}

// ClearTitles drops every cached title and returns how many were removed.
func (s *Store) ClearTitles(ctx context.Context) (int64, error) {
	res, err := s.exec(ctx, "DELETE FROM titles")
	if err != nil {
		return 0, fmt.Errorf("clear titles: %w", err)
	}
	return res.RowsAffected()
}
