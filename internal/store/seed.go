package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type seedRow struct {
	query string
	args  []any
}

func seedRows() []seedRow {
	published := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	return []seedRow{
		{`INSERT INTO authors (id, name, email) VALUES ($1, $2, $3)`, []any{1, "Ada Lovelace", "ada@example.com"}},
		{`INSERT INTO authors (id, name, email) VALUES ($1, $2, $3)`, []any{2, "Alan Turing", "alan@example.com"}},
		{`INSERT INTO posts (id, title, body, published_at, author_id) VALUES ($1, $2, $3, $4, $5)`,
			[]any{1, "Notes on the Engine", "The engine weaves algebraic patterns.", published, 1}},
		{`INSERT INTO posts (id, title, body, published_at, author_id) VALUES ($1, $2, $3, $4, $5)`,
			[]any{2, "On Computable Numbers", "A number is computable if its digits can be written down by a machine.", published, 2}},
		{`INSERT INTO posts (id, title, body, published_at, author_id) VALUES ($1, $2, $3, $4, $5)`,
			[]any{3, "Untitled Draft", "", nil, nil}},
		{`INSERT INTO comments (id, body, post_id) VALUES ($1, $2, $3)`, []any{1, "Fascinating.", 1}},
		{`INSERT INTO comments (id, body, post_id) VALUES ($1, $2, $3)`, []any{2, "Where can I read more?", 1}},
		{`INSERT INTO comments (id, body, post_id) VALUES ($1, $2, $3)`, []any{3, "Halting problem next?", 2}},
	}
}

// Seed inserts the demo blog unless the authors table already has rows
func (s *Store) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM authors`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count authors: %w", ConvertDBError(err))
	}
	if count > 0 {
		s.logger.Debug("skipping seed", zap.Int("authors", count))
		return nil
	}

	rows := seedRows()
	err := s.withTransaction(ctx, func(tx *sql.Tx) error {
		for _, row := range rows {
			if _, err := tx.ExecContext(ctx, row.query, row.args...); err != nil {
				return fmt.Errorf("failed to seed: %w", ConvertDBError(err))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("seeded database", zap.Int("rows", len(rows)))
	return nil
}
