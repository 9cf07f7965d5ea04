package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
	"go.uber.org/zap"
)

// Store reads the blog graph from a SQL database
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// New wraps an open database handle
func New(db *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Open connects to the database named by url and verifies the connection.
// Supported forms are sqlite3://<path>, sqlite3://:memory: and
// postgres://... (postgresql:// is accepted too).
func Open(ctx context.Context, url string, logger *zap.Logger) (*Store, error) {
	driver, dsn, err := driverFor(url)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	// Every connection to :memory: is a separate database
	if driver == "sqlite3" && strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s database: %w", driver, err)
	}

	return New(db, logger), nil
}

// driverFor maps a database url to a database/sql driver name and DSN
func driverFor(url string) (string, string, error) {
	switch {
	case strings.HasPrefix(url, "sqlite3://"):
		path := strings.TrimPrefix(url, "sqlite3://")
		if path == "" {
			path = ":memory:"
		}
		return "sqlite3", path, nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "pgx", url, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDatabase, url)
	}
}

// DB returns the underlying handle
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGINT PRIMARY KEY,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		published_at TIMESTAMP NULL,
		author_id BIGINT NULL REFERENCES authors(id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id BIGINT PRIMARY KEY,
		body TEXT NOT NULL,
		post_id BIGINT NOT NULL REFERENCES posts(id)
	)`,
}

// Migrate creates the blog tables if they do not exist
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", ConvertDBError(err))
		}
	}
	return nil
}

// withTransaction runs fn inside a transaction, rolling back on error
func (s *Store) withTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
