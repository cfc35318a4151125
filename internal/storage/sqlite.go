package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"quakewatch/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// checkpointKey namespaces the dedup slot apart from any future
// persisted settings in the same table.
const checkpointKey = "last_id"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// LastAlertID returns the persisted checkpoint, or "" when no alert
// has ever been issued.
func (s *SQLite) LastAlertID(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM checkpoints WHERE name = ?`, checkpointKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: read checkpoint: %v", ErrPersistence, err)
	}
	return value, nil
}

// SetLastAlertID overwrites the checkpoint. The upsert is a single
// statement, so concurrent readers see either the old or the new
// value, never a partial one.
func (s *SQLite) SetLastAlertID(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		checkpointKey, id, now,
	)
	if err != nil {
		return fmt.Errorf("%w: write checkpoint: %v", ErrPersistence, err)
	}
	return nil
}
