// Package sqlite provides the durable, restart-surviving law store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"github.com/brlaws/leiscache/internal/law"
)

const schema = `
CREATE TABLE IF NOT EXISTS laws (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	law_type   TEXT NOT NULL UNIQUE,
	content    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store implements law.Store backed by a local SQLite database.
type Store struct {
	db    *sql.DB
	clock law.Clock
}

// New opens (or creates) the database at path and applies the schema.
// A nil clock falls back to time.Now.
func New(ctx context.Context, path string, clock law.Clock) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, clock: clock}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

// Upsert writes the content for lawType, replacing any previous record in
// place. The single statement keeps the write atomic with respect to
// concurrent readers.
func (s *Store) Upsert(ctx context.Context, lawType, content string) error {
	if lawType == "" {
		return fmt.Errorf("law type is required")
	}
	query := `
INSERT INTO laws (law_type, content, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(law_type) DO UPDATE SET
	content    = excluded.content,
	updated_at = excluded.updated_at
`
	if _, err := s.db.ExecContext(ctx, query, lawType, content, s.now()); err != nil {
		return fmt.Errorf("upsert law %q: %w", lawType, err)
	}
	return nil
}

// GetLatest returns the freshest record for lawType. Legacy databases may
// hold duplicate rows per type; ordering by updated_at (then id) makes the
// newest row win regardless.
func (s *Store) GetLatest(ctx context.Context, lawType string) (law.Record, error) {
	query := `
SELECT law_type, content, updated_at
FROM laws
WHERE law_type = ?
ORDER BY updated_at DESC, id DESC
LIMIT 1
`
	var record law.Record
	err := s.db.QueryRowContext(ctx, query, lawType).Scan(
		&record.LawType,
		&record.Content,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return law.Record{}, law.ErrNotFound
		}
		return law.Record{}, fmt.Errorf("get law %q: %w", lawType, err)
	}
	return record, nil
}

// ListLaws returns the known law types with their freshness timestamps,
// content omitted.
func (s *Store) ListLaws(ctx context.Context) ([]law.Record, error) {
	query := `
SELECT l.law_type, l.updated_at
FROM laws l
JOIN (
	SELECT law_type, MAX(updated_at) AS max_updated
	FROM laws
	GROUP BY law_type
) m ON l.law_type = m.law_type AND l.updated_at = m.max_updated
GROUP BY l.law_type
ORDER BY l.law_type
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list laws: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var out []law.Record
	for rows.Next() {
		var record law.Record
		if err := rows.Scan(&record.LawType, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan law row: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate law rows: %w", err)
	}
	return out, nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	return nil
}

func (s *Store) now() time.Time {
	if s.clock != nil {
		return s.clock.Now()
	}
	return time.Now().UTC()
}
