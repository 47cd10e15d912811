package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteStore opens (creating if necessary) a SQLite database at path and
// returns a Store persisting the session in a single-row table. The row is
// replaced in one statement, so token and role change together or not at all.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("session sqlite store: open: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS session (
                id INTEGER PRIMARY KEY CHECK (id = 1),
                token TEXT NOT NULL,
                role TEXT NOT NULL
        )`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("session sqlite store: ensure schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SQLiteStore implements Store backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Save replaces the session row.
func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO session (id, token, role) VALUES (1, ?, ?)`,
		rec.Token, rec.Role)
	if err != nil {
		return fmt.Errorf("session sqlite store: save: %w", err)
	}
	return nil
}

// Load reads the session row, reporting absence when none exists.
func (s *SQLiteStore) Load(ctx context.Context) (Record, bool, error) {
	var rec Record
	err := s.db.QueryRowContext(ctx,
		`SELECT token, role FROM session WHERE id = 1`).Scan(&rec.Token, &rec.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("session sqlite store: load: %w", err)
	}
	return rec, true, nil
}

// Clear deletes the session row.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("session sqlite store: clear: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
