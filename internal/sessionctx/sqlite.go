package sessionctx

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteStore keeps session bindings in a local SQLite database, so
// they survive process restarts without an external service.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) contexts.db under dataDir with WAL
// mode and runs the schema migration.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("sessionctx: create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "contexts.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sessionctx: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("sessionctx: pragma %q: %w", p, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS session_contexts (
			session_id TEXT PRIMARY KEY,
			component  TEXT NOT NULL,
			version    TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sessionctx: migration: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the session's binding, or nil if none is set.
func (s *SQLiteStore) Get(ctx context.Context, sessionID string) (*Context, error) {
	var binding Context
	err := s.db.QueryRowContext(ctx,
		`SELECT component, version FROM session_contexts WHERE session_id = ?`,
		sessionID,
	).Scan(&binding.Component, &binding.Version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sessionctx: lookup binding: %w", err)
	}
	return &binding, nil
}

// Set replaces the session's binding.
func (s *SQLiteStore) Set(ctx context.Context, sessionID string, binding Context) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_contexts (session_id, component, version, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(session_id) DO UPDATE SET
			component  = excluded.component,
			version    = excluded.version,
			updated_at = excluded.updated_at
	`, sessionID, binding.Component, binding.Version)
	if err != nil {
		return fmt.Errorf("sessionctx: save binding: %w", err)
	}
	return nil
}

// Delete removes the session's binding, if any.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM session_contexts WHERE session_id = ?`, sessionID,
	); err != nil {
		return fmt.Errorf("sessionctx: delete binding: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
