// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// SQLITE STORE
// =============================================================================

// SQLiteStore persists documents in a single SQLite database keyed by
// path. Safe for concurrent use; SQLite serializes the writes.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	path       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// DefaultDatabasePath returns the default store location,
// ~/.haven/haven.db.
func DefaultDatabasePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".haven", "haven.db"), nil
}

// OpenSQLite opens (creating if needed) a SQLite-backed store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &StoreError{Op: "open", Path: path, Message: "failed to create store directory", Cause: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Op: "open", Path: path, Message: "failed to open database", Cause: err}
	}

	// A single connection sidesteps SQLITE_BUSY between the UI's persist
	// command and the history load.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &StoreError{Op: "open", Path: path, Message: "failed to create schema", Cause: err}
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the raw JSON document at path.
func (s *SQLiteStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE path = ?`, path).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StoreError{Op: "get", Path: path, Message: "query failed", Cause: err}
	}
	return json.RawMessage(data), nil
}

// Set marshals value and overwrites the document at path.
func (s *SQLiteStore) Set(ctx context.Context, path string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &StoreError{Op: "set", Path: path, Message: "failed to marshal document", Cause: err}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (path, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		path, string(data), time.Now().UTC())
	if err != nil {
		return &StoreError{Op: "set", Path: path, Message: "write failed", Cause: err}
	}
	return nil
}

// ListChildren returns the immediate child names under path, sorted by
// the database's ordering of the full paths (ascending).
func (s *SQLiteStore) ListChildren(ctx context.Context, path string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM documents WHERE path LIKE ? ORDER BY path`, path+"/%")
	if err != nil {
		return nil, &StoreError{Op: "list", Path: path, Message: "query failed", Cause: err}
	}
	defer rows.Close()

	var children []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, &StoreError{Op: "list", Path: path, Message: "scan failed", Cause: err}
		}
		// LIKE matches grandchildren too; keep direct children only.
		if child := childOf(path, p); child != "" {
			children = append(children, child)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "list", Path: path, Message: "iteration failed", Cause: err}
	}
	return children, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
