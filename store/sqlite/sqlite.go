/*
Package sqlite provides a SQLite-backed implementation of engine.Store.

PURPOSE:
  Persists uploaded datasets and the configuration/state documents. The
  engine only needs key-value semantics, so the schema is two tables of
  JSON blobs. In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

REPLACE-WHOLESALE SEMANTICS:
  A dataset upload replaces the previous rows for its category in one
  upsert; there is no per-row merge. Documents are last-writer-wins:
  concurrent admin edits race and the last write persisted wins.

KEY TABLES:
  datasets:  One row per upload category, rows as a JSON array
  documents: Named JSON blobs (configuration, selector state)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: multiple readers don't block and crash recovery is
  cleaner.

USAGE:
  store, err := sqlite.New("./data/dashboard.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/storage.go: Interface definition
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/solarcalor/reporting-engine/engine"
)

// Store implements engine.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Uploaded datasets, one row per category, replaced wholesale
	CREATE TABLE IF NOT EXISTS datasets (
		category    TEXT PRIMARY KEY,
		rows_json   TEXT NOT NULL,
		uploaded_at TEXT NOT NULL
	);

	-- Named JSON documents (configuration, selector state)
	CREATE TABLE IF NOT EXISTS documents (
		name       TEXT PRIMARY KEY,
		body_json  TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DATASETS
// =============================================================================

// SaveDataset replaces all rows for a category.
func (s *Store) SaveDataset(ctx context.Context, category engine.Category, rows []engine.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rows == nil {
		rows = []engine.Record{}
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode dataset %s: %w", category, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO datasets (category, rows_json, uploaded_at)
		VALUES (?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			rows_json = excluded.rows_json,
			uploaded_at = excluded.uploaded_at
	`, string(category), string(body), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save dataset %s: %w", category, err)
	}
	return nil
}

// LoadDataset returns the current rows for a category, nil when nothing
// has been uploaded.
func (s *Store) LoadDataset(ctx context.Context, category engine.Category) ([]engine.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT rows_json FROM datasets WHERE category = ?`, string(category),
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", category, err)
	}

	var rows []engine.Record
	if err := json.Unmarshal([]byte(body), &rows); err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", category, err)
	}
	if rows == nil {
		rows = []engine.Record{}
	}
	return rows, nil
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// SaveDocument persists a named JSON blob, last-writer-wins.
func (s *Store) SaveDocument(ctx context.Context, name string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (name, body_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			body_json = excluded.body_json,
			updated_at = excluded.updated_at
	`, name, string(body), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", name, err)
	}
	return nil
}

// LoadDocument returns a named blob, nil when absent.
func (s *Store) LoadDocument(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body_json FROM documents WHERE name = ?`, name,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", name, err)
	}
	return []byte(body), nil
}
