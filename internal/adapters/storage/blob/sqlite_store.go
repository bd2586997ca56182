package blob

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"kfet/internal/adapters/storage"
	"kfet/internal/domain/planner"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore persists the planner blob in a single-row SQLite table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new blob store over the given database.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load reads and decodes the saved planner store.
// POST: Returns ErrNotFound on first run, a decode error on a corrupt blob
func (s *SQLiteStore) Load(ctx context.Context) (*planner.Store, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM planner_blob WHERE key = ?", planner.StorageKey).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read planner blob: %w", err)
	}

	var store planner.Store
	if err := json.Unmarshal([]byte(data), &store); err != nil {
		return nil, fmt.Errorf("parse planner blob: %w", err)
	}
	return &store, nil
}

// Save serializes the full store and upserts it under the fixed key.
// POST: The blob row holds the complete store and a fresh saved_at stamp
func (s *SQLiteStore) Save(ctx context.Context, store *planner.Store) error {
	data, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("encode planner blob: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO planner_blob (key, data, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data=excluded.data, saved_at=excluded.saved_at`,
		planner.StorageKey, string(data), time.Now().Format(dateLayout))
	if err != nil {
		return fmt.Errorf("write planner blob: %w", err)
	}
	return nil
}

// Clear removes the persisted blob. The caller resets in-memory state.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM planner_blob WHERE key = ?", planner.StorageKey)
	return err
}

// Info returns the blob size and last save time for the settings page.
func (s *SQLiteStore) Info(ctx context.Context) (Info, error) {
	var data, savedAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT data, saved_at FROM planner_blob WHERE key = ?", planner.StorageKey).
		Scan(&data, &savedAt)
	if err == sql.ErrNoRows {
		return Info{}, ErrNotFound
	}
	if err != nil {
		return Info{}, err
	}
	t, _ := time.Parse(dateLayout, savedAt)
	return Info{SizeBytes: len(data), SavedAt: t}, nil
}
