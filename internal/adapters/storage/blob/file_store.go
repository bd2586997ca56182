package blob

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"kfet/internal/domain/planner"
)

const (
	tmpSuffix       = ".tmp"
	filePermissions = 0644
)

// FileStore persists the planner blob as a pretty-printed JSON file,
// written to a temp file first and renamed into place so a crash mid-write
// never corrupts the previous save.
type FileStore struct {
	path string
}

// NewFileStore creates a blob store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and decodes the saved planner store.
// POST: Returns ErrNotFound when the file does not exist
func (s *FileStore) Load(_ context.Context) (*planner.Store, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read planner file: %w", err)
	}

	var store planner.Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("parse planner file: %w", err)
	}
	return &store, nil
}

// Save serializes the full store and atomically replaces the file.
func (s *FileStore) Save(_ context.Context, store *planner.Store) error {
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("encode planner file: %w", err)
	}

	tmp := s.path + tmpSuffix
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return fmt.Errorf("write planner file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the persisted file. The caller resets in-memory state.
func (s *FileStore) Clear(_ context.Context) error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Info returns the file size and modification time for the settings page.
func (s *FileStore) Info(_ context.Context) (Info, error) {
	fi, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return Info{}, ErrNotFound
	}
	if err != nil {
		return Info{}, err
	}
	return Info{SizeBytes: int(fi.Size()), SavedAt: fi.ModTime()}, nil
}
