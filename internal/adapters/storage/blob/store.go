package blob

import (
	"context"
	"errors"
	"time"

	"kfet/internal/domain/planner"
)

// ErrNotFound signals that no planner blob has ever been saved (first run).
// The caller falls back to the default store.
var ErrNotFound = errors.New("no saved planner data")

// Info describes the persisted blob for the settings page.
type Info struct {
	SizeBytes int
	SavedAt   time.Time
}

// Store persists the whole planner store as a single blob, mirroring the
// original's localStorage contract: load once at startup, save after every
// completed mutation, clear on demand.
type Store interface {
	Load(ctx context.Context) (*planner.Store, error)
	Save(ctx context.Context, s *planner.Store) error
	Clear(ctx context.Context) error
	Info(ctx context.Context) (Info, error)
}
