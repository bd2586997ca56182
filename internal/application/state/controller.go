// Package state owns the in-memory planner store. The original application
// was single-threaded; behind an HTTP server the same guarantee is kept by
// serializing every read and mutation through one controller, so each
// mutation+persist pair is atomic and last-write-wins ordering is preserved.
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"kfet/internal/adapters/storage/blob"
	"kfet/internal/domain/planner"
)

// ErrSaveFailed wraps a persistence failure after a mutation was applied.
// The mutation stays in memory; only durability is lost for that write.
var ErrSaveFailed = errors.New("planner data could not be saved")

// Controller holds the authoritative planner store and its blob persistence.
type Controller struct {
	mu    sync.Mutex
	store *planner.Store
	blob  blob.Store
}

// NewController creates a controller over the given blob store. The in-memory
// store starts as the default until Load is called.
func NewController(b blob.Store) *Controller {
	return &Controller{store: planner.DefaultStore(), blob: b}
}

// Load initializes the in-memory store from persistence. A missing blob
// (first run) or a corrupt one both fall back to the default store; only the
// corrupt case is logged as a warning. A blob that parses is always kept:
// recoverable slips (an import can leave the current user off the roster)
// are repaired in place, never discarded.
func (c *Controller) Load(ctx context.Context) {
	loaded, err := c.blob.Load(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case err == nil:
		loaded.Normalize()
		c.store = loaded
	case errors.Is(err, blob.ErrNotFound):
		c.store = planner.DefaultStore()
		slog.Info("planner_event", "event", "first_run_defaults")
	default:
		c.store = planner.DefaultStore()
		slog.Warn("planner_event", "event", "load_failed_using_defaults", "error", err)
	}
}

// Update applies a mutation and immediately persists the full store.
// POST: fn's error aborts without persisting; a persist failure returns
// ErrSaveFailed while the mutation stays applied in memory
func (c *Controller) Update(ctx context.Context, fn func(*planner.Store) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := fn(c.store); err != nil {
		return err
	}
	if err := c.blob.Save(ctx, c.store); err != nil {
		slog.Error("planner_event", "event", "save_failed", "error", err)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

// View runs a read-only function under the lock.
func (c *Controller) View(fn func(*planner.Store)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.store)
}

// Snapshot returns a deep copy of the store for lock-free reads.
func (c *Controller) Snapshot() *planner.Store {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Clone()
}

// ClearAll removes the persisted blob and resets the in-memory store to the
// defaults.
func (c *Controller) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.blob.Clear(ctx); err != nil {
		return err
	}
	c.store = planner.DefaultStore()
	return nil
}

// Info reports the persisted blob's size and last save time.
func (c *Controller) Info(ctx context.Context) (blob.Info, error) {
	return c.blob.Info(ctx)
}
