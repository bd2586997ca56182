package projections

import (
	"kfet/internal/domain/planner"
)

// StoreProvider yields a consistent copy of the planner state for read models.
// Projections never mutate; they work on the snapshot only.
type StoreProvider interface {
	Snapshot() *planner.Store
}
