package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"kfet/internal/domain/audit"
	"kfet/internal/domain/planner"
)

// PlannerState is the controller interface mutations go through. Every
// Update persists the full store before returning (or reports ErrSaveFailed
// while keeping the mutation in memory).
type PlannerState interface {
	Update(ctx context.Context, fn func(*planner.Store) error) error
	Snapshot() *planner.Store
	ClearAll(ctx context.Context) error
}

// AuditStore records audit events. A nil store skips recording.
type AuditStore interface {
	Save(ctx context.Context, event audit.Event) error
}

// errNoop aborts an Update without persisting when a lookup missed; callers
// translate it to a silent no-op.
var errNoop = errors.New("no-op")

// recordAudit saves an audit event, best effort. Audit failures never fail
// the mutation that triggered them.
func recordAudit(ctx context.Context, store AuditStore, event audit.Event) {
	if store == nil {
		return
	}
	if err := store.Save(ctx, event); err != nil {
		slog.Warn("audit_record_failed", "action", string(event.Action), "error", err)
	}
}
