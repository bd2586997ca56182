package projections

import (
	"context"

	"kfet/internal/domain/audit"
)

// AuditStore defines the audit store interface needed by the audit log
// projection.
type AuditStore interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

// GetAuditLogQuery carries input for the audit log projection.
type GetAuditLogQuery struct {
	Limit int // <= 0 falls back to the default
}

// GetAuditLogResult carries the output of the audit log projection.
type GetAuditLogResult struct {
	Events []audit.Event // newest first
}

// GetAuditLogDeps holds dependencies for the audit log projection.
type GetAuditLogDeps struct {
	AuditStore AuditStore
}

const defaultAuditLimit = 100

// QueryGetAuditLog returns the most recent audit events.
func QueryGetAuditLog(ctx context.Context, query GetAuditLogQuery, deps GetAuditLogDeps) (GetAuditLogResult, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	events, err := deps.AuditStore.ListRecent(ctx, limit)
	if err != nil {
		return GetAuditLogResult{}, err
	}
	return GetAuditLogResult{Events: events}, nil
}
