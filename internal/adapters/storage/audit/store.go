package audit

import (
	"context"

	domain "kfet/internal/domain/audit"
)

// Store persists audit events.
type Store interface {
	Save(ctx context.Context, event domain.Event) error
	ListRecent(ctx context.Context, limit int) ([]domain.Event, error)
}
