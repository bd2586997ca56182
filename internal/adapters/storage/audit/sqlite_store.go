package audit

import (
	"context"
	"time"

	"kfet/internal/adapters/storage"
	domain "kfet/internal/domain/audit"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements the audit Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new audit event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists an audit event.
// PRE: event has an ID and timestamp
// POST: Event is persisted
func (s *SQLiteStore) Save(ctx context.Context, event domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_event (id, timestamp, category, action, resource_id, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.Timestamp.Format(dateLayout), string(event.Category),
		string(event.Action), event.ResourceID, event.Description)
	return err
}

// ListRecent returns the most recent audit events, newest first.
// PRE: limit > 0
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, category, action, resource_id, description
		 FROM audit_event ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var ts, category, action string
		if err := rows.Scan(&e.ID, &ts, &category, &action, &e.ResourceID, &e.Description); err != nil {
			return nil, err
		}
		e.Timestamp, _ = time.Parse(dateLayout, ts)
		e.Category = domain.Category(category)
		e.Action = domain.Action(action)
		events = append(events, e)
	}
	return events, rows.Err()
}
