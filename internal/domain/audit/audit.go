package audit

import (
	"time"

	"github.com/google/uuid"
)

// Category represents the kind of resource an audit event touched.
type Category string

const (
	CategoryRoster   Category = "roster"
	CategorySlot     Category = "slot"
	CategoryWeek     Category = "week"
	CategorySettings Category = "settings"
	CategoryBackup   Category = "backup"
	CategorySecurity Category = "security"
)

// Action represents what happened.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionReset  Action = "reset"
	ActionImport Action = "import"
	ActionExport Action = "export"
	ActionLogin  Action = "login"
	ActionLogout Action = "logout"
)

// Event is a single audit log entry. One is recorded for every completed
// mutation so the week data has a traceable change history.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Category    Category  `json:"category"`
	Action      Action    `json:"action"`
	ResourceID  string    `json:"resource_id"` // week key, slot key, or member name
	Description string    `json:"description"`
}

// NewEvent creates an audit event stamped with the current time.
// PRE: category and action are non-empty
// POST: Returns an Event with a fresh UUID
func NewEvent(category Category, action Action, resourceID, description string) Event {
	return Event{
		ID:          uuid.New().String(),
		Timestamp:   time.Now(),
		Category:    category,
		Action:      action,
		ResourceID:  resourceID,
		Description: description,
	}
}
