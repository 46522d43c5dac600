package audit

import (
	"time"

	"github.com/google/uuid"
)

// Category groups audit events by the area they touch.
type Category string

const (
	CategoryAuth       Category = "auth"
	CategoryTrainer    Category = "trainer"
	CategoryTraining   Category = "training"
	CategoryTournament Category = "tournament"
	CategoryBilling    Category = "billing"
	CategorySystem     Category = "system"
)

// Action is what happened.
type Action string

const (
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionImport      Action = "import"
	ActionExport      Action = "export"
	ActionResetPin    Action = "reset_pin"
	ActionMigratePins Action = "migrate_pins"
	ActionSetStatus   Action = "set_status"
)

// Severity ranks an event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is one audit log entry.
type Event struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Category     Category  `json:"category"`
	Action       Action    `json:"action"`
	Severity     Severity  `json:"severity"`
	ActorID      string    `json:"actor_id"`
	ActorRole    string    `json:"actor_role"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	Description  string    `json:"description"`
}

// NewEvent creates an info-level event stamped at now.
// PRE: actorID and action are non-empty
// POST: Returns an Event with a fresh UUID
func NewEvent(now time.Time, actorID, actorRole string, category Category, action Action) Event {
	return Event{
		ID:        uuid.NewString(),
		Timestamp: now,
		Category:  category,
		Action:    action,
		Severity:  SeverityInfo,
		ActorID:   actorID,
		ActorRole: actorRole,
	}
}

// WithSeverity sets the severity level.
func (e Event) WithSeverity(s Severity) Event {
	e.Severity = s
	return e
}

// WithResource sets the affected resource.
// PRE: resourceType is non-empty
// POST: Event resource fields are populated
func (e Event) WithResource(resourceType, resourceID string) Event {
	e.ResourceType = resourceType
	e.ResourceID = resourceID
	return e
}

// WithDescription sets a free-text description.
func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}
