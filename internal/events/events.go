package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Audit event types published by the service layer. Events are emitted only
// after the surrounding transaction has committed, so a received event always
// describes a durable state change.
const (
	TypeInstituteCreated  = "institute.created"
	TypeStudentRegistered = "student.registered"
	TypeAccountFunded     = "account.funded"
	TypeCourseAdded       = "course.added"
	TypeEnrollmentAsked   = "enrollment.requested"
	TypeEnrollmentDone    = "enrollment.completed"
	TypeGrantRequested    = "grant.requested"
	TypeGrantApproved     = "grant.approved"
	TypeBalanceWithdrawn  = "balance.withdrawn"
	TypeRoleAssigned      = "role.assigned"
	TypeRoleRevoked       = "role.revoked"
)

// AuditEvent records a completed state change in the registrar.
// Details hold event-specific data serialized as JSON.
type AuditEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants above
	Type string `json:"type"`

	// Details contains the event-specific data serialized as JSON
	Details json.RawMessage `json:"details"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// UnmarshalDetails decodes the event details into the provided structure.
func (e *AuditEvent) UnmarshalDetails(v interface{}) error {
	return json.Unmarshal(e.Details, v)
}

// NewAuditEvent creates a new AuditEvent with the specified type and details.
func NewAuditEvent(eventType string, details interface{}) (*AuditEvent, error) {
	detailBytes, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}

	return &AuditEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Details:    detailBytes,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// Handler defines an interface for components that can handle audit events.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *AuditEvent) error
}

// Emitter defines an interface for components that can emit audit events.
// This allows services to publish events without direct knowledge of handlers.
type Emitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *AuditEvent) error
}
