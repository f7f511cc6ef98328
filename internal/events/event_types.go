package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketUpdated  EventType = "ticket_updated"
	EventTicketDeleted  EventType = "ticket_deleted"
	EventUserRegistered EventType = "user_registered"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Name     string `json:"name"`
	StatusID int64  `json:"status_id"`
	OwnerID  int64  `json:"owner_id"`
}

// TicketUpdatedPayload carries the before/after of a ticket edit.
type TicketUpdatedPayload struct {
	OldStatusID int64 `json:"old_status_id"`
	NewStatusID int64 `json:"new_status_id"`
	OldOwnerID  int64 `json:"old_owner_id"`
	NewOwnerID  int64 `json:"new_owner_id"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email  string      `json:"email"`
	RoleID domain.Role `json:"role_id"`
}
