package events

import (
	"time"

	"github.com/spec-kit/access-request-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketSubmitted EventType = "ticket_submitted"
	EventTicketApproved  EventType = "ticket_approved"
	EventTicketRejected  EventType = "ticket_rejected"
	EventTicketClosed    EventType = "ticket_closed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketSubmittedPayload payload.
type TicketSubmittedPayload struct {
	OrgID       string   `json:"org_id"`
	Title       string   `json:"title"`
	AssigneeIDs []string `json:"assignee_ids"`
}

// TicketApprovedPayload payload.
type TicketApprovedPayload struct {
	PermissionID string     `json:"permission_id"`
	AssetIDs     []string   `json:"asset_ids"`
	AccountID    string     `json:"account_id"`
	GranteeID    string     `json:"grantee_id"`
	DateExpired  *time.Time `json:"date_expired,omitempty"`
}

// TicketRejectedPayload payload.
type TicketRejectedPayload struct {
	Comment string `json:"comment"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	PriorAction domain.TicketAction `json:"prior_action"`
}
