package domain

import "time"

// TicketStatus enumerates lifecycle states for access-request tickets.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "OPEN"
	TicketStatusClosed TicketStatus = "CLOSED"
)

// TicketAction records the single review decision taken on a ticket.
type TicketAction string

const (
	TicketActionNone     TicketAction = "NONE"
	TicketActionApproved TicketAction = "APPROVED"
	TicketActionRejected TicketAction = "REJECTED"
)

// TicketMeta carries the request-time context of an access request. The
// confirmed fields are pinned by an assignee before approval and re-validated
// against the live catalog at approval time.
type TicketMeta struct {
	IPs                 []string   `json:"ips,omitempty"`
	Hostname            string     `json:"hostname,omitempty"`
	SystemUser          string     `json:"system_user,omitempty"`
	ConfirmedAssets     []string   `json:"confirmed_assets,omitempty"`
	ConfirmedSystemUser string     `json:"confirmed_system_user,omitempty"`
	DateStart           *time.Time `json:"date_start,omitempty"`
	DateExpired         *time.Time `json:"date_expired,omitempty"`
}

// Ticket is the aggregate for asset access requests.
type Ticket struct {
	ID               string
	SerialKey        string
	Title            string
	OrgID            string
	RequesterID      string
	UserDisplay      string
	AssigneeIDs      []string
	AssigneesDisplay string
	Status           TicketStatus
	Action           TicketAction
	ActionByID       *string
	Comment          string
	Meta             TicketMeta
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ClosedAt         *time.Time
}

// IsAssignee reports whether the given user id is in the ticket's assignee set.
func (t *Ticket) IsAssignee(userID string) bool {
	for _, id := range t.AssigneeIDs {
		if id == userID {
			return true
		}
	}
	return false
}
