package dto

import (
	"time"

	"github.com/spec-kit/access-request-service/internal/domain"
)

// SubmitTicketRequest payload.
type SubmitTicketRequest struct {
	Title       string   `json:"title" validate:"required,max=256"`
	OrgID       string   `json:"org_id"`
	AssigneeIDs []string `json:"assignee_ids" validate:"required,min=1,dive,required"`
	IPs         []string `json:"ips"`
	Hostname    string   `json:"hostname"`
	SystemUser  string   `json:"system_user"`
}

// ConfirmSelectionRequest pins reviewed assets and the account ahead of
// approval.
type ConfirmSelectionRequest struct {
	ConfirmedAssets     []string   `json:"confirmed_assets" validate:"required,min=1,dive,required"`
	ConfirmedSystemUser string     `json:"confirmed_system_user" validate:"required"`
	DateStart           *time.Time `json:"date_start"`
	DateExpired         *time.Time `json:"date_expired"`
}

// TicketMetaResponse mirrors domain.TicketMeta on the wire.
type TicketMetaResponse struct {
	IPs                 []string   `json:"ips,omitempty"`
	Hostname            string     `json:"hostname,omitempty"`
	SystemUser          string     `json:"system_user,omitempty"`
	ConfirmedAssets     []string   `json:"confirmed_assets,omitempty"`
	ConfirmedSystemUser string     `json:"confirmed_system_user,omitempty"`
	DateStart           *time.Time `json:"date_start,omitempty"`
	DateExpired         *time.Time `json:"date_expired,omitempty"`
}

// TicketResponse provides full ticket info.
type TicketResponse struct {
	ID               string              `json:"id"`
	SerialKey        string              `json:"serial_key"`
	Title            string              `json:"title"`
	OrgID            string              `json:"org_id"`
	RequesterID      string              `json:"requester_id"`
	UserDisplay      string              `json:"user_display"`
	AssigneeIDs      []string            `json:"assignee_ids"`
	AssigneesDisplay string              `json:"assignees_display"`
	Status           domain.TicketStatus `json:"status"`
	Action           domain.TicketAction `json:"action"`
	ActionByID       *string             `json:"action_by,omitempty"`
	Comment          string              `json:"comment,omitempty"`
	Meta             TicketMetaResponse  `json:"meta"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	ClosedAt         *time.Time          `json:"closed_at,omitempty"`
}

// GrantResponse describes a materialized permission.
type GrantResponse struct {
	ID          string    `json:"id"`
	TicketID    string    `json:"ticket_id"`
	Name        string    `json:"name"`
	Comment     string    `json:"comment"`
	CreatedBy   string    `json:"created_by"`
	IsActive    bool      `json:"is_active"`
	DateStart   time.Time `json:"date_start"`
	DateExpired time.Time `json:"date_expired"`
	AssetIDs    []string  `json:"asset_ids"`
	AccountIDs  []string  `json:"account_ids"`
	UserIDs     []string  `json:"user_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// AssigneeResponse is an eligible reviewer.
type AssigneeResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  domain.UserRole `json:"role"`
}
