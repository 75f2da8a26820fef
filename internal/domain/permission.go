package domain

import "time"

// AssetPermission is a time-bounded grant associating users with assets under
// a specific system account. Created exactly once, as a side effect of a
// ticket's approval; date bounds fall back to store defaults when the ticket
// meta omits them.
type AssetPermission struct {
	ID          string
	TicketID    string
	Name        string
	Comment     string
	CreatedBy   string
	IsActive    bool
	DateStart   time.Time
	DateExpired time.Time
	AssetIDs    []string
	AccountIDs  []string
	UserIDs     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
