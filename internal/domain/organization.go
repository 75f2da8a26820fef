package domain

import "time"

// DefaultOrgID is the global scope: assignee resolution there returns only
// global administrators.
const DefaultOrgID = "DEFAULT"

// Organization represents an organizational unit scoping tickets and assets.
type Organization struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
