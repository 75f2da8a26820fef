package domain

import "time"

// Asset is a catalog entry access can be requested for.
type Asset struct {
	ID        string
	OrgID     string
	Hostname  string
	IP        string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account is the system user (target login identity) a grant runs under.
type Account struct {
	ID        string
	OrgID     string
	Name      string
	Username  string
	Protocol  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
