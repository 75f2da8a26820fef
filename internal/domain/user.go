package domain

import "time"

// UserRole enumerates global roles.
type UserRole string

const (
	UserRoleUser    UserRole = "USER"
	UserRoleAdmin   UserRole = "ADMIN"
	UserRoleAuditor UserRole = "AUDITOR"
)

// UserStatus represents lifecycle states for a user account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for people who request and review access.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrgRole enumerates unit-level roles within an organization.
type OrgRole string

const (
	OrgRoleMember  OrgRole = "MEMBER"
	OrgRoleAdmin   OrgRole = "ADMIN"
	OrgRoleAuditor OrgRole = "AUDITOR"
)

// OrgMembership links a user to an organization under a unit-level role.
type OrgMembership struct {
	OrgID     string
	UserID    string
	Role      OrgRole
	CreatedAt time.Time
}
