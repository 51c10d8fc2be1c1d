// Package authdomain holds the authentication domain model.
package authdomain

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role for authorization purposes.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleJudge          Role = "judge"
	RoleRepresentative Role = "representative"
	RoleAthlete        Role = "athlete"
)

// IsValid checks if the role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleJudge, RoleRepresentative, RoleAthlete:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Claims represents the domain model for authentication claims.
type Claims struct {
	UserID    uuid.UUID
	Name      string
	Role      Role
	BranchID  *uuid.UUID
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// Can reports whether the role grants the requested role's privileges.
// Admin outranks everything; other roles only match themselves.
func (c *Claims) Can(required Role) bool {
	if c.Role == RoleAdmin {
		return true
	}
	return c.Role == required
}
