package domain

import "time"

// User represents a system user. Users are seeded by migration; there is no
// user management surface.
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Active         bool
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin has full access, including creating balance verifications
	RoleAdmin Role = "admin"

	// RoleOperator can record sales, payments and spendings
	RoleOperator Role = "operator"

	// RoleViewer can only view resources, no mutations
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleOperator: true,
	RoleViewer:   true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanMutate reports whether the role may record sales, payments or spendings.
func (r Role) CanMutate() bool {
	return r == RoleAdmin || r == RoleOperator
}
