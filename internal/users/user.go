// Package users implements account management for the intake service.
// Accounts carry the role that gates every other surface; credentials and
// token issuance belong to the identity provider.
package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/opsfield/intake/internal/auth"
)

// User represents a service account.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      auth.Role  `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateCommand carries the data needed to register a new user.
type CreateCommand struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// UpdateCommand carries optional changes to an existing user.
// Nil fields are left unchanged.
type UpdateCommand struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// RoleCount is the account tally for one role.
type RoleCount struct {
	Role   auth.Role `json:"role"`
	Total  int       `json:"total"`
	Active int       `json:"active"`
}

// Stats summarizes accounts by role and activity.
type Stats struct {
	Total    int         `json:"total"`
	Active   int         `json:"active"`
	Inactive int         `json:"inactive"`
	ByRole   []RoleCount `json:"by_role"`
}
