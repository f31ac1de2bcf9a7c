// Package auth implements the authentication and authorization boundary.
// It verifies bearer tokens issued by the identity provider and exposes
// the authenticated principal to downstream handlers. Token issuance is
// out of scope; this service only verifies.
package auth

import (
	"fmt"

	"github.com/google/uuid"
)

// Role identifies a principal's permission level.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleQC         Role = "qc_user"
	RoleUpload     Role = "upload_user"
)

// Roles lists all valid roles.
func Roles() []Role {
	return []Role{RoleAdmin, RoleSupervisor, RoleQC, RoleUpload}
}

// ParseRole validates and converts a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleSupervisor, RoleQC, RoleUpload:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
}

// Is reports whether the principal holds any of the given roles.
func (p *Principal) Is(roles ...Role) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}
