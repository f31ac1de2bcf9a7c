package users

import (
	"net/url"
	"strconv"

	"github.com/opsfield/intake/pkg/query"
	"github.com/opsfield/intake/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "users", "u").
	Project("id", "ID").
	Project("username", "Username").
	Project("email", "Email").
	Project("first_name", "FirstName").
	Project("last_name", "LastName").
	Project("role", "Role").
	Project("is_active", "IsActive").
	Project("last_login", "LastLogin").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field: "Username",
}

// Filters contains optional filtering criteria for user queries.
// Role and IsActive use exact matching; Username and Email use
// case-insensitive contains matching.
type Filters struct {
	Role     *string `json:"role,omitempty"`
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Role", f.Role).
		WhereContains("Username", f.Username).
		WhereContains("Email", f.Email).
		WhereEquals("IsActive", f.IsActive)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if role := values.Get("role"); role != "" {
		f.Role = &role
	}

	if username := values.Get("username"); username != "" {
		f.Username = &username
	}

	if email := values.Get("email"); email != "" {
		f.Email = &email
	}

	if active := values.Get("is_active"); active != "" {
		if v, err := strconv.ParseBool(active); err == nil {
			f.IsActive = &v
		}
	}

	return f
}

func scanUser(s repository.Scanner) (User, error) {
	var u User
	err := s.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.IsActive,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}
