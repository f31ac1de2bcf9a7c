// Package settings manages platform-wide configuration stored as
// key/value rows, such as the automatic assignment toggle.
package settings

import (
	"strings"
	"time"
)

// Known setting keys.
const (
	KeyAutoAssign = "auto_assign"
)

// Setting is a single platform configuration entry.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateCommand carries a new value for a setting.
type UpdateCommand struct {
	Value string `json:"value"`
}

// AutoAssign reports the boolean interpretation of the auto_assign
// setting. Unset or unrecognized values default to disabled.
func AutoAssign(s *Setting) bool {
	if s == nil {
		return false
	}
	return strings.EqualFold(s.Value, "true")
}
