package users_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/opsfield/intake/internal/auth"
	"github.com/opsfield/intake/internal/users"
)

func TestFiltersFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, f users.Filters)
	}{
		{
			name:  "empty",
			query: "",
			check: func(t *testing.T, f users.Filters) {
				if f.Role != nil || f.Username != nil || f.Email != nil || f.IsActive != nil {
					t.Errorf("expected zero filters, got %+v", f)
				}
			},
		},
		{
			name:  "all fields",
			query: "role=qc_user&username=jordan&email=example.com&is_active=true",
			check: func(t *testing.T, f users.Filters) {
				if f.Role == nil || *f.Role != "qc_user" {
					t.Errorf("role = %v, want qc_user", f.Role)
				}
				if f.Username == nil || *f.Username != "jordan" {
					t.Errorf("username = %v, want jordan", f.Username)
				}
				if f.Email == nil || *f.Email != "example.com" {
					t.Errorf("email = %v, want example.com", f.Email)
				}
				if f.IsActive == nil || !*f.IsActive {
					t.Errorf("is_active = %v, want true", f.IsActive)
				}
			},
		},
		{
			name:  "inactive",
			query: "is_active=false",
			check: func(t *testing.T, f users.Filters) {
				if f.IsActive == nil || *f.IsActive {
					t.Errorf("is_active = %v, want false", f.IsActive)
				}
			},
		},
		{
			name:  "malformed bool ignored",
			query: "is_active=maybe",
			check: func(t *testing.T, f users.Filters) {
				if f.IsActive != nil {
					t.Errorf("is_active = %v, want nil", f.IsActive)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			tt.check(t, users.FiltersFromQuery(values))
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", users.ErrNotFound, http.StatusNotFound},
		{"duplicate", users.ErrDuplicate, http.StatusConflict},
		{"validation", users.ErrValidation, http.StatusBadRequest},
		{"unknown role", auth.ErrUnknownRole, http.StatusBadRequest},
		{"self delete", users.ErrSelfDelete, http.StatusForbidden},
		{"unexpected", url.EscapeError("x"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := users.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
