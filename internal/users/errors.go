package users

import (
	"errors"
	"net/http"

	"github.com/opsfield/intake/internal/auth"
)

// Domain errors for user operations.
var (
	ErrNotFound   = errors.New("user not found")
	ErrDuplicate  = errors.New("username already taken")
	ErrValidation = errors.New("invalid user")
	ErrSelfDelete = errors.New("cannot delete own account")
)

// MapHTTPStatus maps user domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, auth.ErrUnknownRole) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrSelfDelete) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
