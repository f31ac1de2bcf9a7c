package auth

import (
	"errors"
	"net/http"
)

// Domain errors for authentication and authorization.
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("insufficient role")
	ErrUnknownRole  = errors.New("unknown role")
)

// MapHTTPStatus maps auth errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrMissingToken) || errors.Is(err, ErrInvalidToken) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrUnknownRole) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
