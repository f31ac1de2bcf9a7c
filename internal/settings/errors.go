package settings

import (
	"errors"
	"net/http"
)

// Domain errors for settings operations.
var (
	ErrNotFound   = errors.New("setting not found")
	ErrValidation = errors.New("invalid setting")
)

// MapHTTPStatus maps settings domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
