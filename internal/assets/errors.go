package assets

import (
	"errors"
	"net/http"
)

// Domain errors for asset operations.
var (
	ErrNotFound       = errors.New("asset not found")
	ErrDuplicate      = errors.New("asset already exists")
	ErrValidation     = errors.New("invalid asset")
	ErrIllegalState   = errors.New("illegal status transition")
	ErrTargetNotFound = errors.New("target user not found")
)

// MapHTTPStatus maps asset domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrTargetNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrIllegalState) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
