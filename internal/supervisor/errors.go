package supervisor

import (
	"errors"
	"net/http"

	"github.com/opsfield/intake/internal/assets"
)

// Domain errors for supervisor operations.
var (
	ErrNotFound   = errors.New("asset not found")
	ErrValidation = errors.New("invalid override")
)

// MapHTTPStatus maps supervisor domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, assets.ErrValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
