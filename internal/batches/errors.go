package batches

import (
	"errors"
	"net/http"
)

// Domain errors for batch assignment operations.
var (
	ErrNotFound          = errors.New("assignment not found")
	ErrDuplicate         = errors.New("assignment already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidUser       = errors.New("user is not an active qc reviewer")
	ErrAssetNotFound     = errors.New("asset not found")
	ErrPartitionMismatch = errors.New("asset does not belong to partition")
	ErrAlreadyAssigned   = errors.New("asset already assigned")
	ErrValidation        = errors.New("invalid assignment request")
)

// MapHTTPStatus maps batch domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrAssetNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrAlreadyAssigned) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidUser) || errors.Is(err, ErrPartitionMismatch) ||
		errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
