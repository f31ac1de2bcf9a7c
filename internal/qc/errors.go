package qc

import (
	"errors"
	"net/http"

	"github.com/opsfield/intake/internal/assets"
)

// Domain errors for QC operations.
var (
	ErrNotFound      = errors.New("asset not found")
	ErrBatchRequired = errors.New("batch_id required")
	ErrNotAssigned   = errors.New("asset not assigned to reviewer")
	ErrValidation    = errors.New("invalid review")
)

// MapHTTPStatus maps QC domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrBatchRequired) || errors.Is(err, ErrValidation) ||
		errors.Is(err, assets.ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotAssigned) {
		return http.StatusForbidden
	}
	if errors.Is(err, assets.ErrIllegalState) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
