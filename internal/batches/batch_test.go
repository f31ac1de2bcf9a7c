package batches_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/opsfield/intake/internal/batches"
)

func TestComputeBatchID(t *testing.T) {
	tests := []struct {
		name            string
		locale          string
		bookingCategory string
		want            string
	}{
		{"simple", "en-US", "hotel", "en-US_hotel"},
		{"space in category", "en-US", "car rental", "en-US_car_rental"},
		{"space in locale", "en US", "hotel", "en_US_hotel"},
		{"whitespace run collapsed", "en-US", "car   rental", "en-US_car_rental"},
		{"tabs and newlines", "en-US", "car\t\nrental", "en-US_car_rental"},
		{"no whitespace untouched", "de-DE", "flight", "de-DE_flight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := batches.ComputeBatchID(tt.locale, tt.bookingCategory)
			if got != tt.want {
				t.Errorf("ComputeBatchID(%q, %q) = %q, want %q",
					tt.locale, tt.bookingCategory, got, tt.want)
			}
		})
	}
}

func TestComputeBatchIDDeterministic(t *testing.T) {
	first := batches.ComputeBatchID("en-US", "car rental")
	second := batches.ComputeBatchID("en-US", "car rental")
	if first != second {
		t.Errorf("ComputeBatchID not deterministic: %q vs %q", first, second)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"assignment not found", batches.ErrNotFound, http.StatusNotFound},
		{"user not found", batches.ErrUserNotFound, http.StatusNotFound},
		{"asset not found", batches.ErrAssetNotFound, http.StatusNotFound},
		{"already assigned", batches.ErrAlreadyAssigned, http.StatusConflict},
		{"invalid user", batches.ErrInvalidUser, http.StatusBadRequest},
		{"partition mismatch", batches.ErrPartitionMismatch, http.StatusBadRequest},
		{"validation", batches.ErrValidation, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := batches.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
