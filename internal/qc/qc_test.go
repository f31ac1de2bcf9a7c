package qc_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/opsfield/intake/internal/assets"
	"github.com/opsfield/intake/internal/qc"
)

func TestFiltersFromQuery(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantBatch  *string
		wantStatus *string
	}{
		{"empty", "", nil, nil},
		{"batch only", "batch_id=en-US_hotel", ptr("en-US_hotel"), nil},
		{"status only", "qc_status=pending", nil, ptr("pending")},
		{"both", "batch_id=en-US_hotel&qc_status=approved", ptr("en-US_hotel"), ptr("approved")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}

			f := qc.FiltersFromQuery(values)
			assertPtr(t, "BatchID", f.BatchID, tt.wantBatch)
			assertPtr(t, "QCStatus", f.QCStatus, tt.wantStatus)
		})
	}
}

func ptr(s string) *string { return &s }

func assertPtr(t *testing.T, field string, got, want *string) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Errorf("%s = %v, want %v", field, got, want)
		return
	}
	if got != nil && *got != *want {
		t.Errorf("%s = %q, want %q", field, *got, *want)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", qc.ErrNotFound, http.StatusNotFound},
		{"batch required", qc.ErrBatchRequired, http.StatusBadRequest},
		{"invalid review", qc.ErrValidation, http.StatusBadRequest},
		{"invalid metadata", assets.ErrValidation, http.StatusBadRequest},
		{"not assigned", qc.ErrNotAssigned, http.StatusForbidden},
		{"illegal transition", assets.ErrIllegalState, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := qc.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
