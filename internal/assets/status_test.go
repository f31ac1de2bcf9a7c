package assets_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/opsfield/intake/internal/assets"
)

func status(s assets.QCStatus) *assets.QCStatus { return &s }

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from *assets.QCStatus
		to   assets.QCStatus
		want bool
	}{
		{"unassigned to pending", nil, assets.QCPending, true},
		{"unassigned to in_progress", nil, assets.QCInProgress, true},
		{"unassigned to approved", nil, assets.QCApproved, false},
		{"unassigned to rejected", nil, assets.QCRejected, false},
		{"pending to in_progress", status(assets.QCPending), assets.QCInProgress, true},
		{"pending to approved", status(assets.QCPending), assets.QCApproved, true},
		{"pending to rejected", status(assets.QCPending), assets.QCRejected, true},
		{"in_progress to approved", status(assets.QCInProgress), assets.QCApproved, true},
		{"in_progress to rejected", status(assets.QCInProgress), assets.QCRejected, true},
		{"in_progress to pending", status(assets.QCInProgress), assets.QCPending, false},
		{"approved is terminal", status(assets.QCApproved), assets.QCInProgress, false},
		{"approved stays approved", status(assets.QCApproved), assets.QCApproved, false},
		{"rejected is terminal", status(assets.QCRejected), assets.QCApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := assets.CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%v, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestQCStatusTerminal(t *testing.T) {
	tests := []struct {
		status assets.QCStatus
		want   bool
	}{
		{assets.QCPending, false},
		{assets.QCInProgress, false},
		{assets.QCApproved, true},
		{assets.QCRejected, true},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("%s.Terminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestParseQCStatus(t *testing.T) {
	for _, valid := range []string{"pending", "in_progress", "approved", "rejected"} {
		if _, err := assets.ParseQCStatus(valid); err != nil {
			t.Errorf("ParseQCStatus(%q) error: %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "unassigned", "Approved", "done"} {
		if _, err := assets.ParseQCStatus(invalid); !errors.Is(err, assets.ErrValidation) {
			t.Errorf("ParseQCStatus(%q) error = %v, want ErrValidation", invalid, err)
		}
	}
}

func TestParseReviewAction(t *testing.T) {
	for _, valid := range []string{"approved", "rejected"} {
		if _, err := assets.ParseReviewAction(valid); err != nil {
			t.Errorf("ParseReviewAction(%q) error: %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "pending", "approve"} {
		if _, err := assets.ParseReviewAction(invalid); !errors.Is(err, assets.ErrValidation) {
			t.Errorf("ParseReviewAction(%q) error = %v, want ErrValidation", invalid, err)
		}
	}
}

func TestReviewActionResolution(t *testing.T) {
	if got := assets.ActionApproved.QCStatus(); got != assets.QCApproved {
		t.Errorf("ActionApproved.QCStatus() = %s, want approved", got)
	}
	if got := assets.ActionRejected.QCStatus(); got != assets.QCRejected {
		t.Errorf("ActionRejected.QCStatus() = %s, want rejected", got)
	}
	if got := assets.ActionApproved.SupervisorStatus(); got != assets.SupervisorApproved {
		t.Errorf("ActionApproved.SupervisorStatus() = %s, want approved", got)
	}
	if got := assets.ActionRejected.SupervisorStatus(); got != assets.SupervisorRejected {
		t.Errorf("ActionRejected.SupervisorStatus() = %s, want rejected", got)
	}
}

func TestParseDeliverableType(t *testing.T) {
	for _, valid := range []string{"raw_email", "email_attachment", "text_message"} {
		if _, err := assets.ParseDeliverableType(valid); err != nil {
			t.Errorf("ParseDeliverableType(%q) error: %v", valid, err)
		}
	}

	if _, err := assets.ParseDeliverableType("spreadsheet"); !errors.Is(err, assets.ErrValidation) {
		t.Errorf("ParseDeliverableType(spreadsheet) error = %v, want ErrValidation", err)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", assets.ErrNotFound, http.StatusNotFound},
		{"target not found", assets.ErrTargetNotFound, http.StatusNotFound},
		{"duplicate", assets.ErrDuplicate, http.StatusConflict},
		{"validation", assets.ErrValidation, http.StatusBadRequest},
		{"illegal transition", assets.ErrIllegalState, http.StatusConflict},
		{"wrapped validation", errors.Join(assets.ErrValidation, errors.New("detail")), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := assets.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
