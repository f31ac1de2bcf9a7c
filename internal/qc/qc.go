// Package qc implements the reviewer surface of the QC lifecycle: listing
// assigned work, atomically claiming the next asset, and submitting review
// verdicts with a full audit trail.
package qc

import (
	"github.com/opsfield/intake/internal/assets"
)

// ReviewCommand carries a reviewer's verdict on an asset. Metadata, when
// present, replaces the asset's metadata; the previous value is preserved
// in the audit row.
type ReviewCommand struct {
	Action           string           `json:"action"`
	RejectReason     *string          `json:"reject_reason,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
	Metadata         *assets.Metadata `json:"metadata,omitempty"`
	SendToSupervisor bool             `json:"send_to_supervisor"`
}

// NextResult is the outcome of a claim attempt. A nil Asset with HasNext
// false means the batch is exhausted; that is a normal result, not an error.
type NextResult struct {
	Asset   *assets.Asset `json:"asset"`
	HasNext bool          `json:"has_next"`
}

// Stats summarizes a reviewer's assigned workload by status.
type Stats struct {
	Pending          int `json:"pending"`
	InProgress       int `json:"in_progress"`
	Approved         int `json:"approved"`
	Rejected         int `json:"rejected"`
	SentToSupervisor int `json:"sent_to_supervisor"`
	Total            int `json:"total"`
}
