// Package supervisor implements the adjudication surface: the escalation
// queue of assets reviewers sent up, supervisor overrides of QC verdicts,
// and reviewer performance rollups.
package supervisor

import (
	"time"

	"github.com/google/uuid"

	"github.com/opsfield/intake/internal/assets"
)

// Submission is one audit row from a reviewer's verdict, with the metadata
// snapshots taken before and after the review.
type Submission struct {
	ID             uuid.UUID       `json:"id"`
	AssetID        uuid.UUID       `json:"asset_id"`
	ReviewerID     uuid.UUID       `json:"reviewer_id"`
	Action         string          `json:"action"`
	RejectReason   *string         `json:"reject_reason"`
	Notes          *string         `json:"notes"`
	MetadataBefore assets.Metadata `json:"metadata_before"`
	MetadataAfter  assets.Metadata `json:"metadata_after"`
	SubmittedAt    time.Time       `json:"submitted_at"`
}

// QueueItem is an escalated asset with its uploader, reviewer, and the
// latest review submission for adjudication context.
type QueueItem struct {
	assets.Asset
	UploaderUsername string      `json:"uploader_username"`
	ReviewerUsername *string     `json:"reviewer_username"`
	LastSubmission   *Submission `json:"last_submission"`
}

// OverrideCommand carries a supervisor's verdict. It overwrites the QC
// status regardless of the reviewer's verdict, and regardless of whether
// the asset was ever escalated.
type OverrideCommand struct {
	Action   string           `json:"action"`
	Notes    *string          `json:"notes,omitempty"`
	Metadata *assets.Metadata `json:"metadata,omitempty"`
}

// Stats summarizes the escalation queue.
type Stats struct {
	PendingReview int `json:"pending_review"`
	Approved      int `json:"approved"`
	Rejected      int `json:"rejected"`
	Total         int `json:"total"`
}

// ReviewerPerformance is the per-reviewer QC rollup.
type ReviewerPerformance struct {
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Username   string    `json:"username"`
	Reviewed   int       `json:"reviewed"`
	Approved   int       `json:"approved"`
	Rejected   int       `json:"rejected"`
	Escalated  int       `json:"escalated"`
	Overridden int       `json:"overridden"`
}
