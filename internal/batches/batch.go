// Package batches implements the batch assignment manager: partitioning
// assets by (locale, booking category), distributing partitions to QC
// reviewers, and reporting per-batch progress.
package batches

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// ComputeBatchID derives the canonical batch identifier for a partition:
// locale and booking category joined by an underscore, with every
// whitespace run collapsed to a single underscore.
func ComputeBatchID(locale, bookingCategory string) string {
	return whitespaceRuns.ReplaceAllString(locale+"_"+bookingCategory, "_")
}

// Assignment binds a reviewer to a batch with progress counters.
type Assignment struct {
	ID              uuid.UUID `json:"id"`
	BatchID         string    `json:"batch_id"`
	Locale          string    `json:"locale"`
	BookingCategory string    `json:"booking_category"`
	UserID          uuid.UUID `json:"user_id"`
	AssignedAssets  int       `json:"assigned_assets"`
	CompletedAssets int       `json:"completed_assets"`
	Active          bool      `json:"active"`
	AssignedBy      uuid.UUID `json:"assigned_by"`
	AssignedAt      time.Time `json:"assigned_at"`
}

// AssignCommand requests assignment of partition assets to a reviewer.
// When AssetIDs is empty, unassigned partition assets are claimed
// automatically, oldest first, up to the configured batch size.
type AssignCommand struct {
	Locale          string      `json:"locale"`
	BookingCategory string      `json:"booking_category"`
	UserID          uuid.UUID   `json:"user_id"`
	AssetIDs        []uuid.UUID `json:"asset_ids,omitempty"`
}

// AssignResult reports the assignment row and how many assets were claimed.
type AssignResult struct {
	Assignment    Assignment `json:"assignment"`
	AssignedCount int        `json:"assigned_count"`
}

// RemoveCommand releases a reviewer from a partition.
type RemoveCommand struct {
	Locale          string    `json:"locale"`
	BookingCategory string    `json:"booking_category"`
	UserID          uuid.UUID `json:"user_id"`
}

// UnassignedUser is a QC reviewer with no active assignment in a partition.
type UnassignedUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// CategoryCount pairs a booking category with its asset count.
type CategoryCount struct {
	BookingCategory string `json:"booking_category"`
	Count           int    `json:"count"`
}

// AssignedUser summarizes one reviewer's share of a batch.
type AssignedUser struct {
	UserID          uuid.UUID `json:"user_id"`
	Username        string    `json:"username"`
	AssignedAssets  int       `json:"assigned_assets"`
	CompletedAssets int       `json:"completed_assets"`
}

// Stats is the live per-partition progress view, derived from the assets
// table at read time.
type Stats struct {
	BatchID            string         `json:"batch_id"`
	Locale             string         `json:"locale"`
	BookingCategory    string         `json:"booking_category"`
	Total              int            `json:"total"`
	Unassigned         int            `json:"unassigned"`
	Pending            int            `json:"pending"`
	InProgress         int            `json:"in_progress"`
	Approved           int            `json:"approved"`
	Rejected           int            `json:"rejected"`
	AssignedUsers      []AssignedUser `json:"assigned_users"`
	UnassignedAssetIDs []uuid.UUID    `json:"unassigned_asset_ids"`
}

// UserBatch is a reviewer's view of one of their active batches.
type UserBatch struct {
	BatchID         string `json:"batch_id"`
	Locale          string `json:"locale"`
	BookingCategory string `json:"booking_category"`
	AssignedAssets  int    `json:"assigned_assets"`
	CompletedAssets int    `json:"completed_assets"`
	Remaining       int    `json:"remaining"`
}

// Summary is the admin all-batches rollup for one partition.
type Summary struct {
	BatchID         string `json:"batch_id"`
	Locale          string `json:"locale"`
	BookingCategory string `json:"booking_category"`
	Total           int    `json:"total"`
	Unassigned      int    `json:"unassigned"`
	Pending         int    `json:"pending"`
	InProgress      int    `json:"in_progress"`
	Approved        int    `json:"approved"`
	Rejected        int    `json:"rejected"`
	Reviewers       int    `json:"reviewers"`
}
