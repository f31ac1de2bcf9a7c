package batches

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for batch assignment operations.
type System interface {
	Handler() *Handler

	// AssignUser claims partition assets for a reviewer and upserts the
	// assignment row in one transaction. Explicit asset ids must belong to
	// the partition and be unassigned; violations reject the whole request.
	AssignUser(ctx context.Context, actor uuid.UUID, cmd AssignCommand) (*AssignResult, error)

	// RemoveUser releases the reviewer's unfinished partition assets and
	// deactivates the assignment. Removing an absent assignment succeeds.
	RemoveUser(ctx context.Context, cmd RemoveCommand) error

	// ListUnassignedUsers returns active QC reviewers with no active
	// assignment in the partition.
	ListUnassignedUsers(ctx context.Context, locale, bookingCategory string) ([]UnassignedUser, error)

	// Locales returns the distinct locales present in the asset pool.
	Locales(ctx context.Context) ([]string, error)

	// Categories returns booking categories for a locale with asset counts.
	Categories(ctx context.Context, locale string) ([]CategoryCount, error)

	// Stats returns the live progress view for one partition.
	Stats(ctx context.Context, locale, bookingCategory string) (*Stats, error)

	// UserBatches returns the reviewer's active batches with live progress.
	UserBatches(ctx context.Context, userID uuid.UUID) ([]UserBatch, error)

	// All returns the admin rollup of every partition.
	All(ctx context.Context) ([]Summary, error)
}
