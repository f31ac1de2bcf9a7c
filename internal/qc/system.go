package qc

import (
	"context"

	"github.com/google/uuid"

	"github.com/opsfield/intake/internal/assets"
	"github.com/opsfield/intake/pkg/pagination"
)

// System defines the public contract for reviewer QC operations.
type System interface {
	Handler() *Handler

	// ListAssigned returns the reviewer's assigned assets with files.
	ListAssigned(
		ctx context.Context,
		reviewer uuid.UUID,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[assets.Asset], error)

	// FetchNext atomically claims the oldest claimable asset in the batch
	// for the reviewer, moving it to in_progress. An in_progress asset is
	// never redelivered.
	FetchNext(ctx context.Context, reviewer uuid.UUID, batchID string) (*NextResult, error)

	// SubmitReview records the verdict, updates the asset, and credits the
	// reviewer's assignment counter in a single transaction.
	SubmitReview(
		ctx context.Context,
		assetID, reviewer uuid.UUID,
		cmd ReviewCommand,
	) (*assets.Asset, error)

	// Stats summarizes the reviewer's workload by status.
	Stats(ctx context.Context, reviewer uuid.UUID) (*Stats, error)
}
