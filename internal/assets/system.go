package assets

import (
	"context"

	"github.com/google/uuid"

	"github.com/opsfield/intake/pkg/pagination"
)

// System defines the public contract for asset operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Asset], error)

	Find(ctx context.Context, id uuid.UUID) (*Asset, error)

	// ResetAndReassign clears QC progress on every asset the current user
	// holds in the partition and hands the assets to the new user. The
	// operation is final; cleared statuses and notes are not recoverable.
	ResetAndReassign(ctx context.Context, cmd ResetCommand, actor uuid.UUID) (int, error)
}
