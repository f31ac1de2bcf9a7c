package supervisor

import (
	"context"

	"github.com/google/uuid"

	"github.com/opsfield/intake/pkg/pagination"
)

// System defines the public contract for supervisor operations.
type System interface {
	Handler() *Handler

	// Queue returns escalated assets with adjudication context, optionally
	// filtered by supervisor status.
	Queue(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[QueueItem], error)

	// Next returns the longest-waiting escalation still pending review,
	// ordered by when QC completed. Nil when the queue is empty.
	Next(ctx context.Context) (*QueueItem, error)

	// Override records the supervisor's verdict and overwrites the QC
	// status in one transaction. Assets never escalated may be overridden.
	Override(
		ctx context.Context,
		assetID, supervisorID uuid.UUID,
		cmd OverrideCommand,
	) (*QueueItem, error)

	// Stats summarizes the escalation queue.
	Stats(ctx context.Context) (*Stats, error)

	// Performance returns the per-reviewer QC rollup.
	Performance(ctx context.Context) ([]ReviewerPerformance, error)
}
