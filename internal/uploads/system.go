package uploads

import (
	"context"

	"github.com/google/uuid"

	"github.com/opsfield/intake/internal/assets"
	"github.com/opsfield/intake/pkg/pagination"
)

// System defines the public contract for deliverable intake operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Create validates the submission, rejects duplicate files before any
	// blob write, stores the files, and registers the asset with its
	// upload rows in one transaction.
	Create(ctx context.Context, uploader uuid.UUID, cmd CreateCommand) (*assets.Asset, error)

	// ListOwn returns the uploader's own assets with their files.
	ListOwn(
		ctx context.Context,
		uploader uuid.UUID,
		page pagination.PageRequest,
	) (*pagination.PageResult[assets.Asset], error)

	// DownloadFile streams a stored file's content. The caller must close
	// the returned body.
	DownloadFile(ctx context.Context, fileID uuid.UUID) (*FileDownload, error)
}
