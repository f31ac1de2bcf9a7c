package uploads

import (
	"bytes"
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/opsfield/intake/internal/assets"
	"github.com/opsfield/intake/pkg/pagination"
	"github.com/opsfield/intake/pkg/query"
	"github.com/opsfield/intake/pkg/repository"
	"github.com/opsfield/intake/pkg/storage"
)

var ownSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an upload repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "uploads"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) Create(ctx context.Context, uploader uuid.UUID, cmd CreateCommand) (*assets.Asset, error) {
	files, err := normalize(cmd)
	if err != nil {
		return nil, err
	}
	if err := cmd.Metadata.Validate(); err != nil {
		return nil, err
	}

	hashes := make([]string, len(files))
	seen := make(map[string]struct{}, len(files))
	for i, f := range files {
		sum := md5.Sum(f.Data)
		hashes[i] = hex.EncodeToString(sum[:])

		if _, dup := seen[hashes[i]]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFile, f.Filename)
		}
		seen[hashes[i]] = struct{}{}

		var exists bool
		if err := r.db.QueryRowContext(
			ctx,
			"SELECT EXISTS (SELECT 1 FROM uploads WHERE uploader_id = $1 AND content_hash = $2)",
			uploader, hashes[i],
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check duplicate upload: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFile, f.Filename)
		}
	}

	assetID := uuid.New()
	keys := make([]string, len(files))
	uploaded := make([]string, 0, len(files))

	cleanup := func() {
		for _, key := range uploaded {
			if delErr := r.storage.Delete(ctx, key); delErr != nil {
				r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
			}
		}
	}

	for i, f := range files {
		keys[i] = buildStorageKey(assetID, sanitizeFilename(f.Filename))
		if err := r.storage.Upload(ctx, keys[i], bytes.NewReader(f.Data), f.ContentType); err != nil {
			cleanup()
			return nil, fmt.Errorf("upload deliverable blob: %w", err)
		}
		uploaded = append(uploaded, keys[i])
	}

	insertAsset := fmt.Sprintf(`
		INSERT INTO assets(id, uploader_id, deliverable_type, locale, booking_category, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, assets.Columns)

	asset, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (assets.Asset, error) {
		assetArgs := []any{
			assetID,
			uploader,
			cmd.DeliverableType,
			cmd.Metadata.Locale,
			cmd.Metadata.BookingCategory,
			cmd.Metadata,
		}

		a, err := repository.QueryOne(ctx, tx, insertAsset, assetArgs, assets.Scan)
		if err != nil {
			return assets.Asset{}, err
		}

		for i, f := range files {
			if err := repository.ExecExpectOne(ctx, tx, `
				INSERT INTO uploads(id, asset_id, uploader_id, filename, file_type, content_type, size_bytes, page_count, storage_key, content_hash)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				uuid.New(), assetID, uploader, f.Filename, FileType(f.Filename),
				f.ContentType, int64(len(f.Data)), f.PageCount, keys[i], hashes[i],
			); err != nil {
				return assets.Asset{}, err
			}
		}

		return a, nil
	})
	if err != nil {
		cleanup()
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicateFile)
	}

	result := []assets.Asset{asset}
	if err := assets.AttachFiles(ctx, r.db, result); err != nil {
		return nil, err
	}

	r.logger.Info(
		"deliverable registered",
		"asset", asset.ID,
		"uploader", uploader,
		"type", asset.DeliverableType,
		"files", len(files),
	)
	return &result[0], nil
}

func (r *repo) ListOwn(
	ctx context.Context,
	uploader uuid.UUID,
	page pagination.PageRequest,
) (*pagination.PageResult[assets.Asset], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(assets.Projection(), ownSort).
		WhereEquals("UploaderID", &uploader)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count own uploads: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	list, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, assets.Scan)
	if err != nil {
		return nil, fmt.Errorf("query own uploads: %w", err)
	}

	if err := assets.AttachFiles(ctx, r.db, list); err != nil {
		return nil, err
	}

	paged := pagination.NewPageResult(list, total, page.Page, page.PageSize)
	return &paged, nil
}

func (r *repo) DownloadFile(ctx context.Context, fileID uuid.UUID) (*FileDownload, error) {
	var (
		filename    string
		contentType string
		sizeBytes   int64
		storageKey  string
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT filename, content_type, size_bytes, storage_key
		 FROM uploads WHERE id = $1`, fileID).
		Scan(&filename, &contentType, &sizeBytes, &storageKey)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrValidation)
	}

	body, err := r.storage.Download(ctx, storageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: blob missing for file %s", ErrNotFound, fileID)
		}
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}

	return &FileDownload{
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		Body:        body,
	}, nil
}

// normalize validates the file set against the deliverable type and
// materializes inline text submissions as a synthetic .txt file.
func normalize(cmd CreateCommand) ([]FileUpload, error) {
	if _, err := assets.ParseDeliverableType(string(cmd.DeliverableType)); err != nil {
		return nil, fmt.Errorf("%w: unknown deliverable type %q", ErrValidation, cmd.DeliverableType)
	}

	files := cmd.Files
	for _, f := range files {
		if len(f.Data) == 0 {
			return nil, fmt.Errorf("%w: empty file %s", ErrInvalidFile, f.Filename)
		}
		if FileType(f.Filename) == "" {
			return nil, fmt.Errorf("%w: unsupported extension %s", ErrInvalidFile, f.Filename)
		}
	}

	switch cmd.DeliverableType {
	case assets.TypeRawEmail:
		if len(files) != 1 || FileType(files[0].Filename) != "eml" {
			return nil, fmt.Errorf("%w: raw_email requires exactly one .eml file", ErrValidation)
		}

	case assets.TypeEmailAttachment:
		if len(files) != 2 {
			return nil, fmt.Errorf("%w: email_attachment requires one .eml and one .pdf file", ErrValidation)
		}
		types := map[string]bool{
			FileType(files[0].Filename): true,
			FileType(files[1].Filename): true,
		}
		if !types["eml"] || !types["pdf"] {
			return nil, fmt.Errorf("%w: email_attachment requires one .eml and one .pdf file", ErrValidation)
		}

	case assets.TypeTextMessage:
		if len(files) == 0 {
			if cmd.InlineText == "" {
				return nil, fmt.Errorf("%w: text_message requires a .txt file or inline text", ErrValidation)
			}
			files = []FileUpload{{
				Data:        []byte(cmd.InlineText),
				Filename:    "message.txt",
				ContentType: "text/plain",
			}}
		} else if len(files) != 1 || FileType(files[0].Filename) != "txt" {
			return nil, fmt.Errorf("%w: text_message requires exactly one .txt file", ErrValidation)
		}
	}

	return files, nil
}

func buildStorageKey(assetID uuid.UUID, filename string) string {
	return fmt.Sprintf("assets/%s/%s", assetID, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "deliverable"
	}
	return url.PathEscape(name)
}
