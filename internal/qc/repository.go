package qc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/opsfield/intake/internal/assets"
	"github.com/opsfield/intake/pkg/pagination"
	"github.com/opsfield/intake/pkg/query"
	"github.com/opsfield/intake/pkg/repository"
)

var assignedSort = query.SortField{
	Field: "CreatedAt",
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a QC repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "qc"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) ListAssigned(
	ctx context.Context,
	reviewer uuid.UUID,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[assets.Asset], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(assets.Projection(), assignedSort).
		WhereEquals("AssignedTo", &reviewer)

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count assigned assets: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	list, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, assets.Scan)
	if err != nil {
		return nil, fmt.Errorf("query assigned assets: %w", err)
	}

	if err := assets.AttachFiles(ctx, r.db, list); err != nil {
		return nil, err
	}

	paged := pagination.NewPageResult(list, total, page.Page, page.PageSize)
	return &paged, nil
}

func (r *repo) FetchNext(ctx context.Context, reviewer uuid.UUID, batchID string) (*NextResult, error) {
	if strings.TrimSpace(batchID) == "" {
		return nil, ErrBatchRequired
	}

	// Single conditional update: the subquery locks the oldest claimable row
	// and skips rows locked by concurrent claims, so an asset is delivered to
	// exactly one reviewer session.
	claim := fmt.Sprintf(`
		UPDATE assets
		SET qc_status = 'in_progress', updated_at = now()
		WHERE id = (
			SELECT id FROM assets
			WHERE assigned_to = $1
			  AND batch_id = $2
			  AND (qc_status IS NULL OR qc_status = 'pending')
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING %s`, assets.Columns)

	claimed, err := repository.QueryOne(ctx, r.db, claim, []any{reviewer, batchID}, assets.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Batch exhausted: a normal terminal result.
			return &NextResult{Asset: nil, HasNext: false}, nil
		}
		return nil, fmt.Errorf("claim next asset: %w", err)
	}

	list := []assets.Asset{claimed}
	if err := assets.AttachFiles(ctx, r.db, list); err != nil {
		return nil, err
	}

	var hasNext bool
	if err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM assets
			WHERE assigned_to = $1
			  AND batch_id = $2
			  AND (qc_status IS NULL OR qc_status = 'pending')
		)`, reviewer, batchID,
	).Scan(&hasNext); err != nil {
		return nil, fmt.Errorf("check remaining assets: %w", err)
	}

	r.logger.Info("asset claimed", "asset", claimed.ID, "reviewer", reviewer, "batch", batchID)
	return &NextResult{Asset: &list[0], HasNext: hasNext}, nil
}

func (r *repo) SubmitReview(
	ctx context.Context,
	assetID, reviewer uuid.UUID,
	cmd ReviewCommand,
) (*assets.Asset, error) {
	action, err := assets.ParseReviewAction(cmd.Action)
	if err != nil {
		return nil, err
	}
	if cmd.Metadata != nil {
		if err := cmd.Metadata.Validate(); err != nil {
			return nil, err
		}
	}

	lock := fmt.Sprintf("SELECT %s FROM assets WHERE id = $1 FOR UPDATE", assets.Columns)

	update := fmt.Sprintf(`
		UPDATE assets
		SET qc_status = $2,
		    qc_notes = $3,
		    qc_completed_by = $4,
		    qc_completed_at = now(),
		    metadata = $5,
		    send_to_supervisor = $6,
		    supervisor_status = CASE WHEN $6 THEN 'pending' ELSE supervisor_status END,
		    updated_at = now()
		WHERE id = $1
		RETURNING %s`, assets.Columns)

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (assets.Asset, error) {
		current, err := repository.QueryOne(ctx, tx, lock, []any{assetID}, assets.Scan)
		if err != nil {
			return assets.Asset{}, repository.MapError(err, ErrNotFound, ErrValidation)
		}

		if current.AssignedTo == nil || *current.AssignedTo != reviewer {
			return assets.Asset{}, ErrNotAssigned
		}

		target := action.QCStatus()
		if !assets.CanTransition(current.QCStatus, target) {
			return assets.Asset{}, fmt.Errorf(
				"%w: %v -> %s", assets.ErrIllegalState, current.QCStatus, target,
			)
		}

		after := current.Metadata
		if cmd.Metadata != nil {
			after = *cmd.Metadata
		}

		if err := repository.ExecExpectOne(ctx, tx, `
			INSERT INTO qc_submissions(id, asset_id, reviewer_id, action, reject_reason, notes, metadata_before, metadata_after)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), assetID, reviewer, action, cmd.RejectReason, cmd.Notes,
			current.Metadata, after,
		); err != nil {
			return assets.Asset{}, err
		}

		result, err := repository.QueryOne(ctx, tx, update, []any{
			assetID, target, cmd.Notes, reviewer, after, cmd.SendToSupervisor,
		}, assets.Scan)
		if err != nil {
			return assets.Asset{}, err
		}

		if action == assets.ActionApproved && current.BatchID != nil {
			// Advisory: a missing assignment row must not fail the review.
			n, err := repository.Exec(ctx, tx, `
				UPDATE batch_assignments
				SET completed_assets = completed_assets + 1
				WHERE batch_id = $1 AND user_id = $2 AND active`,
				*current.BatchID, reviewer,
			)
			if err != nil {
				return assets.Asset{}, err
			}
			if n == 0 {
				r.logger.Warn(
					"no active assignment to credit",
					"asset", assetID,
					"batch", *current.BatchID,
					"reviewer", reviewer,
				)
			}
		}

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	list := []assets.Asset{updated}
	if err := assets.AttachFiles(ctx, r.db, list); err != nil {
		return nil, err
	}

	r.logger.Info(
		"review submitted",
		"asset", assetID,
		"reviewer", reviewer,
		"action", action,
		"escalated", cmd.SendToSupervisor,
	)
	return &list[0], nil
}

func (r *repo) Stats(ctx context.Context, reviewer uuid.UUID) (*Stats, error) {
	var s Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE qc_status = 'pending'),
			COUNT(*) FILTER (WHERE qc_status = 'in_progress'),
			COUNT(*) FILTER (WHERE qc_status = 'approved'),
			COUNT(*) FILTER (WHERE qc_status = 'rejected'),
			COUNT(*) FILTER (WHERE send_to_supervisor),
			COUNT(*)
		FROM assets
		WHERE assigned_to = $1`, reviewer,
	).Scan(&s.Pending, &s.InProgress, &s.Approved, &s.Rejected, &s.SentToSupervisor, &s.Total)
	if err != nil {
		return nil, fmt.Errorf("query reviewer stats: %w", err)
	}
	return &s, nil
}
