package supervisor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/opsfield/intake/internal/assets"
	"github.com/opsfield/intake/pkg/pagination"
	"github.com/opsfield/intake/pkg/query"
	"github.com/opsfield/intake/pkg/repository"
)

const submissionColumns = "id, asset_id, reviewer_id, action, reject_reason, notes, metadata_before, metadata_after, submitted_at"

// Escalations are adjudicated first-in-first-out by QC completion time.
var queueSort = query.SortField{
	Field: "QCCompletedAt",
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a supervisor repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "supervisor"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Queue(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[QueueItem], error) {
	page.Normalize(r.pagination)

	escalated := true
	qb := query.
		NewBuilder(assets.Projection(), queueSort).
		WhereEquals("SendToSupervisor", &escalated)

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count escalations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	list, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, assets.Scan)
	if err != nil {
		return nil, fmt.Errorf("query escalations: %w", err)
	}

	items, err := r.enrich(ctx, list)
	if err != nil {
		return nil, err
	}

	paged := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &paged, nil
}

func (r *repo) Next(ctx context.Context) (*QueueItem, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM assets
		WHERE send_to_supervisor AND supervisor_status = 'pending'
		ORDER BY qc_completed_at NULLS LAST
		LIMIT 1`, assets.Columns)

	a, err := repository.QueryOne(ctx, r.db, q, nil, assets.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Empty queue is a normal result.
			return nil, nil
		}
		return nil, fmt.Errorf("query next escalation: %w", err)
	}

	items, err := r.enrich(ctx, []assets.Asset{a})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (r *repo) Override(
	ctx context.Context,
	assetID, supervisorID uuid.UUID,
	cmd OverrideCommand,
) (*QueueItem, error) {
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
		    supervisor_status = $3,
		    supervisor_id = $4,
		    supervisor_notes = $5,
		    supervisor_reviewed_at = now(),
		    metadata = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING %s`, assets.Columns)

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (assets.Asset, error) {
		current, err := repository.QueryOne(ctx, tx, lock, []any{assetID}, assets.Scan)
		if err != nil {
			return assets.Asset{}, repository.MapError(err, ErrNotFound, ErrValidation)
		}

		metadata := current.Metadata
		if cmd.Metadata != nil {
			metadata = *cmd.Metadata
		}

		if err := repository.ExecExpectOne(ctx, tx, `
			INSERT INTO supervisor_reviews(id, asset_id, supervisor_id, action, notes)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), assetID, supervisorID, action, cmd.Notes,
		); err != nil {
			return assets.Asset{}, err
		}

		return repository.QueryOne(ctx, tx, update, []any{
			assetID, action.QCStatus(), action.SupervisorStatus(),
			supervisorID, cmd.Notes, metadata,
		}, assets.Scan)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"supervisor override",
		"asset", assetID,
		"supervisor", supervisorID,
		"action", action,
	)

	items, err := r.enrich(ctx, []assets.Asset{updated})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE supervisor_status = 'pending'),
			COUNT(*) FILTER (WHERE supervisor_status = 'approved'),
			COUNT(*) FILTER (WHERE supervisor_status = 'rejected'),
			COUNT(*)
		FROM assets
		WHERE send_to_supervisor`,
	).Scan(&s.PendingReview, &s.Approved, &s.Rejected, &s.Total)
	if err != nil {
		return nil, fmt.Errorf("query supervisor stats: %w", err)
	}
	return &s, nil
}

func (r *repo) Performance(ctx context.Context) ([]ReviewerPerformance, error) {
	return repository.QueryMany(ctx, r.db, `
		SELECT
			u.id,
			u.username,
			COALESCE(s.reviewed, 0),
			COALESCE(s.approved, 0),
			COALESCE(s.rejected, 0),
			COALESCE(a.escalated, 0),
			COALESCE(a.overridden, 0)
		FROM users u
		LEFT JOIN (
			SELECT reviewer_id,
			       COUNT(*) AS reviewed,
			       COUNT(*) FILTER (WHERE action = 'approved') AS approved,
			       COUNT(*) FILTER (WHERE action = 'rejected') AS rejected
			FROM qc_submissions
			GROUP BY reviewer_id
		) s ON s.reviewer_id = u.id
		LEFT JOIN (
			SELECT qc_completed_by,
			       COUNT(*) FILTER (WHERE send_to_supervisor) AS escalated,
			       COUNT(*) FILTER (WHERE supervisor_reviewed_at IS NOT NULL) AS overridden
			FROM assets
			WHERE qc_completed_by IS NOT NULL
			GROUP BY qc_completed_by
		) a ON a.qc_completed_by = u.id
		WHERE u.role = 'qc_user'
		ORDER BY u.username`,
		nil,
		func(s repository.Scanner) (ReviewerPerformance, error) {
			var p ReviewerPerformance
			err := s.Scan(
				&p.ReviewerID,
				&p.Username,
				&p.Reviewed,
				&p.Approved,
				&p.Rejected,
				&p.Escalated,
				&p.Overridden,
			)
			return p, err
		},
	)
}

// enrich attaches files, participant usernames, and the latest review
// submission to each asset.
func (r *repo) enrich(ctx context.Context, list []assets.Asset) ([]QueueItem, error) {
	if err := assets.AttachFiles(ctx, r.db, list); err != nil {
		return nil, err
	}

	items := make([]QueueItem, len(list))
	ids := make([]string, len(list))
	index := make(map[uuid.UUID]int, len(list))
	for i, a := range list {
		items[i] = QueueItem{Asset: a}
		ids[i] = a.ID.String()
		index[a.ID] = i
	}
	if len(list) == 0 {
		return items, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, uploader.username, reviewer.username
		FROM assets a
		JOIN users uploader ON uploader.id = a.uploader_id
		LEFT JOIN users reviewer ON reviewer.id = a.qc_completed_by
		WHERE a.id = ANY($1::uuid[])`, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("query escalation participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id       uuid.UUID
			uploader string
			reviewer *string
		)
		if err := rows.Scan(&id, &uploader, &reviewer); err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			items[i].UploaderUsername = uploader
			items[i].ReviewerUsername = reviewer
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	latest := fmt.Sprintf(`
		SELECT DISTINCT ON (asset_id) %s
		FROM qc_submissions
		WHERE asset_id = ANY($1::uuid[])
		ORDER BY asset_id, submitted_at DESC`, submissionColumns)

	submissions, err := repository.QueryMany(ctx, r.db, latest, []any{ids}, scanSubmission)
	if err != nil {
		return nil, fmt.Errorf("query latest submissions: %w", err)
	}

	for i := range submissions {
		if j, ok := index[submissions[i].AssetID]; ok {
			items[j].LastSubmission = &submissions[i]
		}
	}

	return items, nil
}
