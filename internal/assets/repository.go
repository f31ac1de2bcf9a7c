package assets

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/opsfield/intake/pkg/pagination"
	"github.com/opsfield/intake/pkg/query"
	"github.com/opsfield/intake/pkg/repository"
)

const fileColumns = "id, asset_id, filename, file_type, content_type, size_bytes, page_count, storage_key, content_hash, created_at"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an asset repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "assets"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Asset], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Locale", "BookingCategory", "BatchID")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count assets: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	result, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, Scan)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}

	if err := AttachFiles(ctx, r.db, result); err != nil {
		return nil, err
	}

	paged := pagination.NewPageResult(result, total, page.Page, page.PageSize)
	return &paged, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Asset, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, Scan)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	assets := []Asset{a}
	if err := AttachFiles(ctx, r.db, assets); err != nil {
		return nil, err
	}

	return &assets[0], nil
}

func (r *repo) ResetAndReassign(ctx context.Context, cmd ResetCommand, actor uuid.UUID) (int, error) {
	if strings.TrimSpace(cmd.Locale) == "" || strings.TrimSpace(cmd.BookingCategory) == "" {
		return 0, fmt.Errorf("%w: locale and booking_category required", ErrValidation)
	}
	if cmd.CurrentUserID == uuid.Nil || cmd.NewUserID == uuid.Nil {
		return 0, fmt.Errorf("%w: current and new user ids required", ErrValidation)
	}
	if cmd.CurrentUserID == cmd.NewUserID {
		return 0, fmt.Errorf("%w: new user must differ from current user", ErrValidation)
	}

	var exists bool
	if err := r.db.QueryRowContext(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND is_active)",
		cmd.NewUserID,
	).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check target user: %w", err)
	}
	if !exists {
		return 0, ErrTargetNotFound
	}

	count, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int, error) {
		rows, err := tx.QueryContext(ctx, `
			UPDATE assets
			SET qc_status = NULL,
			    qc_notes = NULL,
			    qc_completed_by = NULL,
			    qc_completed_at = NULL,
			    assigned_to = $1,
			    updated_at = now()
			WHERE assigned_to = $2 AND locale = $3 AND booking_category = $4
			RETURNING batch_id`,
			cmd.NewUserID, cmd.CurrentUserID, cmd.Locale, cmd.BookingCategory,
		)
		if err != nil {
			return 0, fmt.Errorf("reset assets: %w", err)
		}
		defer rows.Close()

		var moved int
		var batchID *string
		for rows.Next() {
			var b *string
			if err := rows.Scan(&b); err != nil {
				return 0, err
			}
			if b != nil {
				batchID = b
			}
			moved++
		}
		if err := rows.Err(); err != nil {
			return 0, err
		}

		if moved == 0 {
			return 0, nil
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE batch_assignments
			SET active = false
			WHERE user_id = $1 AND locale = $2 AND booking_category = $3 AND active`,
			cmd.CurrentUserID, cmd.Locale, cmd.BookingCategory,
		); err != nil {
			return 0, fmt.Errorf("deactivate assignment: %w", err)
		}

		if batchID != nil {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO batch_assignments(id, batch_id, locale, booking_category, user_id, assigned_assets, completed_assets, active, assigned_by)
				VALUES ($1, $2, $3, $4, $5, $6, 0, true, $7)
				ON CONFLICT (batch_id, user_id) DO UPDATE
				SET active = true,
				    assigned_assets = batch_assignments.assigned_assets + EXCLUDED.assigned_assets`,
				uuid.New(), *batchID, cmd.Locale, cmd.BookingCategory, cmd.NewUserID, moved, actor,
			); err != nil {
				return 0, fmt.Errorf("retarget assignment: %w", err)
			}
		}

		return moved, nil
	})
	if err != nil {
		return 0, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"assets reset and reassigned",
		"from", cmd.CurrentUserID,
		"to", cmd.NewUserID,
		"locale", cmd.Locale,
		"booking_category", cmd.BookingCategory,
		"count", count,
	)
	return count, nil
}

// AttachFiles loads the files for each asset in a single query and attaches
// them in place. Exported for sibling domains that assemble asset views.
func AttachFiles(ctx context.Context, q repository.Querier, list []Asset) error {
	if len(list) == 0 {
		return nil
	}

	ids := make([]string, len(list))
	index := make(map[uuid.UUID]int, len(list))
	for i, a := range list {
		ids[i] = a.ID.String()
		index[a.ID] = i
	}

	sqlq := fmt.Sprintf(`
		SELECT %s
		FROM uploads
		WHERE asset_id = ANY($1::uuid[])
		ORDER BY created_at`, fileColumns)

	files, err := repository.QueryMany(ctx, q, sqlq, []any{ids}, scanFile)
	if err != nil {
		return fmt.Errorf("query asset files: %w", err)
	}

	for _, f := range files {
		if i, ok := index[f.AssetID]; ok {
			list[i].Files = append(list[i].Files, f)
		}
	}
	return nil
}
