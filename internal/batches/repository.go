package batches

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/opsfield/intake/pkg/pagination"
	"github.com/opsfield/intake/pkg/repository"
)

const assignmentColumns = "id, batch_id, locale, booking_category, user_id, assigned_assets, completed_assets, active, assigned_by, assigned_at"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	batchSize  int
}

// New creates a batch assignment repository implementing the System interface.
// batchSize caps how many assets an automatic assignment claims.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config, batchSize int) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "batches"),
		pagination: pagination,
		batchSize:  batchSize,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func scanAssignment(s repository.Scanner) (Assignment, error) {
	var a Assignment
	err := s.Scan(
		&a.ID,
		&a.BatchID,
		&a.Locale,
		&a.BookingCategory,
		&a.UserID,
		&a.AssignedAssets,
		&a.CompletedAssets,
		&a.Active,
		&a.AssignedBy,
		&a.AssignedAt,
	)
	return a, err
}

func (r *repo) AssignUser(ctx context.Context, actor uuid.UUID, cmd AssignCommand) (*AssignResult, error) {
	if strings.TrimSpace(cmd.Locale) == "" || strings.TrimSpace(cmd.BookingCategory) == "" {
		return nil, fmt.Errorf("%w: locale and booking_category required", ErrValidation)
	}
	if cmd.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user_id required", ErrValidation)
	}

	if err := r.checkReviewer(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	batchID := ComputeBatchID(cmd.Locale, cmd.BookingCategory)

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (AssignResult, error) {
		var claimed int
		var err error

		if len(cmd.AssetIDs) > 0 {
			claimed, err = r.claimExplicit(ctx, tx, batchID, cmd)
		} else {
			claimed, err = r.claimAutomatic(ctx, tx, batchID, cmd)
		}
		if err != nil {
			return AssignResult{}, err
		}

		upsert := fmt.Sprintf(`
			INSERT INTO batch_assignments(id, batch_id, locale, booking_category, user_id, assigned_assets, completed_assets, active, assigned_by)
			VALUES ($1, $2, $3, $4, $5, $6, 0, true, $7)
			ON CONFLICT (batch_id, user_id) DO UPDATE
			SET active = true,
			    assigned_assets = batch_assignments.assigned_assets + EXCLUDED.assigned_assets,
			    assigned_by = EXCLUDED.assigned_by,
			    assigned_at = now()
			RETURNING %s`, assignmentColumns)

		assignment, err := repository.QueryOne(ctx, tx, upsert, []any{
			uuid.New(), batchID, cmd.Locale, cmd.BookingCategory, cmd.UserID, claimed, actor,
		}, scanAssignment)
		if err != nil {
			return AssignResult{}, err
		}

		return AssignResult{Assignment: assignment, AssignedCount: claimed}, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"user assigned to batch",
		"batch", batchID,
		"user", cmd.UserID,
		"claimed", result.AssignedCount,
		"by", actor,
	)
	return &result, nil
}

// claimExplicit validates and claims the caller-named assets. Every id must
// exist, belong to the partition, and be unassigned; any violation rejects
// the whole request.
func (r *repo) claimExplicit(ctx context.Context, tx *sql.Tx, batchID string, cmd AssignCommand) (int, error) {
	ids := make([]string, len(cmd.AssetIDs))
	for i, id := range cmd.AssetIDs {
		ids[i] = id.String()
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, locale, booking_category, assigned_to
		FROM assets
		WHERE id = ANY($1::uuid[])
		FOR UPDATE`, ids,
	)
	if err != nil {
		return 0, fmt.Errorf("lock explicit assets: %w", err)
	}
	defer rows.Close()

	found := make(map[uuid.UUID]struct{}, len(cmd.AssetIDs))
	for rows.Next() {
		var (
			id               uuid.UUID
			locale, category string
			assignedTo       *uuid.UUID
		)
		if err := rows.Scan(&id, &locale, &category, &assignedTo); err != nil {
			return 0, err
		}

		if locale != cmd.Locale || category != cmd.BookingCategory {
			return 0, fmt.Errorf("%w: %s", ErrPartitionMismatch, id)
		}
		if assignedTo != nil {
			return 0, fmt.Errorf("%w: %s", ErrAlreadyAssigned, id)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range cmd.AssetIDs {
		if _, ok := found[id]; !ok {
			return 0, fmt.Errorf("%w: %s", ErrAssetNotFound, id)
		}
	}

	n, err := repository.Exec(ctx, tx, `
		UPDATE assets
		SET assigned_to = $1, batch_id = $2, qc_status = 'pending', updated_at = now()
		WHERE id = ANY($3::uuid[]) AND assigned_to IS NULL`,
		cmd.UserID, batchID, ids,
	)
	if err != nil {
		return 0, fmt.Errorf("claim explicit assets: %w", err)
	}
	if int(n) != len(cmd.AssetIDs) {
		// Locked rows cannot change underneath us; a shortfall means a
		// concurrent claim won before our lock.
		return 0, ErrAlreadyAssigned
	}

	return int(n), nil
}

// claimAutomatic claims up to batchSize unassigned partition assets, oldest
// first, skipping rows locked by concurrent assignments.
func (r *repo) claimAutomatic(ctx context.Context, tx *sql.Tx, batchID string, cmd AssignCommand) (int, error) {
	n, err := repository.Exec(ctx, tx, `
		UPDATE assets
		SET assigned_to = $1, batch_id = $2, qc_status = 'pending', updated_at = now()
		WHERE id IN (
			SELECT id FROM assets
			WHERE locale = $3 AND booking_category = $4 AND assigned_to IS NULL
			ORDER BY created_at
			LIMIT $5
			FOR UPDATE SKIP LOCKED
		)`,
		cmd.UserID, batchID, cmd.Locale, cmd.BookingCategory, r.batchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("claim partition assets: %w", err)
	}
	return int(n), nil
}

func (r *repo) RemoveUser(ctx context.Context, cmd RemoveCommand) error {
	if strings.TrimSpace(cmd.Locale) == "" || strings.TrimSpace(cmd.BookingCategory) == "" {
		return fmt.Errorf("%w: locale and booking_category required", ErrValidation)
	}
	if cmd.UserID == uuid.Nil {
		return fmt.Errorf("%w: user_id required", ErrValidation)
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		// Unfinished assets return to the unassigned pool; completed
		// verdicts keep their status and reviewer attribution.
		if _, err := repository.Exec(ctx, tx, `
			UPDATE assets
			SET assigned_to = NULL,
			    batch_id = NULL,
			    qc_status = CASE WHEN qc_status IN ('approved', 'rejected') THEN qc_status END,
			    updated_at = now()
			WHERE assigned_to = $1 AND locale = $2 AND booking_category = $3`,
			cmd.UserID, cmd.Locale, cmd.BookingCategory,
		); err != nil {
			return struct{}{}, fmt.Errorf("release assets: %w", err)
		}

		if _, err := repository.Exec(ctx, tx, `
			UPDATE batch_assignments
			SET active = false
			WHERE user_id = $1 AND locale = $2 AND booking_category = $3 AND active`,
			cmd.UserID, cmd.Locale, cmd.BookingCategory,
		); err != nil {
			return struct{}{}, fmt.Errorf("deactivate assignment: %w", err)
		}

		return struct{}{}, nil
	})
	if err != nil {
		return err
	}

	r.logger.Info(
		"user removed from batch",
		"user", cmd.UserID,
		"locale", cmd.Locale,
		"booking_category", cmd.BookingCategory,
	)
	return nil
}

func (r *repo) ListUnassignedUsers(ctx context.Context, locale, bookingCategory string) ([]UnassignedUser, error) {
	if strings.TrimSpace(locale) == "" || strings.TrimSpace(bookingCategory) == "" {
		return nil, fmt.Errorf("%w: locale and booking_category required", ErrValidation)
	}

	return repository.QueryMany(ctx, r.db, `
		SELECT u.id, u.username, u.email
		FROM users u
		WHERE u.role = 'qc_user'
		  AND u.is_active
		  AND NOT EXISTS (
			SELECT 1 FROM batch_assignments ba
			WHERE ba.user_id = u.id
			  AND ba.locale = $1
			  AND ba.booking_category = $2
			  AND ba.active
		  )
		ORDER BY u.username`,
		[]any{locale, bookingCategory},
		func(s repository.Scanner) (UnassignedUser, error) {
			var u UnassignedUser
			err := s.Scan(&u.ID, &u.Username, &u.Email)
			return u, err
		},
	)
}

func (r *repo) Locales(ctx context.Context) ([]string, error) {
	return repository.QueryMany(ctx, r.db,
		"SELECT DISTINCT locale FROM assets ORDER BY locale",
		nil,
		func(s repository.Scanner) (string, error) {
			var locale string
			err := s.Scan(&locale)
			return locale, err
		},
	)
}

func (r *repo) Categories(ctx context.Context, locale string) ([]CategoryCount, error) {
	if strings.TrimSpace(locale) == "" {
		return nil, fmt.Errorf("%w: locale required", ErrValidation)
	}

	return repository.QueryMany(ctx, r.db, `
		SELECT booking_category, COUNT(*)
		FROM assets
		WHERE locale = $1
		GROUP BY booking_category
		ORDER BY booking_category`,
		[]any{locale},
		func(s repository.Scanner) (CategoryCount, error) {
			var c CategoryCount
			err := s.Scan(&c.BookingCategory, &c.Count)
			return c, err
		},
	)
}

func (r *repo) Stats(ctx context.Context, locale, bookingCategory string) (*Stats, error) {
	if strings.TrimSpace(locale) == "" || strings.TrimSpace(bookingCategory) == "" {
		return nil, fmt.Errorf("%w: locale and booking_category required", ErrValidation)
	}

	stats := Stats{
		BatchID:         ComputeBatchID(locale, bookingCategory),
		Locale:          locale,
		BookingCategory: bookingCategory,
	}

	if err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE assigned_to IS NULL),
			COUNT(*) FILTER (WHERE qc_status = 'pending'),
			COUNT(*) FILTER (WHERE qc_status = 'in_progress'),
			COUNT(*) FILTER (WHERE qc_status = 'approved'),
			COUNT(*) FILTER (WHERE qc_status = 'rejected')
		FROM assets
		WHERE locale = $1 AND booking_category = $2`,
		locale, bookingCategory,
	).Scan(
		&stats.Total,
		&stats.Unassigned,
		&stats.Pending,
		&stats.InProgress,
		&stats.Approved,
		&stats.Rejected,
	); err != nil {
		return nil, fmt.Errorf("query batch stats: %w", err)
	}

	users, err := repository.QueryMany(ctx, r.db, `
		SELECT ba.user_id, u.username, ba.assigned_assets, ba.completed_assets
		FROM batch_assignments ba
		JOIN users u ON u.id = ba.user_id
		WHERE ba.batch_id = $1 AND ba.active
		ORDER BY u.username`,
		[]any{stats.BatchID},
		func(s repository.Scanner) (AssignedUser, error) {
			var u AssignedUser
			err := s.Scan(&u.UserID, &u.Username, &u.AssignedAssets, &u.CompletedAssets)
			return u, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query assigned users: %w", err)
	}
	stats.AssignedUsers = users

	unassigned, err := repository.QueryMany(ctx, r.db, `
		SELECT id FROM assets
		WHERE locale = $1 AND booking_category = $2 AND assigned_to IS NULL
		ORDER BY created_at`,
		[]any{locale, bookingCategory},
		func(s repository.Scanner) (uuid.UUID, error) {
			var id uuid.UUID
			err := s.Scan(&id)
			return id, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query unassigned assets: %w", err)
	}
	stats.UnassignedAssetIDs = unassigned

	return &stats, nil
}

func (r *repo) UserBatches(ctx context.Context, userID uuid.UUID) ([]UserBatch, error) {
	return repository.QueryMany(ctx, r.db, `
		SELECT
			ba.batch_id,
			ba.locale,
			ba.booking_category,
			ba.assigned_assets,
			ba.completed_assets,
			COUNT(a.id) FILTER (WHERE a.qc_status IS NULL OR a.qc_status IN ('pending', 'in_progress'))
		FROM batch_assignments ba
		LEFT JOIN assets a ON a.batch_id = ba.batch_id AND a.assigned_to = ba.user_id
		WHERE ba.user_id = $1 AND ba.active
		GROUP BY ba.batch_id, ba.locale, ba.booking_category, ba.assigned_assets, ba.completed_assets
		ORDER BY ba.batch_id`,
		[]any{userID},
		func(s repository.Scanner) (UserBatch, error) {
			var b UserBatch
			err := s.Scan(
				&b.BatchID,
				&b.Locale,
				&b.BookingCategory,
				&b.AssignedAssets,
				&b.CompletedAssets,
				&b.Remaining,
			)
			return b, err
		},
	)
}

func (r *repo) All(ctx context.Context) ([]Summary, error) {
	summaries, err := repository.QueryMany(ctx, r.db, `
		SELECT
			locale,
			booking_category,
			COUNT(*),
			COUNT(*) FILTER (WHERE assigned_to IS NULL),
			COUNT(*) FILTER (WHERE qc_status = 'pending'),
			COUNT(*) FILTER (WHERE qc_status = 'in_progress'),
			COUNT(*) FILTER (WHERE qc_status = 'approved'),
			COUNT(*) FILTER (WHERE qc_status = 'rejected'),
			COUNT(DISTINCT assigned_to) FILTER (WHERE assigned_to IS NOT NULL)
		FROM assets
		GROUP BY locale, booking_category
		ORDER BY locale, booking_category`,
		nil,
		func(s repository.Scanner) (Summary, error) {
			var b Summary
			err := s.Scan(
				&b.Locale,
				&b.BookingCategory,
				&b.Total,
				&b.Unassigned,
				&b.Pending,
				&b.InProgress,
				&b.Approved,
				&b.Rejected,
				&b.Reviewers,
			)
			return b, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query batch summaries: %w", err)
	}

	for i := range summaries {
		summaries[i].BatchID = ComputeBatchID(summaries[i].Locale, summaries[i].BookingCategory)
	}
	return summaries, nil
}

func (r *repo) checkReviewer(ctx context.Context, userID uuid.UUID) error {
	var (
		role   string
		active bool
	)
	err := r.db.QueryRowContext(
		ctx,
		"SELECT role, is_active FROM users WHERE id = $1",
		userID,
	).Scan(&role, &active)
	if err != nil {
		return repository.MapError(err, ErrUserNotFound, ErrDuplicate)
	}

	if role != "qc_user" || !active {
		return fmt.Errorf("%w: %s", ErrInvalidUser, userID)
	}
	return nil
}
