package exports

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opsfield/intake/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an exports repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "exports"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

const rowColumns = `
	a.id, a.deliverable_type, a.locale, a.booking_category, a.batch_id,
	up.username, rv.username, a.qc_status, a.qc_notes, a.supervisor_status,
	a.qc_completed_at, a.created_at`

// whereClause renders the filter as a WHERE fragment with positional
// arguments starting at $1.
func whereClause(filters Filters) (string, []any) {
	clause := ""
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		cond = fmt.Sprintf(cond, len(args))
		if clause == "" {
			clause = "WHERE " + cond
			return
		}
		clause += " AND " + cond
	}

	if filters.Locale != nil {
		add("a.locale = $%d", *filters.Locale)
	}
	if filters.BookingCategory != nil {
		add("a.booking_category = $%d", *filters.BookingCategory)
	}
	if filters.QCStatus != nil {
		add("a.qc_status = $%d", *filters.QCStatus)
	}
	if filters.From != nil {
		add("a.qc_completed_at >= $%d", *filters.From)
	}
	if filters.To != nil {
		add("a.qc_completed_at <= $%d", *filters.To)
	}

	return clause, args
}

func scanRow(s repository.Scanner) (Row, error) {
	var row Row
	err := s.Scan(
		&row.AssetID,
		&row.DeliverableType,
		&row.Locale,
		&row.BookingCategory,
		&row.BatchID,
		&row.Uploader,
		&row.Reviewer,
		&row.QCStatus,
		&row.QCNotes,
		&row.SupervisorStatus,
		&row.QCCompletedAt,
		&row.CreatedAt,
	)
	return row, err
}

var csvHeader = []string{
	"asset_id", "deliverable_type", "locale", "booking_category", "batch_id",
	"uploader", "reviewer", "qc_status", "qc_notes", "supervisor_status",
	"qc_completed_at", "created_at",
}

func (r *repo) ExportCSV(ctx context.Context, w io.Writer, filters Filters) error {
	clause, args := whereClause(filters)

	sqlText := fmt.Sprintf(`
		SELECT %s
		FROM assets a
		JOIN users up ON up.id = a.uploader_id
		LEFT JOIN users rv ON rv.id = a.qc_completed_by
		%s
		ORDER BY a.created_at`, rowColumns, clause)

	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return fmt.Errorf("query export rows: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	count := 0
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return fmt.Errorf("scan export row: %w", err)
		}

		if err := cw.Write(csvRecord(row)); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
		count++
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate export rows: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}

	r.logger.Info("exported qc results", "rows", count)
	return nil
}

func csvRecord(row Row) []string {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}

	completed := ""
	if row.QCCompletedAt != nil {
		completed = row.QCCompletedAt.UTC().Format(time.RFC3339)
	}

	return []string{
		row.AssetID.String(),
		row.DeliverableType,
		row.Locale,
		row.BookingCategory,
		deref(row.BatchID),
		row.Uploader,
		deref(row.Reviewer),
		deref(row.QCStatus),
		deref(row.QCNotes),
		deref(row.SupervisorStatus),
		completed,
		row.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (r *repo) ExportStats(ctx context.Context, filters Filters) (Stats, error) {
	clause, args := whereClause(filters)

	sqlText := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE a.qc_status IN ('approved', 'rejected')),
			COUNT(*) FILTER (WHERE a.qc_status = 'approved'),
			COUNT(*) FILTER (WHERE a.qc_status = 'rejected'),
			COUNT(*) FILTER (WHERE a.supervisor_status = 'pending')
		FROM assets a
		%s`, clause)

	var stats Stats
	err := r.db.QueryRowContext(ctx, sqlText, args...).Scan(
		&stats.Total,
		&stats.Reviewed,
		&stats.Approved,
		&stats.Rejected,
		&stats.PendingSupervisor,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("query export stats: %w", err)
	}

	return stats, nil
}

func (r *repo) Options(ctx context.Context) (FilterOptions, error) {
	options := FilterOptions{
		Statuses: []string{"pending", "in_progress", "approved", "rejected"},
	}

	scanValue := func(s repository.Scanner) (string, error) {
		var v string
		err := s.Scan(&v)
		return v, err
	}

	locales, err := repository.QueryMany(ctx, r.db,
		`SELECT DISTINCT locale FROM assets ORDER BY locale`, nil, scanValue)
	if err != nil {
		return FilterOptions{}, fmt.Errorf("query export locales: %w", err)
	}
	options.Locales = locales

	categories, err := repository.QueryMany(ctx, r.db,
		`SELECT DISTINCT booking_category FROM assets ORDER BY booking_category`, nil, scanValue)
	if err != nil {
		return FilterOptions{}, fmt.Errorf("query export categories: %w", err)
	}
	options.Categories = categories

	return options, nil
}

func (r *repo) Progress(ctx context.Context) (Progress, error) {
	var progress Progress

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := r.db.QueryRowContext(gctx, `
			SELECT
				COUNT(*),
				COUNT(*) FILTER (WHERE assigned_to IS NULL),
				COUNT(*) FILTER (WHERE qc_status = 'pending'),
				COUNT(*) FILTER (WHERE qc_status = 'in_progress'),
				COUNT(*) FILTER (WHERE qc_status = 'approved'),
				COUNT(*) FILTER (WHERE qc_status = 'rejected')
			FROM assets`).Scan(
			&progress.Overall.Total,
			&progress.Overall.Unassigned,
			&progress.Overall.Pending,
			&progress.Overall.InProgress,
			&progress.Overall.Approved,
			&progress.Overall.Rejected,
		)
		if err != nil {
			return fmt.Errorf("query overall progress: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		list, err := repository.QueryMany(gctx, r.db, `
			SELECT
				locale,
				COUNT(*),
				COUNT(*) FILTER (WHERE qc_status IN ('approved', 'rejected'))
			FROM assets
			GROUP BY locale
			ORDER BY locale`, nil,
			func(s repository.Scanner) (LocaleProgress, error) {
				var lp LocaleProgress
				err := s.Scan(&lp.Locale, &lp.Total, &lp.Reviewed)
				return lp, err
			})
		if err != nil {
			return fmt.Errorf("query locale progress: %w", err)
		}
		progress.ByLocale = list
		return nil
	})

	g.Go(func() error {
		list, err := repository.QueryMany(gctx, r.db, `
			SELECT date_trunc('day', qc_completed_at), COUNT(*)
			FROM assets
			WHERE qc_completed_at IS NOT NULL
			GROUP BY 1
			ORDER BY 1`, nil,
			func(s repository.Scanner) (DailyCompletion, error) {
				var dc DailyCompletion
				err := s.Scan(&dc.Day, &dc.Completed)
				return dc, err
			})
		if err != nil {
			return fmt.Errorf("query daily completions: %w", err)
		}
		progress.Daily = list
		return nil
	})

	g.Go(func() error {
		list, err := repository.QueryMany(gctx, r.db, `
			SELECT a.qc_completed_by, u.username, COUNT(*)
			FROM assets a
			JOIN users u ON u.id = a.qc_completed_by
			WHERE a.qc_completed_by IS NOT NULL
			GROUP BY a.qc_completed_by, u.username
			ORDER BY COUNT(*) DESC`, nil,
			func(s repository.Scanner) (ReviewerThroughput, error) {
				var rt ReviewerThroughput
				err := s.Scan(&rt.ReviewerID, &rt.Username, &rt.Completed)
				return rt, err
			})
		if err != nil {
			return fmt.Errorf("query reviewer throughput: %w", err)
		}
		progress.ByReviewer = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return Progress{}, err
	}

	return progress, nil
}

// filename stamps an export attachment name with the current date.
func filename(now time.Time) string {
	return "qc-results-" + now.UTC().Format("2006-01-02") + ".csv"
}
