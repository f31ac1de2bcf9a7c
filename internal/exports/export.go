// Package exports implements reporting: filtered QC-result exports as CSV
// streams and progress rollups across locales, days, and reviewers.
package exports

import (
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Filters narrows an export or stats query. Date bounds apply to QC
// completion time.
type Filters struct {
	Locale          *string    `json:"locale,omitempty"`
	BookingCategory *string    `json:"booking_category,omitempty"`
	QCStatus        *string    `json:"qc_status,omitempty"`
	From            *time.Time `json:"from,omitempty"`
	To              *time.Time `json:"to,omitempty"`
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Date bounds use RFC 3339 or plain YYYY-MM-DD.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if locale := values.Get("locale"); locale != "" {
		f.Locale = &locale
	}

	if category := values.Get("booking_category"); category != "" {
		f.BookingCategory = &category
	}

	if status := values.Get("qc_status"); status != "" {
		f.QCStatus = &status
	}

	if from := values.Get("from"); from != "" {
		if t, err := parseDate(from); err == nil {
			f.From = &t
		}
	}

	if to := values.Get("to"); to != "" {
		if t, err := parseDate(to); err == nil {
			f.To = &t
		}
	}

	return f
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// Row is one flattened QC result in an export.
type Row struct {
	AssetID          uuid.UUID  `json:"asset_id"`
	DeliverableType  string     `json:"deliverable_type"`
	Locale           string     `json:"locale"`
	BookingCategory  string     `json:"booking_category"`
	BatchID          *string    `json:"batch_id"`
	Uploader         string     `json:"uploader"`
	Reviewer         *string    `json:"reviewer"`
	QCStatus         *string    `json:"qc_status"`
	QCNotes          *string    `json:"qc_notes"`
	SupervisorStatus *string    `json:"supervisor_status"`
	QCCompletedAt    *time.Time `json:"qc_completed_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Stats summarizes the assets matching an export filter.
type Stats struct {
	Total             int `json:"total"`
	Reviewed          int `json:"reviewed"`
	Approved          int `json:"approved"`
	Rejected          int `json:"rejected"`
	PendingSupervisor int `json:"pending_supervisor"`
}

// FilterOptions lists the values available for export filtering.
type FilterOptions struct {
	Locales    []string `json:"locales"`
	Categories []string `json:"categories"`
	Statuses   []string `json:"statuses"`
}

// OverallProgress is the pool-wide completion rollup.
type OverallProgress struct {
	Total      int `json:"total"`
	Unassigned int `json:"unassigned"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Approved   int `json:"approved"`
	Rejected   int `json:"rejected"`
}

// LocaleProgress is the per-locale completion rollup.
type LocaleProgress struct {
	Locale   string `json:"locale"`
	Total    int    `json:"total"`
	Reviewed int    `json:"reviewed"`
}

// DailyCompletion counts verdicts completed per day.
type DailyCompletion struct {
	Day       time.Time `json:"day"`
	Completed int       `json:"completed"`
}

// ReviewerThroughput counts verdicts per reviewer.
type ReviewerThroughput struct {
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Username   string    `json:"username"`
	Completed  int       `json:"completed"`
}

// Progress is the combined progress view.
type Progress struct {
	Overall    OverallProgress      `json:"overall"`
	ByLocale   []LocaleProgress     `json:"by_locale"`
	Daily      []DailyCompletion    `json:"daily"`
	ByReviewer []ReviewerThroughput `json:"by_reviewer"`
}
