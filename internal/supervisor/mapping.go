package supervisor

import (
	"net/url"

	"github.com/opsfield/intake/pkg/query"
	"github.com/opsfield/intake/pkg/repository"
)

// Filters narrows the escalation queue.
type Filters struct {
	SupervisorStatus *string `json:"supervisor_status,omitempty"`
	Locale           *string `json:"locale,omitempty"`
	BookingCategory  *string `json:"booking_category,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SupervisorStatus", f.SupervisorStatus).
		WhereEquals("Locale", f.Locale).
		WhereEquals("BookingCategory", f.BookingCategory)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if status := values.Get("supervisor_status"); status != "" {
		f.SupervisorStatus = &status
	}

	if locale := values.Get("locale"); locale != "" {
		f.Locale = &locale
	}

	if category := values.Get("booking_category"); category != "" {
		f.BookingCategory = &category
	}

	return f
}

func scanSubmission(s repository.Scanner) (Submission, error) {
	var sub Submission
	err := s.Scan(
		&sub.ID,
		&sub.AssetID,
		&sub.ReviewerID,
		&sub.Action,
		&sub.RejectReason,
		&sub.Notes,
		&sub.MetadataBefore,
		&sub.MetadataAfter,
		&sub.SubmittedAt,
	)
	return sub, err
}
