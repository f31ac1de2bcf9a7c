package qc

import (
	"net/url"

	"github.com/opsfield/intake/pkg/query"
)

// Filters narrows a reviewer's assigned-asset listing.
type Filters struct {
	BatchID  *string `json:"batch_id,omitempty"`
	QCStatus *string `json:"qc_status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("BatchID", f.BatchID).
		WhereEquals("QCStatus", f.QCStatus)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if batch := values.Get("batch_id"); batch != "" {
		f.BatchID = &batch
	}

	if status := values.Get("qc_status"); status != "" {
		f.QCStatus = &status
	}

	return f
}
