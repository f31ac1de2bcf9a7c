package assets

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/opsfield/intake/pkg/query"
	"github.com/opsfield/intake/pkg/repository"
)

// Columns is the canonical asset column list, shared by sibling domains
// that select or RETURNING full asset rows.
const Columns = `id, uploader_id, deliverable_type, locale, booking_category, batch_id, metadata,
	assigned_to, qc_status, qc_notes, qc_completed_by, qc_completed_at,
	send_to_supervisor, supervisor_status, supervisor_id, supervisor_notes, supervisor_reviewed_at,
	created_at, updated_at`

var projection = query.
	NewProjectionMap("public", "assets", "a").
	Project("id", "ID").
	Project("uploader_id", "UploaderID").
	Project("deliverable_type", "DeliverableType").
	Project("locale", "Locale").
	Project("booking_category", "BookingCategory").
	Project("batch_id", "BatchID").
	Project("metadata", "Metadata").
	Project("assigned_to", "AssignedTo").
	Project("qc_status", "QCStatus").
	Project("qc_notes", "QCNotes").
	Project("qc_completed_by", "QCCompletedBy").
	Project("qc_completed_at", "QCCompletedAt").
	Project("send_to_supervisor", "SendToSupervisor").
	Project("supervisor_status", "SupervisorStatus").
	Project("supervisor_id", "SupervisorID").
	Project("supervisor_notes", "SupervisorNotes").
	Project("supervisor_reviewed_at", "SupervisorReviewedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

// Projection exposes the asset projection map for sibling domain builders.
func Projection() *query.ProjectionMap {
	return projection
}

var defaultSort = query.SortField{
	Field: "CreatedAt",
}

// Filters contains optional filtering criteria for asset queries.
// Nil fields are ignored. Unassigned selects assets with no QC status.
type Filters struct {
	Locale          *string    `json:"locale,omitempty"`
	BookingCategory *string    `json:"booking_category,omitempty"`
	BatchID         *string    `json:"batch_id,omitempty"`
	DeliverableType *string    `json:"deliverable_type,omitempty"`
	QCStatus        *string    `json:"qc_status,omitempty"`
	AssignedTo      *uuid.UUID `json:"assigned_to,omitempty"`
	UploaderID      *uuid.UUID `json:"uploader_id,omitempty"`
	Unassigned      bool       `json:"unassigned,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.
		WhereEquals("Locale", f.Locale).
		WhereEquals("BookingCategory", f.BookingCategory).
		WhereEquals("BatchID", f.BatchID).
		WhereEquals("DeliverableType", f.DeliverableType).
		WhereEquals("QCStatus", f.QCStatus).
		WhereEquals("AssignedTo", f.AssignedTo).
		WhereEquals("UploaderID", f.UploaderID)

	if f.Unassigned {
		b.WhereNull("AssignedTo")
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if locale := values.Get("locale"); locale != "" {
		f.Locale = &locale
	}

	if category := values.Get("booking_category"); category != "" {
		f.BookingCategory = &category
	}

	if batch := values.Get("batch_id"); batch != "" {
		f.BatchID = &batch
	}

	if dt := values.Get("deliverable_type"); dt != "" {
		f.DeliverableType = &dt
	}

	if status := values.Get("qc_status"); status != "" {
		f.QCStatus = &status
	}

	if assigned := values.Get("assigned_to"); assigned != "" {
		if id, err := uuid.Parse(assigned); err == nil {
			f.AssignedTo = &id
		}
	}

	if uploader := values.Get("uploader_id"); uploader != "" {
		if id, err := uuid.Parse(uploader); err == nil {
			f.UploaderID = &id
		}
	}

	if values.Get("unassigned") == "true" {
		f.Unassigned = true
	}

	return f
}

// Scan reads a full asset row in Columns order. Exported for sibling
// domains that issue their own asset queries.
func Scan(s repository.Scanner) (Asset, error) {
	var a Asset
	err := s.Scan(
		&a.ID,
		&a.UploaderID,
		&a.DeliverableType,
		&a.Locale,
		&a.BookingCategory,
		&a.BatchID,
		&a.Metadata,
		&a.AssignedTo,
		&a.QCStatus,
		&a.QCNotes,
		&a.QCCompletedBy,
		&a.QCCompletedAt,
		&a.SendToSupervisor,
		&a.SupervisorStatus,
		&a.SupervisorID,
		&a.SupervisorNotes,
		&a.SupervisorReviewedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func scanFile(s repository.Scanner) (File, error) {
	var f File
	err := s.Scan(
		&f.ID,
		&f.AssetID,
		&f.Filename,
		&f.FileType,
		&f.ContentType,
		&f.SizeBytes,
		&f.PageCount,
		&f.StorageKey,
		&f.ContentHash,
		&f.CreatedAt,
	)
	return f, err
}
