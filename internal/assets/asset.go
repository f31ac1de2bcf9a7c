// Package assets implements the deliverable asset domain: the read model
// shared by the QC, batch, and supervisor surfaces, the QC lifecycle state
// machine, and administrative reset operations.
package assets

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DeliverableType identifies the kind of deliverable an asset represents.
type DeliverableType string

const (
	TypeRawEmail        DeliverableType = "raw_email"
	TypeEmailAttachment DeliverableType = "email_attachment"
	TypeTextMessage     DeliverableType = "text_message"
)

// ParseDeliverableType validates and converts a deliverable type string.
func ParseDeliverableType(s string) (DeliverableType, error) {
	switch DeliverableType(s) {
	case TypeRawEmail, TypeEmailAttachment, TypeTextMessage:
		return DeliverableType(s), nil
	}
	return "", fmt.Errorf("%w: unknown deliverable type %q", ErrValidation, s)
}

// Asset represents a submitted deliverable moving through the QC lifecycle.
// A nil QCStatus means the asset is unassigned; a nil SupervisorStatus means
// it was never escalated.
type Asset struct {
	ID                   uuid.UUID         `json:"id"`
	UploaderID           uuid.UUID         `json:"uploader_id"`
	DeliverableType      DeliverableType   `json:"deliverable_type"`
	Locale               string            `json:"locale"`
	BookingCategory      string            `json:"booking_category"`
	BatchID              *string           `json:"batch_id"`
	Metadata             Metadata          `json:"metadata"`
	AssignedTo           *uuid.UUID        `json:"assigned_to"`
	QCStatus             *QCStatus         `json:"qc_status"`
	QCNotes              *string           `json:"qc_notes"`
	QCCompletedBy        *uuid.UUID        `json:"qc_completed_by"`
	QCCompletedAt        *time.Time        `json:"qc_completed_at"`
	SendToSupervisor     bool              `json:"send_to_supervisor"`
	SupervisorStatus     *SupervisorStatus `json:"supervisor_status"`
	SupervisorID         *uuid.UUID        `json:"supervisor_id"`
	SupervisorNotes      *string           `json:"supervisor_notes"`
	SupervisorReviewedAt *time.Time        `json:"supervisor_reviewed_at"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`

	// Files is populated by LoadFiles; it is not part of the base projection.
	Files []File `json:"files,omitempty"`
}

// File is the read model for a stored deliverable file belonging to an asset.
type File struct {
	ID          uuid.UUID `json:"id"`
	AssetID     uuid.UUID `json:"asset_id"`
	Filename    string    `json:"filename"`
	FileType    string    `json:"file_type"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	ContentHash string    `json:"content_hash"`
	CreatedAt   time.Time `json:"created_at"`
}

// ResetCommand carries the data for an administrative reset-and-reassign:
// every asset the current user holds in the (locale, booking category)
// partition has its QC progress cleared and is handed to the new user.
type ResetCommand struct {
	CurrentUserID   uuid.UUID `json:"current_user_id"`
	NewUserID       uuid.UUID `json:"new_user_id"`
	Locale          string    `json:"locale"`
	BookingCategory string    `json:"booking_category"`
}
