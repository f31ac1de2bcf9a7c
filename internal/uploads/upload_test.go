package uploads_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/opsfield/intake/internal/uploads"
)

func TestFileType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"eml", "message.eml", "eml"},
		{"pdf", "attachment.pdf", "pdf"},
		{"txt", "sms.txt", "txt"},
		{"uppercase extension", "MESSAGE.EML", "eml"},
		{"mixed case", "Report.Pdf", "pdf"},
		{"nested dots", "archive.2024.pdf", "pdf"},
		{"unsupported", "sheet.xlsx", ""},
		{"no extension", "README", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uploads.FileType(tt.filename); got != tt.want {
				t.Errorf("FileType(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", uploads.ErrNotFound, http.StatusNotFound},
		{"duplicate file", uploads.ErrDuplicateFile, http.StatusConflict},
		{"too large", uploads.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid file", uploads.ErrInvalidFile, http.StatusBadRequest},
		{"invalid submission", uploads.ErrValidation, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uploads.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
