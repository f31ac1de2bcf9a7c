// Package uploads implements deliverable intake: multipart submission of
// email, attachment, and text deliverables into blob storage, duplicate
// detection by content hash, and registration of the resulting asset.
package uploads

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/opsfield/intake/internal/assets"
)

// FileUpload is one file within an intake submission.
type FileUpload struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}

// CreateCommand carries everything needed to register one deliverable.
// InlineText substitutes for a .txt file on text_message submissions.
type CreateCommand struct {
	DeliverableType assets.DeliverableType
	Metadata        assets.Metadata
	Files           []FileUpload
	InlineText      string
}

// FileDownload is a stored file's content stream with its serving metadata.
type FileDownload struct {
	Filename    string
	ContentType string
	SizeBytes   int64
	Body        io.ReadCloser
}

// FileType derives the stored file type from a filename extension.
func FileType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".eml":
		return "eml"
	case ".pdf":
		return "pdf"
	case ".txt":
		return "txt"
	}
	return ""
}
