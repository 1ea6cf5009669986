// Package intake turns uploaded resume artifacts into pool candidates.
// Uploads are validated by extension and size before a candidate is
// created; text extraction is best-effort and never blocks intake.
package intake

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/screenrank/screenrank/internal/screening"
)

// MaxFileSize is the upload cap, matching the UI-facing 5 MB limit.
const MaxFileSize = 5 * 1024 * 1024

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// Intake validates the upload and creates a candidate in uploaded status.
// rawBytes may be nil (metadata-only intake); when present, document text
// is extracted so the external skill source can read it. Extraction
// failures are not fatal; the candidate simply falls back to the mock
// source during analysis.
func Intake(fileName string, fileSize int64, rawBytes []byte) (*screening.Candidate, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}

	if fileSize > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, fileSize, MaxFileSize)
	}

	c := &screening.Candidate{
		ID:         uuid.NewString(),
		Name:       DeriveName(fileName),
		FileName:   fileName,
		FileSize:   fileSize,
		UploadedAt: time.Now().UTC(),
		Status:     screening.StatusUploaded,
	}

	if len(rawBytes) > 0 {
		if text, err := ExtractText(fileName, rawBytes); err == nil {
			c.ResumeText = text
		}
	}

	return c, nil
}

// DeriveName turns a file name into a display name: extension stripped,
// underscores and hyphens replaced with spaces.
func DeriveName(fileName string) string {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}
