package ports

import (
	"context"
	"io"
)

// PosterUpload is an incoming poster file from the multipart form.
type PosterUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Email       string
	Content     io.Reader
}

// PosterResult describes a stored poster.
type PosterResult struct {
	URL      string
	Filename string
	Size     int64
}

// ObjectStore abstracts the object-storage backend for poster PDFs.
type ObjectStore interface {
	// Put stores the object under key with upsert semantics and returns
	// its public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)

	// HasArchive reports whether a secondary archive bucket is configured.
	HasArchive() bool

	// Archive writes a best-effort copy to the archive bucket.
	Archive(ctx context.Context, key, contentType string, body []byte) error
}

type UploadService interface {
	// StorePoster validates and stores a poster PDF. Validation failures
	// are *domain.ValidationError with the user-facing message.
	StorePoster(ctx context.Context, in PosterUpload) (*PosterResult, error)
}
