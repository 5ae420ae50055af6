package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/qdconsortium/qdw-api/internal/api/metrics"
	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

// MaxPosterSize is the upload ceiling for poster PDFs (15 MiB).
const MaxPosterSize = 15 * 1024 * 1024

const posterContentType = "application/pdf"

// UploadService validates poster PDFs and stores them in the object store,
// with a best-effort archive copy off the request path.
type UploadService struct {
	store ports.ObjectStore
	tasks backgroundRunner
	log   zerolog.Logger
}

func NewUploadService(store ports.ObjectStore, tasks backgroundRunner, log zerolog.Logger) *UploadService {
	return &UploadService{store: store, tasks: tasks, log: log}
}

// StorePoster validates the file and writes it under a collision-resistant
// key. The archive copy, when configured, is detached and can never fail
// the primary response.
func (s *UploadService) StorePoster(ctx context.Context, in ports.PosterUpload) (*ports.PosterResult, error) {
	if !isPDF(in.ContentType, in.Filename) {
		metrics.PosterUploadsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.NewValidationError("Only PDF files are allowed")
	}
	if in.Size > MaxPosterSize {
		metrics.PosterUploadsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.NewValidationError("File size exceeds 15MB limit")
	}

	// Read fully up front: the bytes are needed twice (primary put and
	// archive copy), and the declared size is re-checked against reality.
	data, err := io.ReadAll(io.LimitReader(in.Content, MaxPosterSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxPosterSize {
		metrics.PosterUploadsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.NewValidationError("File size exceeds 15MB limit")
	}

	key := PosterKey(time.Now(), in.Email, in.Filename)

	url, err := s.store.Put(ctx, key, posterContentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("poster upload failed")
		metrics.PosterUploadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("store poster: %w", err)
	}

	if s.store.HasArchive() {
		s.tasks.Submit("poster_archive", func(ctx context.Context) error {
			return s.store.Archive(ctx, key, posterContentType, data)
		})
	}

	s.log.Info().Str("key", key).Int("size", len(data)).Msg("poster uploaded")
	metrics.PosterUploadsTotal.WithLabelValues("ok").Inc()

	return &ports.PosterResult{URL: url, Filename: key, Size: int64(len(data))}, nil
}

func isPDF(contentType, filename string) bool {
	return contentType == posterContentType ||
		strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

// PosterKey derives the storage key {unixMillis}_{sanitizedEmail}_{sanitizedName}.
// The result contains only [A-Za-z0-9._-]; re-sanitizing it is a no-op.
func PosterKey(now time.Time, email, filename string) string {
	e := sanitizeEmail(email)
	if e == "" {
		e = "unknown"
	}
	return fmt.Sprintf("%d_%s_%s", now.UnixMilli(), e, sanitizeFilename(filename))
}

// sanitizeEmail replaces every non-alphanumeric character with "_".
func sanitizeEmail(email string) string {
	return strings.Map(func(r rune) rune {
		if isAlnum(r) {
			return r
		}
		return '_'
	}, email)
}

// sanitizeFilename keeps alphanumerics, ".", and "-"; everything else
// becomes "_".
func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if isAlnum(r) || r == '.' || r == '-' {
			return r
		}
		return '_'
	}, name)
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
