package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

func pdfUpload(content string) ports.PosterUpload {
	return ports.PosterUpload{
		Filename:    "My Poster (final).pdf",
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Email:       "ada@example.com",
		Content:     strings.NewReader(content),
	}
}

func TestUploadService_StorePoster_Success(t *testing.T) {
	var putKey, putContentType string
	var putSize int64
	store := &stubStore{
		putFn: func(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
			putKey, putContentType, putSize = key, contentType, size
			return "https://cdn.example.com/" + key, nil
		},
	}
	svc := NewUploadService(store, &syncRunner{}, zerolog.Nop())

	result, err := svc.StorePoster(context.Background(), pdfUpload("%PDF-1.7 content"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if putContentType != "application/pdf" {
		t.Fatalf("unexpected content type: %q", putContentType)
	}
	if putSize != int64(len("%PDF-1.7 content")) {
		t.Fatalf("unexpected size: %d", putSize)
	}
	if !strings.Contains(putKey, "ada_example_com") {
		t.Fatalf("key must embed the sanitized email: %q", putKey)
	}
	if strings.ContainsAny(putKey, " ()") {
		t.Fatalf("key must be sanitized: %q", putKey)
	}
	if result.URL != "https://cdn.example.com/"+putKey {
		t.Fatalf("unexpected url: %q", result.URL)
	}
	if result.Filename != putKey {
		t.Fatalf("result filename must be the storage key, got %q", result.Filename)
	}
}

func TestUploadService_StorePoster_RejectsNonPDF(t *testing.T) {
	store := &stubStore{
		putFn: func(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
			t.Fatalf("put should not be called")
			return "", nil
		},
	}
	svc := NewUploadService(store, &syncRunner{}, zerolog.Nop())

	_, err := svc.StorePoster(context.Background(), ports.PosterUpload{
		Filename:    "notes.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Size:        100,
		Content:     strings.NewReader("x"),
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Error() != "Only PDF files are allowed" {
		t.Fatalf("unexpected message: %q", ve.Error())
	}
}

func TestUploadService_StorePoster_PDFExtensionWithoutContentType(t *testing.T) {
	store := &stubStore{
		putFn: func(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
			return "https://cdn.example.com/" + key, nil
		},
	}
	svc := NewUploadService(store, &syncRunner{}, zerolog.Nop())

	_, err := svc.StorePoster(context.Background(), ports.PosterUpload{
		Filename:    "poster.PDF",
		ContentType: "application/octet-stream",
		Size:        4,
		Content:     strings.NewReader("data"),
	})
	if err != nil {
		t.Fatalf("a .pdf filename must be accepted regardless of content type: %v", err)
	}
}

func TestUploadService_StorePoster_DeclaredSizeOverLimit(t *testing.T) {
	svc := NewUploadService(&stubStore{}, &syncRunner{}, zerolog.Nop())

	in := pdfUpload("tiny")
	in.Size = MaxPosterSize + 1

	_, err := svc.StorePoster(context.Background(), in)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Error() != "File size exceeds 15MB limit" {
		t.Fatalf("unexpected message: %q", ve.Error())
	}
}

func TestUploadService_StorePoster_ExactLimitAccepted(t *testing.T) {
	var putSize int64
	store := &stubStore{
		putFn: func(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
			putSize = size
			return "https://cdn.example.com/" + key, nil
		},
	}
	svc := NewUploadService(store, &syncRunner{}, zerolog.Nop())

	// A file of exactly the ceiling is still within limits.
	in := ports.PosterUpload{
		Filename:    "poster.pdf",
		ContentType: "application/pdf",
		Size:        MaxPosterSize,
		Content:     io.LimitReader(zeroReader{}, MaxPosterSize),
	}

	result, err := svc.StorePoster(context.Background(), in)
	if err != nil {
		t.Fatalf("a file of exactly the limit must be accepted: %v", err)
	}
	if putSize != MaxPosterSize || result.Size != MaxPosterSize {
		t.Fatalf("expected the full %d bytes stored, got put=%d result=%d", int64(MaxPosterSize), putSize, result.Size)
	}
}

func TestUploadService_StorePoster_ActualSizeOverLimit(t *testing.T) {
	svc := NewUploadService(&stubStore{}, &syncRunner{}, zerolog.Nop())

	// Declared size lies; the stream itself is over the ceiling.
	in := ports.PosterUpload{
		Filename:    "poster.pdf",
		ContentType: "application/pdf",
		Size:        100,
		Content:     io.LimitReader(zeroReader{}, MaxPosterSize+1),
	}

	_, err := svc.StorePoster(context.Background(), in)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Error() != "File size exceeds 15MB limit" {
		t.Fatalf("expected size validation error, got %v", err)
	}
}

func TestUploadService_StorePoster_ArchiveCopy(t *testing.T) {
	var archivedKey string
	var archivedBody []byte
	store := &stubStore{
		hasArchive: true,
		putFn: func(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
			return "https://cdn.example.com/" + key, nil
		},
		archiveFn: func(ctx context.Context, key, contentType string, body []byte) error {
			archivedKey = key
			archivedBody = body
			return nil
		},
	}
	runner := &syncRunner{}
	svc := NewUploadService(store, runner, zerolog.Nop())

	result, err := svc.StorePoster(context.Background(), pdfUpload("%PDF data"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.names) != 1 || runner.names[0] != "poster_archive" {
		t.Fatalf("expected an archive task, got %v", runner.names)
	}
	if archivedKey != result.Filename {
		t.Fatalf("archive key %q does not match stored key %q", archivedKey, result.Filename)
	}
	if !bytes.Equal(archivedBody, []byte("%PDF data")) {
		t.Fatalf("archive body differs from upload")
	}
}

func TestPosterKey_Sanitization(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	key := PosterKey(now, "ada+test@example.com", "Quantum Poster v2!.pdf")
	want := "1700000000000_ada_test_example_com_Quantum_Poster_v2_.pdf"
	if key != want {
		t.Fatalf("expected %q, got %q", want, key)
	}

	// Keys are built from [A-Za-z0-9._-] only, so re-deriving from a
	// sanitized name keeps the filename part unchanged.
	again := PosterKey(now, "", "Quantum_Poster_v2_.pdf")
	if again != "1700000000000_unknown_Quantum_Poster_v2_.pdf" {
		t.Fatalf("unexpected key: %q", again)
	}
}

// zeroReader yields an endless stream of zero bytes.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
