package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

type stubUploadService struct {
	storeFn func(ctx context.Context, in ports.PosterUpload) (*ports.PosterResult, error)
}

func (s *stubUploadService) StorePoster(ctx context.Context, in ports.PosterUpload) (*ports.PosterResult, error) {
	return s.storeFn(ctx, in)
}

func multipartRequest(t *testing.T, fieldName, filename, contentType, content, email string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="` + fieldName + `"; filename="` + filename + `"`}
	hdr["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if email != "" {
		if err := w.WriteField("email", email); err != nil {
			t.Fatalf("write email: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload-poster", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUploadHandler_Upload_Success(t *testing.T) {
	e := echo.New()
	stub := &stubUploadService{
		storeFn: func(ctx context.Context, in ports.PosterUpload) (*ports.PosterResult, error) {
			if in.Filename != "poster.pdf" || in.Email != "ada@example.com" {
				t.Fatalf("unexpected upload: %+v", in)
			}
			return &ports.PosterResult{
				URL:      "https://cdn.example.com/key.pdf",
				Filename: "key.pdf",
				Size:     in.Size,
			}, nil
		},
	}
	h := NewUploadHandler(stub)

	req := multipartRequest(t, "file", "poster.pdf", "application/pdf", "%PDF data", "ada@example.com")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"url":"https://cdn.example.com/key.pdf"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUploadHandler_Upload_NoFile(t *testing.T) {
	e := echo.New()
	stub := &stubUploadService{
		storeFn: func(ctx context.Context, in ports.PosterUpload) (*ports.PosterResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewUploadHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/upload-poster", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = h.Upload(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No file provided") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUploadHandler_Upload_ValidationError(t *testing.T) {
	e := echo.New()
	stub := &stubUploadService{
		storeFn: func(ctx context.Context, in ports.PosterUpload) (*ports.PosterResult, error) {
			return nil, domain.NewValidationError("Only PDF files are allowed")
		},
	}
	h := NewUploadHandler(stub)

	req := multipartRequest(t, "file", "notes.txt", "text/plain", "hello", "")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = h.Upload(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Only PDF files are allowed") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUploadHandler_Upload_StoreFailure(t *testing.T) {
	e := echo.New()
	stub := &stubUploadService{
		storeFn: func(ctx context.Context, in ports.PosterUpload) (*ports.PosterResult, error) {
			return nil, context.DeadlineExceeded
		},
	}
	h := NewUploadHandler(stub)

	req := multipartRequest(t, "file", "poster.pdf", "application/pdf", "%PDF data", "")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = h.Upload(c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Failed to upload file. Please try again.") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
