package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/qdconsortium/qdw-api/internal/infrastructure/forward"
)

func TestJoinHandler_Forward_Passthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"name":"Ada","org":"QDC"}` {
			t.Fatalf("unexpected upstream body: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true,"id":"42"}`))
	}))
	defer upstream.Close()

	e := echo.New()
	h := NewJoinHandler(forward.New(upstream.URL), zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/submit-join", strings.NewReader(`{"name":"Ada","org":"QDC"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Forward(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	// Status and body come back verbatim from the upstream webhook.
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if rec.Body.String() != `{"ok":true,"id":"42"}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestJoinHandler_Forward_UpstreamErrorStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"ok":false,"error":"missing name"}`))
	}))
	defer upstream.Close()

	e := echo.New()
	h := NewJoinHandler(forward.New(upstream.URL), zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/submit-join", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Forward(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("upstream status must pass through, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing name") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestJoinHandler_Forward_NotConfigured(t *testing.T) {
	e := echo.New()
	h := NewJoinHandler(forward.New(""), zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/submit-join", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = h.Forward(c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok":false`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestJoinHandler_Forward_UpstreamUnreachable(t *testing.T) {
	// A closed server: the forward call itself fails.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	e := echo.New()
	h := NewJoinHandler(forward.New(upstream.URL), zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/submit-join", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = h.Forward(c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
