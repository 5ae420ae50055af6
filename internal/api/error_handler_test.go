package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
)

func renderError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials or payment not found"},
		{domain.ErrPasswordMismatch, http.StatusUnauthorized, "Invalid email or password"},
		{domain.ErrAccountIncomplete, http.StatusUnauthorized, "Account setup incomplete. Please contact support."},
		{domain.ErrInvalidSession, http.StatusUnauthorized, "Invalid session"},
		{domain.ErrRegistrantNotFound, http.StatusNotFound, "User not found or payment not verified"},
		{domain.ErrPasswordAlreadySet, http.StatusBadRequest, "Password already set. Please use login."},
		{domain.ErrInvalidSignature, http.StatusBadRequest, "Invalid signature"},
		{domain.ErrUnknownTier, http.StatusBadRequest, "Missing registration type"},
		{domain.ErrNewsParse, http.StatusInternalServerError, "Failed to parse news data"},
	}

	for _, tc := range cases {
		rec := renderError(t, tc.err)
		if rec.Code != tc.wantCode {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.wantCode, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.wantMsg) {
			t.Fatalf("%v: expected %q in body, got %s", tc.err, tc.wantMsg, rec.Body.String())
		}
	}
}

func TestHTTPErrorHandler_ValidationError(t *testing.T) {
	rec := renderError(t, domain.NewValidationError("Missing required field: email"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Missing required field: email") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	rec := renderError(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	rec := renderError(t, errors.New("mongo: connection refused at 10.0.0.5"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Fatalf("internal details leaked: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
