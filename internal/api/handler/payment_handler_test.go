package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

func TestPaymentHandler_CreateCheckout_Success(t *testing.T) {
	e := echo.New()
	stub := &stubPaymentService{
		checkoutFn: func(ctx context.Context, in ports.CheckoutInput) (string, error) {
			if in.RegistrationType != domain.TypeStudentInPerson {
				t.Fatalf("unexpected tier: %q", in.RegistrationType)
			}
			if in.Pending == nil || in.Pending.FirstName != "Ada" {
				t.Fatalf("registration data must be carried along: %+v", in.Pending)
			}
			if in.RegistrationID != "64f000000000000000000001" {
				t.Fatalf("intake row id must be carried along, got %q", in.RegistrationID)
			}
			return "https://checkout.example.com/cs_123", nil
		},
	}
	h := NewPaymentHandler(stub)

	body := strings.NewReader(`{"registrationType":"student_in_person","email":"ada@example.com","registrationId":"64f000000000000000000001","registrationData":{"firstName":"Ada","agreeToTerms":true}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/checkout", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateCheckout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"url":"https://checkout.example.com/cs_123"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPaymentHandler_CreateCheckout_UnknownTier(t *testing.T) {
	e := echo.New()
	stub := &stubPaymentService{
		checkoutFn: func(ctx context.Context, in ports.CheckoutInput) (string, error) {
			return "", domain.ErrUnknownTier
		},
	}
	h := NewPaymentHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/stripe/checkout", strings.NewReader(`{"registrationType":"vip"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = h.CreateCheckout(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Missing price id for registration type") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPaymentHandler_CreatePaymentIntent_Success(t *testing.T) {
	e := echo.New()
	stub := &stubPaymentService{
		intentFn: func(ctx context.Context, in ports.CheckoutInput) (string, error) {
			return "pi_secret_123", nil
		},
	}
	h := NewPaymentHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/stripe/create-payment-intent",
		strings.NewReader(`{"registrationType":"student_online","email":"ada@example.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreatePaymentIntent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"clientSecret":"pi_secret_123"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPaymentHandler_CreatePaymentIntent_GatewayErrorSurfaced(t *testing.T) {
	e := echo.New()
	stub := &stubPaymentService{
		intentFn: func(ctx context.Context, in ports.CheckoutInput) (string, error) {
			return "", errors.New("Your card was declined.")
		},
	}
	h := NewPaymentHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/stripe/create-payment-intent",
		strings.NewReader(`{"registrationType":"student_online"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = h.CreatePaymentIntent(c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Your card was declined.") {
		t.Fatalf("processor message must be surfaced: %s", rec.Body.String())
	}
}
