package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

// PaymentHandler handles the two payment initiation endpoints.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type checkoutRequest struct {
	RegistrationType string `json:"registrationType"`
	Email            string `json:"email"`
	// RegistrationID is the id returned by the intake endpoint when rows
	// are written at submission time; the webhook marks that row paid.
	RegistrationID   string               `json:"registrationId"`
	RegistrationData *registrationRequest `json:"registrationData"`
}

func (r checkoutRequest) toInput() ports.CheckoutInput {
	in := ports.CheckoutInput{
		RegistrationType: domain.RegistrationType(r.RegistrationType),
		Email:            r.Email,
		RegistrationID:   r.RegistrationID,
	}
	if r.RegistrationData != nil {
		in.Pending = r.RegistrationData.toPending()
	}
	return in
}

type checkoutResponse struct {
	URL string `json:"url"`
}

type paymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// CreateCheckout handles POST /api/stripe/checkout — hosted checkout.
//
// @Summary      Create a hosted checkout session
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      checkoutRequest  true  "Tier, email, and registration payload"
// @Success      200   {object}  checkoutResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/stripe/checkout [post]
func (h *PaymentHandler) CreateCheckout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	url, err := h.service.CreateCheckoutSession(c.Request().Context(), req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrUnknownTier) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing price id for registration type"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create checkout session"})
	}

	return c.JSON(http.StatusOK, checkoutResponse{URL: url})
}

// CreatePaymentIntent handles POST /api/stripe/create-payment-intent —
// the wallet/express checkout path.
//
// @Summary      Create a payment intent
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      checkoutRequest  true  "Tier, email, and registration payload"
// @Success      200   {object}  paymentIntentResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/stripe/create-payment-intent [post]
func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	secret, err := h.service.CreatePaymentIntent(c.Request().Context(), req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrUnknownTier) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing registration type"})
		}
		msg := err.Error()
		if msg == "" {
			msg = "Failed to create payment intent"
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": msg})
	}

	return c.JSON(http.StatusOK, paymentIntentResponse{ClientSecret: secret})
}
