package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

// WebhookHandler receives the payment processor's asynchronous callbacks.
type WebhookHandler struct {
	service ports.PaymentService
}

func NewWebhookHandler(service ports.PaymentService) *WebhookHandler {
	return &WebhookHandler{service: service}
}

type webhookResponse struct {
	Received bool `json:"received"`
}

// Receive handles POST /api/stripe/webhook. The raw body is required for
// signature verification; anything unverifiable is rejected with 400 so the
// processor does not retry a condition retries cannot fix.
//
// @Summary      Payment processor webhook
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header    string  true  "Webhook signature"
// @Success      200               {object}  webhookResponse
// @Failure      400               {object}  map[string]string
// @Failure      500               {object}  map[string]string
// @Router       /api/stripe/webhook [post]
func (h *WebhookHandler) Receive(c echo.Context) error {
	signature := c.Request().Header.Get("Stripe-Signature")
	if signature == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing stripe-signature header"})
	}

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	if _, err := h.service.HandleWebhook(c.Request().Context(), payload, signature); err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid signature"})
		}
		// Non-2xx makes the processor redeliver; the upsert keyed on the
		// payment reference keeps the retry safe.
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save registration"})
	}

	return c.JSON(http.StatusOK, webhookResponse{Received: true})
}
