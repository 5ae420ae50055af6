package ports

import (
	"context"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
)

// CheckoutInput carries what the browser sends when starting a payment: the
// selected tier, the customer email, and the pending registration that will
// ride along in processor metadata until the webhook fires.
type CheckoutInput struct {
	RegistrationType domain.RegistrationType
	Email            string
	// RegistrationID names the intake row created under the immediate
	// persistence strategy; the webhook marks that row paid instead of
	// writing a new one. Empty under deferred.
	RegistrationID string
	Pending        *domain.PendingRegistration
}

// WebhookOutcome reports what the webhook handler did with an event.
type WebhookOutcome struct {
	EventType    string
	Persisted    bool
	RegistrantID string
}

type PaymentService interface {
	// CreateCheckoutSession starts a hosted checkout and returns its URL.
	CreateCheckoutSession(ctx context.Context, in CheckoutInput) (string, error)

	// CreatePaymentIntent creates a client-confirmable intent and returns
	// its client secret (wallet/express checkout path).
	CreatePaymentIntent(ctx context.Context, in CheckoutInput) (string, error)

	// HandleWebhook verifies and processes a processor callback.
	// domain.ErrInvalidSignature means the payload failed verification.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookOutcome, error)
}

// CheckoutSessionParams is the gateway-level request for a hosted checkout.
type CheckoutSessionParams struct {
	PriceID       string
	CustomerEmail string
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

// PaymentIntentParams is the gateway-level request for a payment intent.
type PaymentIntentParams struct {
	AmountCents   int64
	Currency      string
	ReceiptEmail  string
	Metadata      map[string]string
}

// PaymentEvent is a verified webhook event, reduced to the fields the
// application acts on.
type PaymentEvent struct {
	Type              string
	Metadata          map[string]string
	PaymentIntentID   string
	CheckoutSessionID string
}

// PaymentGateway abstracts the payment processor SDK so the service layer
// can be exercised with test doubles.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (url string, err error)
	CreatePaymentIntent(ctx context.Context, p PaymentIntentParams) (clientSecret string, err error)
	VerifyEvent(payload []byte, signature string) (*PaymentEvent, error)
}
