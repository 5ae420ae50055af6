// Package payment wraps the Stripe SDK behind the PaymentGateway port.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

// Gateway is the Stripe-backed payment processor client.
type Gateway struct {
	api           *client.API
	webhookSecret string
}

func NewGateway(secretKey, webhookSecret string) *Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Gateway{api: api, webhookSecret: webhookSecret}
}

// CreateCheckoutSession creates a hosted checkout session and returns its
// redirect URL.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, p ports.CheckoutSessionParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		AllowPromotionCodes: stripe.Bool(true),
		SuccessURL:          stripe.String(p.SuccessURL),
		CancelURL:           stripe.String(p.CancelURL),
	}
	params.Context = ctx
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", sdkError(err)
	}
	return sess.URL, nil
}

// CreatePaymentIntent creates a client-confirmable intent with automatic
// payment-method selection (enables wallet/express checkout) and returns
// its client secret.
func (g *Gateway) CreatePaymentIntent(ctx context.Context, p ports.PaymentIntentParams) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.AmountCents),
		Currency: stripe.String(p.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if p.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(p.ReceiptEmail)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", sdkError(err)
	}
	return intent.ClientSecret, nil
}

// VerifyEvent reconstructs the webhook event from the raw body and
// signature header, then reduces it to the fields the application acts on.
func (g *Gateway) VerifyEvent(payload []byte, signature string) (*ports.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook: %w", err)
	}

	out := &ports.PaymentEvent{Type: string(event.Type)}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("decode payment intent: %w", err)
		}
		out.Metadata = intent.Metadata
		out.PaymentIntentID = intent.ID

	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out.Metadata = sess.Metadata
		out.CheckoutSessionID = sess.ID
		if sess.PaymentIntent != nil {
			out.PaymentIntentID = sess.PaymentIntent.ID
		}
	}

	if out.Metadata == nil {
		out.Metadata = map[string]string{}
	}
	return out, nil
}

// sdkError surfaces Stripe's own message when one exists so the handler can
// pass it through.
func sdkError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return fmt.Errorf("%s", se.Msg)
	}
	return err
}
