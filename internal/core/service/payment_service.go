package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/qdconsortium/qdw-api/internal/api/metrics"
	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

const (
	eventPaymentIntentSucceeded = "payment_intent.succeeded"
	eventCheckoutCompleted      = "checkout.session.completed"

	successPath = "/qdw/2026/payment/success?session_id={CHECKOUT_SESSION_ID}"
	cancelPath  = "/qdw/2026/payment/cancel"
)

// PriceTable maps registration tiers to the processor's preconfigured price
// references (hosted checkout path).
type PriceTable map[domain.RegistrationType]string

// PaymentService creates checkouts/intents with the pending registration
// packed into processor metadata, and turns success webhooks into paid
// registrant rows.
type PaymentService struct {
	gateway ports.PaymentGateway
	repo    ports.RegistrantRepository
	prices  PriceTable
	baseURL string
	log     zerolog.Logger
}

func NewPaymentService(gateway ports.PaymentGateway, repo ports.RegistrantRepository, prices PriceTable, baseURL string, log zerolog.Logger) *PaymentService {
	return &PaymentService{
		gateway: gateway,
		repo:    repo,
		prices:  prices,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		log:     log,
	}
}

// CreateCheckoutSession starts a hosted checkout for the tier's configured
// price and returns the redirect URL.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, in ports.CheckoutInput) (string, error) {
	priceID := s.prices[in.RegistrationType]
	if priceID == "" {
		return "", domain.ErrUnknownTier
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, ports.CheckoutSessionParams{
		PriceID:       priceID,
		CustomerEmail: in.Email,
		Metadata:      packMetadata(in),
		SuccessURL:    s.baseURL + successPath,
		CancelURL:     s.baseURL + cancelPath,
	})
	if err != nil {
		// Returned unwrapped: the handler surfaces the SDK's own message.
		s.log.Error().Err(err).Str("registration_type", string(in.RegistrationType)).Msg("failed to create checkout session")
		return "", err
	}

	metrics.CheckoutsCreatedTotal.WithLabelValues("checkout_session").Inc()
	return url, nil
}

// CreatePaymentIntent creates a client-confirmable intent with the tier's
// fixed amount and returns its client secret.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, in ports.CheckoutInput) (string, error) {
	amount, ok := in.RegistrationType.AmountCents()
	if !ok {
		return "", domain.ErrUnknownTier
	}

	secret, err := s.gateway.CreatePaymentIntent(ctx, ports.PaymentIntentParams{
		AmountCents:  amount,
		Currency:     "usd",
		ReceiptEmail: in.Email,
		Metadata:     packMetadata(in),
	})
	if err != nil {
		s.log.Error().Err(err).Str("registration_type", string(in.RegistrationType)).Msg("failed to create payment intent")
		return "", err
	}

	metrics.CheckoutsCreatedTotal.WithLabelValues("payment_intent").Inc()
	return secret, nil
}

// HandleWebhook verifies the delivery and, for success events, upserts the
// paid registrant from the metadata captured at checkout time. The upsert is
// keyed on the processor reference id, so replays update instead of
// duplicating.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*ports.WebhookOutcome, error) {
	event, err := s.gateway.VerifyEvent(payload, signature)
	if err != nil {
		return nil, domain.ErrInvalidSignature
	}

	outcome := &ports.WebhookOutcome{EventType: event.Type}

	switch event.Type {
	case eventPaymentIntentSucceeded, eventCheckoutCompleted:
		// fall through to persistence below
	default:
		s.log.Debug().Str("type", event.Type).Msg("unhandled webhook event type")
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "ignored").Inc()
		return outcome, nil
	}

	pending := domain.PendingFromMetadata(event.Metadata)
	if !pending.Complete() {
		s.log.Warn().
			Str("type", event.Type).
			Str("payment_intent_id", event.PaymentIntentID).
			Msg("webhook metadata missing registration fields, nothing persisted")
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "incomplete_metadata").Inc()
		return outcome, nil
	}

	reg, err := s.registrantFromPending(pending, event)
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "error").Inc()
		return nil, err
	}

	saved, err := s.repo.UpsertPaidByReference(ctx, reg)
	if err != nil {
		s.log.Error().Err(err).Str("payment_intent_id", event.PaymentIntentID).Msg("failed to persist paid registration")
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "error").Inc()
		return nil, fmt.Errorf("persist paid registration: %w", err)
	}

	s.log.Info().
		Str("id", saved.ID).
		Str("email", saved.Email).
		Str("payment_intent_id", event.PaymentIntentID).
		Msg("registration saved and marked paid")
	metrics.WebhookEventsTotal.WithLabelValues(event.Type, "persisted").Inc()

	outcome.Persisted = true
	outcome.RegistrantID = saved.ID
	return outcome, nil
}

func (s *PaymentService) registrantFromPending(pending domain.PendingRegistration, event *ports.PaymentEvent) (*domain.Registrant, error) {
	now := time.Now().UTC()
	reg := &domain.Registrant{
		// Non-empty under the immediate strategy: the repository then
		// updates the intake row instead of inserting a second one.
		ID:                 pending.RegistrationID,
		FirstName:          pending.FirstName,
		LastName:           pending.LastName,
		Email:              strings.ToLower(pending.Email),
		Designation:        pending.Designation,
		Location:           pending.Location,
		RegistrationType:   domain.RegistrationType(pending.RegistrationType),
		ProjectTitle:       pending.ProjectTitle,
		ProjectDescription: pending.ProjectDescription,
		PosterURL:          pending.PosterURL,
		WantsQDCMembership: pending.WantsQDCMembership,
		AgreeToTerms:       pending.AgreeToTerms,
		PaymentStatus:      domain.PaymentPaid,
		PaymentIntentID:    event.PaymentIntentID,
		CheckoutSessionID:  event.CheckoutSessionID,
		CreatedAt:          now,
		PaidAt:             &now,
	}

	// A password supplied at registration time rides through metadata and
	// is hashed here, sparing the member the separate set-password step.
	if pending.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(pending.Password), passwordHashCost)
		if err != nil {
			return nil, err
		}
		reg.PasswordHash = string(hash)
	}

	return reg, nil
}

// packMetadata serializes the pending registration for processor metadata.
// With no pending payload (payment initiated without form data) only the
// tier and email are recorded.
func packMetadata(in ports.CheckoutInput) map[string]string {
	if in.Pending == nil {
		meta := map[string]string{
			"registrationType": string(in.RegistrationType),
			"email":            in.Email,
		}
		if in.RegistrationID != "" {
			meta["registrationId"] = in.RegistrationID
		}
		return meta
	}
	p := *in.Pending
	if p.RegistrationType == "" {
		p.RegistrationType = string(in.RegistrationType)
	}
	if p.Email == "" {
		p.Email = in.Email
	}
	if p.RegistrationID == "" {
		p.RegistrationID = in.RegistrationID
	}
	return p.Metadata()
}
