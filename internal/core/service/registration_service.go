package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/qdconsortium/qdw-api/internal/api/metrics"
	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

// RegistrationService implements intake validation and the configured
// persistence strategy.
type RegistrationService struct {
	repo     ports.RegistrantRepository
	strategy ports.PersistenceStrategy
	log      zerolog.Logger
}

func NewRegistrationService(repo ports.RegistrantRepository, strategy ports.PersistenceStrategy, log zerolog.Logger) *RegistrationService {
	if strategy != ports.PersistImmediate {
		strategy = ports.PersistDeferred
	}
	return &RegistrationService{repo: repo, strategy: strategy, log: log}
}

// Submit validates the payload. Under the immediate strategy the row is
// written at once with payment status unpaid; under the deferred strategy
// nothing is persisted until the payment webhook fires.
func (s *RegistrationService) Submit(ctx context.Context, in ports.RegistrationInput) (*ports.RegistrationResult, error) {
	if err := validateIntake(in); err != nil {
		return nil, err
	}

	if s.strategy == ports.PersistDeferred {
		metrics.RegistrationsTotal.WithLabelValues(string(ports.PersistDeferred)).Inc()
		return &ports.RegistrationResult{Deferred: true}, nil
	}

	reg := &domain.Registrant{
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		Email:              strings.ToLower(in.Email),
		Designation:        in.Designation,
		Location:           in.Location,
		RegistrationType:   domain.RegistrationType(in.RegistrationType),
		ProjectTitle:       in.ProjectTitle,
		ProjectDescription: in.ProjectDescription,
		PosterURL:          in.PosterURL,
		WantsQDCMembership: in.WantsQDCMembership,
		AgreeToTerms:       in.AgreeToTerms,
		PaymentStatus:      domain.PaymentUnpaid,
		CreatedAt:          time.Now().UTC(),
	}

	created, err := s.repo.Insert(ctx, reg)
	if err != nil {
		s.log.Error().Err(err).Str("email", reg.Email).Msg("failed to save registration")
		return nil, fmt.Errorf("save registration: %w", err)
	}

	s.log.Info().Str("id", created.ID).Str("email", created.Email).Msg("registration created")
	metrics.RegistrationsTotal.WithLabelValues(string(ports.PersistImmediate)).Inc()

	return &ports.RegistrationResult{ID: created.ID}, nil
}

// List returns stored registrations, newest first.
func (s *RegistrationService) List(ctx context.Context, membersOnly bool) ([]domain.Registrant, error) {
	return s.repo.List(ctx, membersOnly)
}

// validateIntake enforces the intake contract: the four required fields plus
// terms agreement. Field names in messages match the form's JSON keys.
func validateIntake(in ports.RegistrationInput) error {
	required := []struct {
		name  string
		value string
	}{
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"email", in.Email},
		{"registrationType", in.RegistrationType},
	}
	for _, f := range required {
		if f.value == "" {
			return domain.NewValidationError("Missing required field: " + f.name)
		}
	}
	if !in.AgreeToTerms {
		return domain.NewValidationError("You must agree to the Terms & Conditions")
	}
	return nil
}
