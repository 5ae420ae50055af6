package ports

import (
	"context"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
)

// PersistenceStrategy selects when a registration row is written: at form
// submission, or deferred until the payment webhook fires.
type PersistenceStrategy string

const (
	PersistImmediate PersistenceStrategy = "immediate"
	PersistDeferred  PersistenceStrategy = "deferred"
)

// RegistrationInput is the intake payload from the registration form.
type RegistrationInput struct {
	FirstName          string
	LastName           string
	Email              string
	Designation        string
	Location           string
	RegistrationType   string
	ProjectTitle       string
	ProjectDescription string
	PosterURL          string
	WantsQDCMembership bool
	AgreeToTerms       bool
}

// RegistrationResult reports the outcome of an intake submission.
type RegistrationResult struct {
	ID       string
	Deferred bool
}

type RegistrationService interface {
	// Submit validates the payload and, under the immediate strategy,
	// persists it. Validation failures are *domain.ValidationError.
	Submit(ctx context.Context, in RegistrationInput) (*RegistrationResult, error)

	// List returns stored registrations for the admin endpoint.
	List(ctx context.Context, membersOnly bool) ([]domain.Registrant, error)
}
