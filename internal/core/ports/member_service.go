package ports

import (
	"context"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
)

type MemberService interface {
	// Login verifies email+password against a paid registrant and returns
	// a signed session token plus the sanitized member projection.
	Login(ctx context.Context, email, password string) (string, *domain.MemberProfile, error)

	// SetPassword stores the credential hash for a paid registrant. A
	// one-time operation: domain.ErrPasswordAlreadySet on repeats.
	SetPassword(ctx context.Context, email, password string) error

	// Verify validates a session token and re-checks that its subject is
	// still a paid registrant.
	Verify(ctx context.Context, token string) (*domain.MemberProfile, error)
}
