package ports

import (
	"context"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
)

// RegistrantRepository is the persistence interface for registrant rows.
type RegistrantRepository interface {
	// Insert creates a new registrant row and returns it with its
	// generated id.
	Insert(ctx context.Context, r *domain.Registrant) (*domain.Registrant, error)

	// List returns registrants newest first. When membersOnly is true only
	// rows with the QDC membership flag are returned.
	List(ctx context.Context, membersOnly bool) ([]domain.Registrant, error)

	// FindPaidByEmail looks up a registrant by lowercased email with
	// payment status paid. Returns domain.ErrRegistrantNotFound when no
	// such row exists.
	FindPaidByEmail(ctx context.Context, email string) (*domain.Registrant, error)

	// SetPasswordHash stores the credential hash for an existing row.
	SetPasswordHash(ctx context.Context, id, hash string) error

	// UpsertPaidByReference inserts or updates a paid registrant. When the
	// registrant carries a row id the existing intake row is updated; else
	// the write is keyed on the payment-processor reference id (payment
	// intent id, falling back to the checkout session id). Either way,
	// webhook replays never duplicate rows.
	UpsertPaidByReference(ctx context.Context, r *domain.Registrant) (*domain.Registrant, error)
}
