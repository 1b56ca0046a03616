package repositories

import (
	"context"

	"github.com/mcamargo/studentcard/internal/app/models"
)

// CardRepository is the authoritative store for card records. Backing
// implementations (in-memory map, Postgres) are swappable without
// affecting callers.
//
// Absence is a normal outcome: lookups return apperrors.ErrCardNotFound
// and Delete reports false for unknown ids; neither is a storage failure.
type CardRepository interface {
	// Create persists a new card. The store assigns ID and CreatedAt, and
	// generates VerificationID when the caller left it empty.
	Create(ctx context.Context, card *models.Card) error

	// GetByID retrieves a card by its internal id.
	GetByID(ctx context.Context, id int64) (*models.Card, error)

	// GetByVerificationID retrieves a card by its public lookup token.
	GetByVerificationID(ctx context.Context, verificationID string) (*models.Card, error)

	// List returns cards matching the filter, ordered by creation time
	// descending, paginated. A page beyond range yields an empty page.
	List(ctx context.Context, filter models.CardFilter) (*models.CardPage, error)

	// Delete removes a card permanently. Reports whether a card existed.
	Delete(ctx context.Context, id int64) (bool, error)
}
