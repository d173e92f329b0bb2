package store

import (
	"context"
	"database/sql"

	"github.com/deckard-app/deckard-api/internal/domain"
)

// CardUpdate describes a partial update of a card. Nil fields are left
// unchanged. This contract is load-bearing: the review flow updates only
// the two counters while the edit flow updates only the content fields,
// and neither may clobber the other's columns.
type CardUpdate struct {
	Front         *string
	Back          *string
	TimesReviewed *int
	ReviewScore   *int
}

// IsEmpty reports whether the update specifies no fields.
func (u CardUpdate) IsEmpty() bool {
	return u.Front == nil && u.Back == nil && u.TimesReviewed == nil && u.ReviewScore == nil
}

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card to the store and assigns its ID.
	// New cards start with times_reviewed=0 and review_score=0.
	// Returns ErrDeckNotFound if the owning deck does not exist; no row
	// is created in that case.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Card, error)

	// Update applies a partial update to an existing card. Only the
	// non-nil fields of the update are written; all other columns are
	// left untouched. The write is atomic: it either fully applies or
	// not at all.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, id int64, update CardUpdate) error

	// Delete removes a card from the store by its ID.
	// Policy: deleting an absent card is an error, not a no-op —
	// returns ErrCardNotFound so the caller learns the id was stale.
	Delete(ctx context.Context, id int64) error

	// ListForDeck retrieves the deck's cards in review-priority order
	// (review score ascending, then times reviewed ascending, then
	// insertion order). Returns an empty slice for an empty deck.
	ListForDeck(ctx context.Context, deckID int64) ([]*domain.Card, error)

	// WithTx returns a new CardStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) CardStore
}
