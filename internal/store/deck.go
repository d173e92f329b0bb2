package store

import (
	"context"
	"database/sql"

	"github.com/deckard-app/deckard-api/internal/domain"
)

// DeckStore defines the interface for deck data persistence.
type DeckStore interface {
	// Create saves a new deck to the store and assigns its ID.
	// Returns ErrUserNotFound if the owning user does not exist.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID, without its cards.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Deck, error)

	// ListForUser retrieves all decks owned by the given user, each with
	// its cards eagerly loaded in review-priority order (review score
	// ascending, then times reviewed ascending, then insertion order).
	// This is the one read path the review flow depends on. The order is
	// computed fresh on every call and never persisted.
	// Returns an empty slice when the user owns no decks.
	ListForUser(ctx context.Context, userID int64) ([]*domain.Deck, error)

	// Delete removes a deck from the store by its ID.
	// The deck's cards are removed with it (ON DELETE CASCADE).
	// Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new DeckStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) DeckStore
}
