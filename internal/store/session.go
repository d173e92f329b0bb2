package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/deckard-app/deckard-api/internal/domain"
)

// SessionStore defines the interface for review-session persistence.
// Session rows are an audit trail; the live pass is driven by the review
// service.
type SessionStore interface {
	// Create saves a new session record and assigns its ID.
	// Returns ErrUserNotFound or ErrDeckNotFound if a referenced entity
	// does not exist.
	Create(ctx context.Context, session *domain.ReviewSession) error

	// GetByID retrieves a session record by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id int64) (*domain.ReviewSession, error)

	// Complete stamps the session as finished with the number of cards
	// reviewed during the pass.
	// Returns ErrSessionNotFound if the session does not exist.
	Complete(ctx context.Context, id int64, cardsReviewed int, completedAt time.Time) error

	// WithTx returns a new SessionStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) SessionStore
}
