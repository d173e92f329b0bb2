package domain

import (
	"fmt"
	"time"
)

// ReviewSession validation errors.
var (
	// ErrSessionUserIDEmpty is returned when a session does not reference a user.
	ErrSessionUserIDEmpty = fmt.Errorf("%w: session user ID cannot be empty", ErrValidation)

	// ErrSessionDeckIDEmpty is returned when a session does not reference a deck.
	ErrSessionDeckIDEmpty = fmt.Errorf("%w: session deck ID cannot be empty", ErrValidation)
)

// ReviewSession is the persisted record of one review pass over a deck.
// It exists for audit and history; the live pass itself is driven by the
// review service, which stamps CompletedAt and CardsReviewed when the
// pass finishes.
type ReviewSession struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	DeckID        int64      `json:"deck_id"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CardsReviewed int        `json:"cards_reviewed"`
}

// NewReviewSession creates a session record for the given user and deck.
// The ID is left unset; the store assigns it on creation.
func NewReviewSession(userID, deckID int64) (*ReviewSession, error) {
	session := &ReviewSession{
		UserID:    userID,
		DeckID:    deckID,
		StartedAt: time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the ReviewSession has valid data.
func (s *ReviewSession) Validate() error {
	if s.UserID <= 0 {
		return ErrSessionUserIDEmpty
	}

	if s.DeckID <= 0 {
		return ErrSessionDeckIDEmpty
	}

	return nil
}

// Completed reports whether the session has finished its pass.
func (s *ReviewSession) Completed() bool {
	return s.CompletedAt != nil
}
