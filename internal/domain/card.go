package domain

import (
	"fmt"
	"time"
)

// Card-specific validation errors.
var (
	// ErrCardFrontEmpty is returned when a card's front text is empty.
	ErrCardFrontEmpty = fmt.Errorf("%w: card front cannot be empty", ErrValidation)

	// ErrCardBackEmpty is returned when a card's back text is empty.
	ErrCardBackEmpty = fmt.Errorf("%w: card back cannot be empty", ErrValidation)

	// ErrCardDeckIDEmpty is returned when a card does not reference a deck.
	ErrCardDeckIDEmpty = fmt.Errorf("%w: card deck ID cannot be empty", ErrValidation)

	// ErrCardNegativeReviews is returned when a card's review counter is negative.
	ErrCardNegativeReviews = fmt.Errorf("%w: times reviewed cannot be negative", ErrValidation)
)

// Card represents a single front/back flashcard belonging to a deck.
//
// ID is assigned by the store when the card is created; in-memory cards
// never assign their own identity. TimesReviewed and ReviewScore are
// mutated only by Review (or an explicit administrative update through
// the store) and are never decremented independently.
type Card struct {
	ID            int64     `json:"id"`
	DeckID        int64     `json:"deck_id"`
	Front         string    `json:"front"`
	Back          string    `json:"back"`
	TimesReviewed int       `json:"times_reviewed"`
	ReviewScore   int       `json:"review_score"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewCard creates a new Card for the given deck with zeroed review state.
// The ID is left unset; the store assigns it on creation.
// Returns an error if validation fails.
func NewCard(deckID int64, front, back string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		DeckID:    deckID,
		Front:     front,
		Back:      back,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.DeckID <= 0 {
		return ErrCardDeckIDEmpty
	}

	if c.Front == "" {
		return ErrCardFrontEmpty
	}

	if c.Back == "" {
		return ErrCardBackEmpty
	}

	if c.TimesReviewed < 0 {
		return ErrCardNegativeReviews
	}

	return nil
}

// Review applies a single review outcome to the card: TimesReviewed is
// incremented by one and the grade's delta is added to ReviewScore.
// Front and back content is untouched. The operation is deliberately not
// idempotent; reviewing twice is two distinct reviews.
//
// The grade must already be validated at the input boundary (ParseGrade);
// Review itself has no failure modes.
func (c *Card) Review(grade Grade) {
	c.TimesReviewed++
	c.ReviewScore += grade.Delta()
	c.UpdatedAt = time.Now().UTC()
}

// UpdateContent replaces the card's front and back text, leaving the
// review counters untouched. Returns an error if the new content is invalid.
func (c *Card) UpdateContent(front, back string) error {
	if front == "" {
		return ErrCardFrontEmpty
	}
	if back == "" {
		return ErrCardBackEmpty
	}

	c.Front = front
	c.Back = back
	c.UpdatedAt = time.Now().UTC()
	return nil
}
