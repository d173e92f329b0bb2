package domain

import (
	"fmt"
	"sort"
	"time"
)

// Deck-specific validation errors.
var (
	// ErrDeckNameEmpty is returned when a deck's name is empty.
	ErrDeckNameEmpty = fmt.Errorf("%w: deck name cannot be empty", ErrValidation)

	// ErrDeckUserIDEmpty is returned when a deck does not reference an owner.
	ErrDeckUserIDEmpty = fmt.Errorf("%w: deck user ID cannot be empty", ErrValidation)
)

// Deck represents a named collection of cards owned by a single user.
//
// The order of Cards is a presentation detail; the canonical review order
// is computed fresh from current review state (SortCardsForReview) and is
// never persisted.
type Deck struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Cards     []*Card   `json:"cards,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDeck creates a new Deck for the given user.
// The ID is left unset; the store assigns it on creation.
// Returns an error if validation fails.
func NewDeck(userID int64, name string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.UserID <= 0 {
		return ErrDeckUserIDEmpty
	}

	if d.Name == "" {
		return ErrDeckNameEmpty
	}

	return nil
}

// SortCardsForReview orders cards so that the worst-known surface first:
// review score ascending, then times reviewed ascending. The sort is
// stable, so cards tied on both keys keep their retrieval (insertion)
// order. The slice is sorted in place.
func SortCardsForReview(cards []*Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].ReviewScore != cards[j].ReviewScore {
			return cards[i].ReviewScore < cards[j].ReviewScore
		}
		return cards[i].TimesReviewed < cards[j].TimesReviewed
	})
}
