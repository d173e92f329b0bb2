package api

import (
	"time"

	"github.com/deckard-app/deckard-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID int64  `json:"user_id"`
	Token  string `json:"token"`
}

// UserResponse is the JSON shape for the authenticated user's own account.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateDeckRequest defines the payload for deck creation.
type CreateDeckRequest struct {
	Name string `json:"name" validate:"required"`
}

// DeckResponse is the JSON shape for a deck, with its cards in review
// priority order when they were loaded.
type DeckResponse struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Cards     []CardResponse `json:"cards,omitempty"`
	CardCount int            `json:"card_count"`
	CreatedAt time.Time      `json:"created_at"`
}

// CreateCardRequest defines the payload for card creation.
type CreateCardRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back"  validate:"required"`
}

// UpdateCardRequest defines the payload for a partial card edit. Omitted
// fields are left unchanged; review counters are not editable here.
type UpdateCardRequest struct {
	Front *string `json:"front,omitempty"`
	Back  *string `json:"back,omitempty"`
}

// CardResponse is the JSON shape for a card.
type CardResponse struct {
	ID            int64  `json:"id"`
	DeckID        int64  `json:"deck_id"`
	Front         string `json:"front"`
	Back          string `json:"back,omitempty"`
	TimesReviewed int    `json:"times_reviewed"`
	ReviewScore   int    `json:"review_score"`
}

// ImportRequest defines the payload for the deck import endpoint.
type ImportRequest struct {
	Source string `json:"source" validate:"required"`
}

// GradeRequest defines the payload for grading the current session card.
type GradeRequest struct {
	Grade string `json:"grade" validate:"required"`
}

func cardToResponse(card *domain.Card, includeBack bool) CardResponse {
	resp := CardResponse{
		ID:            card.ID,
		DeckID:        card.DeckID,
		Front:         card.Front,
		TimesReviewed: card.TimesReviewed,
		ReviewScore:   card.ReviewScore,
	}
	if includeBack {
		resp.Back = card.Back
	}
	return resp
}

func deckToResponse(deck *domain.Deck) DeckResponse {
	cards := make([]CardResponse, 0, len(deck.Cards))
	for _, card := range deck.Cards {
		cards = append(cards, cardToResponse(card, true))
	}
	return DeckResponse{
		ID:        deck.ID,
		Name:      deck.Name,
		Cards:     cards,
		CardCount: len(cards),
		CreatedAt: deck.CreatedAt,
	}
}
