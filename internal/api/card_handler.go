package api

import (
	"errors"
	"net/http"

	"github.com/deckard-app/deckard-api/internal/api/shared"
	"github.com/deckard-app/deckard-api/internal/domain"
	"github.com/deckard-app/deckard-api/internal/store"
)

// CardHandler handles card management API requests.
type CardHandler struct {
	cardStore store.CardStore
	deckStore store.DeckStore
}

// NewCardHandler creates a new CardHandler with the given dependencies.
func NewCardHandler(cardStore store.CardStore, deckStore store.DeckStore) *CardHandler {
	return &CardHandler{
		cardStore: cardStore,
		deckStore: deckStore,
	}
}

// CreateCard handles POST /decks/{deckID}/cards. New cards start with zero
// review counters.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathID(w, r, "deckID")
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if !h.requireDeckOwnership(w, r, userID, deckID) {
		return
	}

	card, err := domain.NewCard(deckID, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := h.cardStore.Create(r.Context(), card); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card, true))
}

// UpdateCard handles PUT /cards/{cardID}. Only front and back are editable;
// the review counters belong to the review flow and are left untouched.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := requireUserAndPathID(w, r, "cardID")
	if !ok {
		return
	}

	var req UpdateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Front == nil && req.Back == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No fields to update")
		return
	}
	if (req.Front != nil && *req.Front == "") || (req.Back != nil && *req.Back == "") {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Card fields cannot be empty")
		return
	}

	card, ok := h.requireCardOwnership(w, r, userID, cardID)
	if !ok {
		return
	}

	update := store.CardUpdate{Front: req.Front, Back: req.Back}
	if err := h.cardStore.Update(r.Context(), cardID, update); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if req.Front != nil {
		card.Front = *req.Front
	}
	if req.Back != nil {
		card.Back = *req.Back
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card, true))
}

// DeleteCard handles DELETE /cards/{cardID}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := requireUserAndPathID(w, r, "cardID")
	if !ok {
		return
	}

	if _, ok := h.requireCardOwnership(w, r, userID, cardID); !ok {
		return
	}

	if err := h.cardStore.Delete(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CardHandler) requireDeckOwnership(
	w http.ResponseWriter,
	r *http.Request,
	userID, deckID int64,
) bool {
	deck, err := h.deckStore.GetByID(r.Context(), deckID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Deck not found")
		} else {
			HandleAPIError(w, r, err, "")
		}
		return false
	}
	if deck.UserID != userID {
		shared.RespondWithError(w, r, http.StatusForbidden, "You do not own this deck")
		return false
	}
	return true
}

// requireCardOwnership resolves the card and walks up to its deck to check
// the caller owns it.
func (h *CardHandler) requireCardOwnership(
	w http.ResponseWriter,
	r *http.Request,
	userID, cardID int64,
) (*domain.Card, bool) {
	card, err := h.cardStore.GetByID(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Card not found")
		} else {
			HandleAPIError(w, r, err, "")
		}
		return nil, false
	}

	if !h.requireDeckOwnership(w, r, userID, card.DeckID) {
		return nil, false
	}
	return card, true
}
