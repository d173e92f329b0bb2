package api

import (
	"errors"
	"net/http"

	"github.com/deckard-app/deckard-api/internal/api/shared"
	"github.com/deckard-app/deckard-api/internal/domain"
	"github.com/deckard-app/deckard-api/internal/importer"
	"github.com/deckard-app/deckard-api/internal/store"
)

// DeckHandler handles deck management API requests.
type DeckHandler struct {
	deckStore store.DeckStore
	importer  *importer.Importer
}

// NewDeckHandler creates a new DeckHandler with the given dependencies.
func NewDeckHandler(deckStore store.DeckStore, imp *importer.Importer) *DeckHandler {
	return &DeckHandler{
		deckStore: deckStore,
		importer:  imp,
	}
}

// CreateDeck handles POST /decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	deck, err := domain.NewDeck(userID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := h.deckStore.Create(r.Context(), deck); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, deckToResponse(deck))
}

// ListDecks handles GET /decks. Each deck's cards come back in review
// priority order.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	decks, err := h.deckStore.ListForUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list decks")
		return
	}

	responses := make([]DeckResponse, 0, len(decks))
	for _, deck := range decks {
		responses = append(responses, deckToResponse(deck))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// DeleteDeck handles DELETE /decks/{deckID}. The deck's cards go with it.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathID(w, r, "deckID")
	if !ok {
		return
	}

	if !h.requireOwnership(w, r, userID, deckID) {
		return
	}

	if err := h.deckStore.Delete(r.Context(), deckID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportDeck handles POST /decks/{deckID}/import. The source may be a
// server-local path or a git URL.
func (h *DeckHandler) ImportDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathID(w, r, "deckID")
	if !ok {
		return
	}

	var req ImportRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.importer.ImportInto(r.Context(), userID, deckID, req.Source)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// requireOwnership loads the deck and checks the caller owns it, writing an
// error response when not. Not-found and not-owned are reported distinctly;
// deck IDs carry no secrets here.
func (h *DeckHandler) requireOwnership(
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
