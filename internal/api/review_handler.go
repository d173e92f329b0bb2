package api

import (
	"net/http"

	"github.com/deckard-app/deckard-api/internal/api/shared"
	"github.com/deckard-app/deckard-api/internal/domain"
	"github.com/deckard-app/deckard-api/internal/service/review"
)

// ReviewHandler drives review sessions over the API: starting a pass,
// presenting the current card, revealing its answer, and collecting grades.
type ReviewHandler struct {
	sessions review.SessionService
}

// NewReviewHandler creates a new ReviewHandler with the given dependencies.
func NewReviewHandler(sessions review.SessionService) *ReviewHandler {
	return &ReviewHandler{sessions: sessions}
}

// StartSession handles POST /decks/{deckID}/sessions.
func (h *ReviewHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathID(w, r, "deckID")
	if !ok {
		return
	}

	progress, err := h.sessions.Start(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, progress)
}

// CurrentCard handles GET /sessions/{sessionID}/card. Only the front is
// returned; the caller asks for the answer separately.
func (h *ReviewHandler) CurrentCard(w http.ResponseWriter, r *http.Request) {
	h.respondWithCurrentCard(w, r, false)
}

// CurrentCardAnswer handles GET /sessions/{sessionID}/card/answer, revealing
// the back of the current card.
func (h *ReviewHandler) CurrentCardAnswer(w http.ResponseWriter, r *http.Request) {
	h.respondWithCurrentCard(w, r, true)
}

func (h *ReviewHandler) respondWithCurrentCard(
	w http.ResponseWriter,
	r *http.Request,
	includeBack bool,
) {
	userID, sessionID, ok := requireUserAndPathID(w, r, "sessionID")
	if !ok {
		return
	}

	card, progress, err := h.sessions.CurrentCard(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, struct {
		Card     CardResponse     `json:"card"`
		Progress *review.Progress `json:"progress"`
	}{
		Card:     cardToResponse(card, includeBack),
		Progress: progress,
	})
}

// SubmitGrade handles POST /sessions/{sessionID}/grade.
func (h *ReviewHandler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := requireUserAndPathID(w, r, "sessionID")
	if !ok {
		return
	}

	var req GradeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	// The boundary parses; the session only ever sees valid grades.
	grade, err := domain.ParseGrade(req.Grade)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	progress, err := h.sessions.SubmitGrade(r.Context(), userID, sessionID, grade)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}

// SessionSummary handles GET /sessions/{sessionID}.
func (h *ReviewHandler) SessionSummary(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := requireUserAndPathID(w, r, "sessionID")
	if !ok {
		return
	}

	progress, err := h.sessions.Summary(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}
