package review

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/deckard-app/deckard-api/internal/domain"
	"github.com/deckard-app/deckard-api/internal/platform/logger"
	"github.com/deckard-app/deckard-api/internal/store"
)

// Verify interface compliance at compile time
var _ SessionService = (*sessionServiceImpl)(nil)

// activeSession is the in-process state of one review pass. The card order is
// fixed at Start; pos points at the next ungraded card.
type activeSession struct {
	mu      sync.Mutex
	session *domain.ReviewSession
	cards   []*domain.Card
	pos     int
	results []CardResult
}

func (a *activeSession) state() SessionState {
	if a.session.Completed() {
		return StateCompleted
	}
	return StateInProgress
}

func (a *activeSession) progress() *Progress {
	failed := 0
	for _, r := range a.results {
		if r.SaveError != "" {
			failed++
		}
	}
	results := make([]CardResult, len(a.results))
	copy(results, a.results)

	return &Progress{
		SessionID:     a.session.ID,
		DeckID:        a.session.DeckID,
		State:         a.state(),
		Position:      a.pos,
		TotalCards:    len(a.cards),
		Results:       results,
		StartedAt:     a.session.StartedAt,
		CompletedAt:   a.session.CompletedAt,
		FailedSaves:   failed,
		CardsReviewed: a.session.CardsReviewed,
	}
}

// maxCompletedSessions bounds how many finished sessions stay readable
// through Summary. Beyond the cap the oldest completed sessions are dropped
// from the registry; in-progress sessions are never evicted.
const maxCompletedSessions = 128

// sessionServiceImpl implements the SessionService interface. Sessions live in
// an in-process registry; user think-time between cards never holds a
// database transaction open.
type sessionServiceImpl struct {
	deckStore    store.DeckStore
	cardStore    store.CardStore
	sessionStore store.SessionStore
	logger       *slog.Logger
	timeFunc     func() time.Time // Injectable for testing

	mu        sync.Mutex
	sessions  map[int64]*activeSession
	completed []int64 // finished session IDs, oldest first
}

// NewSessionService creates a new SessionService implementation.
func NewSessionService(
	deckStore store.DeckStore,
	cardStore store.CardStore,
	sessionStore store.SessionStore,
	logger *slog.Logger,
) SessionService {
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if sessionStore == nil {
		panic("sessionStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &sessionServiceImpl{
		deckStore:    deckStore,
		cardStore:    cardStore,
		sessionStore: sessionStore,
		logger:       logger.With(slog.String("component", "review_service")),
		timeFunc:     time.Now,
		sessions:     make(map[int64]*activeSession),
	}
}

// Start implements SessionService.Start.
func (s *sessionServiceImpl) Start(ctx context.Context, userID, deckID int64) (*Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		log.Warn("failed to load deck for review",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, err
	}
	if deck.UserID != userID {
		log.Warn("deck not owned by user",
			slog.Int64("user_id", userID),
			slog.Int64("deck_id", deckID),
			slog.Int64("owner_id", deck.UserID))
		return nil, ErrDeckNotOwned
	}

	// Priority order comes from the store; it stays fixed for the whole
	// pass even as grading changes the scores underneath it.
	cards, err := s.cardStore.ListForDeck(ctx, deckID)
	if err != nil {
		return nil, &ServiceError{
			Operation: "start",
			Message:   "failed to load deck cards",
			Err:       err,
		}
	}

	session, err := domain.NewReviewSession(userID, deckID)
	if err != nil {
		return nil, &ServiceError{Operation: "start", Message: "invalid session", Err: err}
	}
	if err := s.sessionStore.Create(ctx, session); err != nil {
		return nil, &ServiceError{
			Operation: "start",
			Message:   "failed to record session",
			Err:       err,
		}
	}

	active := &activeSession{
		session: session,
		cards:   cards,
		results: make([]CardResult, 0, len(cards)),
	}

	// An empty deck has nothing to review: the session completes at once.
	if len(cards) == 0 {
		s.complete(ctx, log, active)
	}

	s.mu.Lock()
	s.sessions[session.ID] = active
	s.mu.Unlock()

	if active.session.Completed() {
		s.retire(session.ID)
	}

	log.Info("review session started",
		slog.Int64("session_id", session.ID),
		slog.Int64("deck_id", deckID),
		slog.Int("total_cards", len(cards)))

	return active.progress(), nil
}

// CurrentCard implements SessionService.CurrentCard.
func (s *sessionServiceImpl) CurrentCard(
	ctx context.Context,
	userID, sessionID int64,
) (*domain.Card, *Progress, error) {
	active, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, nil, err
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	if active.session.Completed() {
		return nil, active.progress(), ErrSessionCompleted
	}
	return active.cards[active.pos], active.progress(), nil
}

// SubmitGrade implements SessionService.SubmitGrade.
func (s *sessionServiceImpl) SubmitGrade(
	ctx context.Context,
	userID, sessionID int64,
	grade domain.Grade,
) (*Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !grade.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGrade, grade)
	}

	active, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	if active.session.Completed() {
		return nil, ErrSessionCompleted
	}

	card := active.cards[active.pos]
	card.Review(grade)

	result := CardResult{CardID: card.ID, Grade: grade}

	// Persist only the two counters. A failure here is reported in the
	// result but never aborts the pass: the next card is still presented.
	update := store.CardUpdate{
		TimesReviewed: &card.TimesReviewed,
		ReviewScore:   &card.ReviewScore,
	}
	if err := s.cardStore.Update(ctx, card.ID, update); err != nil {
		log.Warn("failed to persist card review",
			slog.String("error", err.Error()),
			slog.Int64("session_id", sessionID),
			slog.Int64("card_id", card.ID))
		result.SaveError = err.Error()
	}

	active.results = append(active.results, result)
	active.pos++

	log.Debug("card graded",
		slog.Int64("session_id", sessionID),
		slog.Int64("card_id", card.ID),
		slog.String("grade", string(grade)),
		slog.Int("position", active.pos),
		slog.Int("total_cards", len(active.cards)))

	if active.pos == len(active.cards) {
		s.complete(ctx, log, active)
		s.retire(sessionID)
	}

	return active.progress(), nil
}

// Summary implements SessionService.Summary.
func (s *sessionServiceImpl) Summary(ctx context.Context, userID, sessionID int64) (*Progress, error) {
	active, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	active.mu.Lock()
	defer active.mu.Unlock()
	return active.progress(), nil
}

// complete marks the session finished in memory and stamps the session row.
// Callers hold the session lock (or exclusively own the session, at Start).
func (s *sessionServiceImpl) complete(ctx context.Context, log *slog.Logger, active *activeSession) {
	now := s.timeFunc().UTC()
	active.session.CompletedAt = &now
	active.session.CardsReviewed = active.pos

	if err := s.sessionStore.Complete(ctx, active.session.ID, active.pos, now); err != nil {
		// The in-memory session is still terminal; only the audit row is
		// stale. Summary remains available.
		log.Error("failed to stamp completed session",
			slog.String("error", err.Error()),
			slog.Int64("session_id", active.session.ID))
	}

	log.Info("review session completed",
		slog.Int64("session_id", active.session.ID),
		slog.Int("cards_reviewed", active.pos))
}

// retire records a finished session for bounded retention. Without the cap
// the registry would grow with every session ever started.
func (s *sessionServiceImpl) retire(sessionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.completed = append(s.completed, sessionID)
	for len(s.completed) > maxCompletedSessions {
		evicted := s.completed[0]
		s.completed = s.completed[1:]
		delete(s.sessions, evicted)
	}
}

// lookup finds an active session and checks ownership.
func (s *sessionServiceImpl) lookup(userID, sessionID int64) (*activeSession, error) {
	s.mu.Lock()
	active, ok := s.sessions[sessionID]
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrSessionNotFound, sessionID)
	}
	if active.session.UserID != userID {
		return nil, ErrSessionNotOwned
	}
	return active, nil
}
