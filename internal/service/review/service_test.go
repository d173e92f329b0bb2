package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckard-app/deckard-api/internal/domain"
	"github.com/deckard-app/deckard-api/internal/store"
)

const (
	testUserID  int64 = 1
	testDeckID  int64 = 10
	otherUserID int64 = 2
)

func testDeck() *domain.Deck {
	return &domain.Deck{ID: testDeckID, UserID: testUserID, Name: "go basics"}
}

func testCards(t *testing.T, n int) []*domain.Card {
	t.Helper()
	cards := make([]*domain.Card, n)
	for i := range cards {
		card, err := domain.NewCard(testDeckID, "front", "back")
		require.NoError(t, err)
		card.ID = int64(100 + i)
		cards[i] = card
	}
	return cards
}

type fixture struct {
	decks    *mockDeckStore
	cards    *mockCardStore
	sessions *mockSessionStore
	svc      SessionService
}

func newFixture(t *testing.T, cards []*domain.Card) *fixture {
	t.Helper()

	f := &fixture{
		decks: &mockDeckStore{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Deck, error) {
				if id != testDeckID {
					return nil, store.ErrDeckNotFound
				}
				return testDeck(), nil
			},
		},
		cards: &mockCardStore{
			ListForDeckFunc: func(ctx context.Context, deckID int64) ([]*domain.Card, error) {
				return cards, nil
			},
		},
		sessions: newMockSessionStore(),
	}
	f.svc = NewSessionService(f.decks, f.cards, f.sessions, nil)
	return f
}

func TestStartSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testCards(t, 3))
	progress, err := f.svc.Start(context.Background(), testUserID, testDeckID)
	require.NoError(t, err)

	assert.Equal(t, StateInProgress, progress.State)
	assert.Equal(t, 0, progress.Position)
	assert.Equal(t, 3, progress.TotalCards)
	assert.NotZero(t, progress.SessionID)
	assert.Nil(t, progress.CompletedAt)
}

func TestStartSessionDeckNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	_, err := f.svc.Start(context.Background(), testUserID, 99999)
	assert.True(t, errors.Is(err, store.ErrDeckNotFound))
}

func TestStartSessionDeckNotOwned(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testCards(t, 1))
	_, err := f.svc.Start(context.Background(), otherUserID, testDeckID)
	assert.ErrorIs(t, err, ErrDeckNotOwned)
}

func TestStartSessionEmptyDeck(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	progress, err := f.svc.Start(context.Background(), testUserID, testDeckID)
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, progress.State)
	assert.Equal(t, 0, progress.TotalCards)
	assert.NotNil(t, progress.CompletedAt)
	assert.Equal(t, 1, f.sessions.completeCt, "empty deck completes the session row at once")
	assert.Equal(t, 0, f.sessions.completed[progress.SessionID])

	// Nothing to present or grade.
	_, _, err = f.svc.CurrentCard(context.Background(), testUserID, progress.SessionID)
	assert.ErrorIs(t, err, ErrSessionCompleted)
	_, err = f.svc.SubmitGrade(context.Background(), testUserID, progress.SessionID, domain.GradeEasy)
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestFullReviewPass(t *testing.T) {
	t.Parallel()

	cards := testCards(t, 3)
	f := newFixture(t, cards)
	ctx := context.Background()

	progress, err := f.svc.Start(ctx, testUserID, testDeckID)
	require.NoError(t, err)
	sessionID := progress.SessionID

	grades := []domain.Grade{domain.GradeFail, domain.GradeEasy, domain.GradeHard}
	for i, grade := range grades {
		card, _, err := f.svc.CurrentCard(ctx, testUserID, sessionID)
		require.NoError(t, err)
		assert.Equal(t, cards[i].ID, card.ID, "cards are visited in order, none skipped")

		progress, err = f.svc.SubmitGrade(ctx, testUserID, sessionID, grade)
		require.NoError(t, err)
		assert.Equal(t, i+1, progress.Position)
	}

	assert.Equal(t, StateCompleted, progress.State)
	assert.NotNil(t, progress.CompletedAt)
	assert.Equal(t, 3, progress.CardsReviewed)
	assert.Zero(t, progress.FailedSaves)
	assert.Equal(t, 1, f.sessions.completeCt, "session completes exactly once")
	assert.Equal(t, 3, f.sessions.completed[sessionID])

	// Counters were applied in memory.
	assert.Equal(t, 1, cards[0].TimesReviewed)
	assert.Equal(t, -2, cards[0].ReviewScore)
	assert.Equal(t, 1, cards[1].TimesReviewed)
	assert.Equal(t, 1, cards[1].ReviewScore)
	assert.Equal(t, -1, cards[2].ReviewScore)

	// Each grade produced one persistence call touching only the counters.
	require.Len(t, f.cards.updates, 3)
	for i, rec := range f.cards.updates {
		assert.Equal(t, cards[i].ID, rec.id)
		assert.Nil(t, rec.update.Front)
		assert.Nil(t, rec.update.Back)
		require.NotNil(t, rec.update.TimesReviewed)
		require.NotNil(t, rec.update.ReviewScore)
	}
	assert.Equal(t, -2, *f.cards.updates[0].update.ReviewScore)

	// Completed is terminal.
	_, err = f.svc.SubmitGrade(ctx, testUserID, sessionID, domain.GradeEasy)
	assert.ErrorIs(t, err, ErrSessionCompleted)
	_, _, err = f.svc.CurrentCard(ctx, testUserID, sessionID)
	assert.ErrorIs(t, err, ErrSessionCompleted)

	// The summary is still readable after completion.
	summary, err := f.svc.Summary(ctx, testUserID, sessionID)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, summary.State)
	require.Len(t, summary.Results, 3)
	assert.Equal(t, domain.GradeFail, summary.Results[0].Grade)
}

func TestSubmitGradePersistFailureContinuesPass(t *testing.T) {
	t.Parallel()

	cards := testCards(t, 2)
	f := newFixture(t, cards)
	f.cards.UpdateFunc = func(ctx context.Context, id int64, update store.CardUpdate) error {
		if id == cards[0].ID {
			return errors.New("connection reset")
		}
		return nil
	}
	ctx := context.Background()

	progress, err := f.svc.Start(ctx, testUserID, testDeckID)
	require.NoError(t, err)
	sessionID := progress.SessionID

	// The failing save is reported but the pass moves on.
	progress, err = f.svc.SubmitGrade(ctx, testUserID, sessionID, domain.GradeMedium)
	require.NoError(t, err)
	assert.Equal(t, StateInProgress, progress.State)
	assert.Equal(t, 1, progress.FailedSaves)
	require.Len(t, progress.Results, 1)
	assert.Equal(t, cards[0].ID, progress.Results[0].CardID)
	assert.Contains(t, progress.Results[0].SaveError, "connection reset")

	// The in-memory review still happened.
	assert.Equal(t, 1, cards[0].TimesReviewed)

	// The next card is presented and the session completes normally.
	card, _, err := f.svc.CurrentCard(ctx, testUserID, sessionID)
	require.NoError(t, err)
	assert.Equal(t, cards[1].ID, card.ID)

	progress, err = f.svc.SubmitGrade(ctx, testUserID, sessionID, domain.GradeEasy)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, progress.State)
	assert.Equal(t, 1, progress.FailedSaves)
	assert.Empty(t, progress.Results[1].SaveError)
}

func TestSubmitGradeInvalidGrade(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testCards(t, 1))
	progress, err := f.svc.Start(context.Background(), testUserID, testDeckID)
	require.NoError(t, err)

	_, err = f.svc.SubmitGrade(context.Background(), testUserID, progress.SessionID, domain.Grade("okay"))
	assert.ErrorIs(t, err, ErrInvalidGrade)

	// The invalid submission changed nothing.
	summary, err := f.svc.Summary(context.Background(), testUserID, progress.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Position)
	assert.Empty(t, f.cards.updates)
}

func TestSessionLookupErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testCards(t, 1))
	progress, err := f.svc.Start(context.Background(), testUserID, testDeckID)
	require.NoError(t, err)

	_, err = f.svc.Summary(context.Background(), testUserID, 99999)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.svc.Summary(context.Background(), otherUserID, progress.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotOwned)
	_, err = f.svc.SubmitGrade(context.Background(), otherUserID, progress.SessionID, domain.GradeEasy)
	assert.ErrorIs(t, err, ErrSessionNotOwned)
}

func TestSessionCompletionStampUsesInjectedClock(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testCards(t, 1))
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f.svc.(*sessionServiceImpl).timeFunc = func() time.Time { return fixed }

	progress, err := f.svc.Start(context.Background(), testUserID, testDeckID)
	require.NoError(t, err)

	progress, err = f.svc.SubmitGrade(context.Background(), testUserID, progress.SessionID, domain.GradeEasy)
	require.NoError(t, err)
	require.NotNil(t, progress.CompletedAt)
	assert.Equal(t, fixed, *progress.CompletedAt)
	assert.Equal(t, fixed, f.sessions.lastStamp)
}

func TestCompletedSessionsEvictedFromRegistry(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testCards(t, 1))
	ctx := context.Background()

	// One in-progress session that any eviction must leave alone.
	inProgress, err := f.svc.Start(ctx, testUserID, testDeckID)
	require.NoError(t, err)

	// Every later session reviews an empty deck and completes at once.
	f.cards.ListForDeckFunc = func(ctx context.Context, deckID int64) ([]*domain.Card, error) {
		return nil, nil
	}

	oldest, err := f.svc.Start(ctx, testUserID, testDeckID)
	require.NoError(t, err)

	for i := 0; i < maxCompletedSessions; i++ {
		_, err := f.svc.Start(ctx, testUserID, testDeckID)
		require.NoError(t, err)
	}

	// The oldest completed session fell out of the registry.
	_, err = f.svc.Summary(ctx, testUserID, oldest.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// The in-progress session was never a candidate for eviction.
	_, err = f.svc.Summary(ctx, testUserID, inProgress.SessionID)
	require.NoError(t, err)

	reg := f.svc.(*sessionServiceImpl)
	reg.mu.Lock()
	defer reg.mu.Unlock()
	assert.Len(t, reg.completed, maxCompletedSessions)
	assert.Len(t, reg.sessions, maxCompletedSessions+1)
}
