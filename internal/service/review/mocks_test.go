package review

import (
	"context"
	"database/sql"
	"time"

	"github.com/deckard-app/deckard-api/internal/domain"
	"github.com/deckard-app/deckard-api/internal/store"
)

// mockDeckStore is a func-field mock of store.DeckStore.
type mockDeckStore struct {
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Deck, error)
}

func (m *mockDeckStore) Create(ctx context.Context, deck *domain.Deck) error { return nil }

func (m *mockDeckStore) GetByID(ctx context.Context, id int64) (*domain.Deck, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, store.ErrDeckNotFound
}

func (m *mockDeckStore) ListForUser(ctx context.Context, userID int64) ([]*domain.Deck, error) {
	return nil, nil
}

func (m *mockDeckStore) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockDeckStore) WithTx(tx *sql.Tx) store.DeckStore { return m }

// mockCardStore is a func-field mock of store.CardStore. Update calls are
// recorded so tests can assert exactly which columns were written.
type mockCardStore struct {
	ListForDeckFunc func(ctx context.Context, deckID int64) ([]*domain.Card, error)
	UpdateFunc      func(ctx context.Context, id int64, update store.CardUpdate) error

	updates []recordedUpdate
}

type recordedUpdate struct {
	id     int64
	update store.CardUpdate
}

func (m *mockCardStore) Create(ctx context.Context, card *domain.Card) error { return nil }

func (m *mockCardStore) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	return nil, store.ErrCardNotFound
}

func (m *mockCardStore) Update(ctx context.Context, id int64, update store.CardUpdate) error {
	m.updates = append(m.updates, recordedUpdate{id: id, update: update})
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, update)
	}
	return nil
}

func (m *mockCardStore) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockCardStore) ListForDeck(ctx context.Context, deckID int64) ([]*domain.Card, error) {
	if m.ListForDeckFunc != nil {
		return m.ListForDeckFunc(ctx, deckID)
	}
	return nil, nil
}

func (m *mockCardStore) WithTx(tx *sql.Tx) store.CardStore { return m }

// mockSessionStore is a func-field mock of store.SessionStore. Create assigns
// sequential IDs the way the real store does.
type mockSessionStore struct {
	CreateFunc   func(ctx context.Context, session *domain.ReviewSession) error
	CompleteFunc func(ctx context.Context, id int64, cardsReviewed int, completedAt time.Time) error

	nextID     int64
	completed  map[int64]int
	lastStamp  time.Time
	completeCt int
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{completed: make(map[int64]int)}
}

func (m *mockSessionStore) Create(ctx context.Context, session *domain.ReviewSession) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	m.nextID++
	session.ID = m.nextID
	return nil
}

func (m *mockSessionStore) GetByID(ctx context.Context, id int64) (*domain.ReviewSession, error) {
	return nil, store.ErrSessionNotFound
}

func (m *mockSessionStore) Complete(
	ctx context.Context,
	id int64,
	cardsReviewed int,
	completedAt time.Time,
) error {
	m.completeCt++
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, id, cardsReviewed, completedAt)
	}
	m.completed[id] = cardsReviewed
	m.lastStamp = completedAt
	return nil
}

func (m *mockSessionStore) WithTx(tx *sql.Tx) store.SessionStore { return m }
