package importer

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckard-app/deckard-api/internal/domain"
	"github.com/deckard-app/deckard-api/internal/store"
)

type fakeDeckStore struct {
	deck *domain.Deck
}

func (f *fakeDeckStore) Create(ctx context.Context, deck *domain.Deck) error { return nil }

func (f *fakeDeckStore) GetByID(ctx context.Context, id int64) (*domain.Deck, error) {
	if f.deck == nil || f.deck.ID != id {
		return nil, store.ErrDeckNotFound
	}
	return f.deck, nil
}

func (f *fakeDeckStore) ListForUser(ctx context.Context, userID int64) ([]*domain.Deck, error) {
	return nil, nil
}

func (f *fakeDeckStore) Delete(ctx context.Context, id int64) error { return nil }

func (f *fakeDeckStore) WithTx(tx *sql.Tx) store.DeckStore { return f }

type fakeCardStore struct {
	created   []*domain.Card
	failFront string // Create fails for cards with this front
}

func (f *fakeCardStore) Create(ctx context.Context, card *domain.Card) error {
	if f.failFront != "" && card.Front == f.failFront {
		return errors.New("insert failed")
	}
	card.ID = int64(len(f.created) + 1)
	f.created = append(f.created, card)
	return nil
}

func (f *fakeCardStore) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	return nil, store.ErrCardNotFound
}

func (f *fakeCardStore) Update(ctx context.Context, id int64, update store.CardUpdate) error {
	return nil
}

func (f *fakeCardStore) Delete(ctx context.Context, id int64) error { return nil }

func (f *fakeCardStore) ListForDeck(ctx context.Context, deckID int64) ([]*domain.Card, error) {
	return nil, nil
}

func (f *fakeCardStore) WithTx(tx *sql.Tx) store.CardStore { return f }

func writeSourceFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestImportIntoLocalDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSourceFile(t, dir, "go.md", "Q: What is a slice?\nA: A view over an array\n---\nQ: What is a map?\nA: A hash table\n")
	writeSourceFile(t, dir, "notes.txt", "Q: ignored, not markdown\nA: ignored\n")
	writeSourceFile(t, dir, "empty.md", "nothing here\n")

	decks := &fakeDeckStore{deck: &domain.Deck{ID: 10, UserID: 1, Name: "go"}}
	cards := &fakeCardStore{}
	imp := NewImporter(decks, cards, t.TempDir(), nil)

	result, err := imp.ImportInto(context.Background(), 1, 10, dir)
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesScanned, "only markdown files are scanned")
	assert.Equal(t, 2, result.CardsParsed)
	assert.Equal(t, 2, result.CardsCreated)
	assert.Empty(t, result.Errors)

	require.Len(t, cards.created, 2)
	assert.Equal(t, "What is a slice?", cards.created[0].Front)
	assert.Equal(t, int64(10), cards.created[0].DeckID)
	assert.Zero(t, cards.created[0].TimesReviewed, "imported cards start unreviewed")
	assert.Zero(t, cards.created[0].ReviewScore)
}

func TestImportIntoPartialFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSourceFile(t, dir, "mixed.md", "Q: keep me\nA: kept\n---\nQ: lose me\nA: lost\n")

	decks := &fakeDeckStore{deck: &domain.Deck{ID: 10, UserID: 1, Name: "go"}}
	cards := &fakeCardStore{failFront: "lose me"}
	imp := NewImporter(decks, cards, t.TempDir(), nil)

	result, err := imp.ImportInto(context.Background(), 1, 10, dir)
	require.NoError(t, err, "a failed card is reported, not fatal")

	assert.Equal(t, 2, result.CardsParsed)
	assert.Equal(t, 1, result.CardsCreated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "insert failed")
}

func TestImportIntoDeckChecks(t *testing.T) {
	t.Parallel()

	decks := &fakeDeckStore{deck: &domain.Deck{ID: 10, UserID: 1, Name: "go"}}
	imp := NewImporter(decks, &fakeCardStore{}, t.TempDir(), nil)

	_, err := imp.ImportInto(context.Background(), 1, 99, t.TempDir())
	assert.True(t, errors.Is(err, store.ErrDeckNotFound))

	_, err = imp.ImportInto(context.Background(), 2, 10, t.TempDir())
	assert.ErrorIs(t, err, ErrDeckNotOwned)
}
