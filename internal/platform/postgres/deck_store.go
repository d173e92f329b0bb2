package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/deckard-app/deckard-api/internal/domain"
	"github.com/deckard-app/deckard-api/internal/platform/logger"
	"github.com/deckard-app/deckard-api/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the
// DeckStore interface.
func NewPostgresDeckStore(db store.DBTX, log *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: log.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// Create implements store.DeckStore.Create.
// The assigned ID is written back into the deck.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("name", deck.Name))
		return err
	}

	query := `
		INSERT INTO decks (name, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		deck.Name,
		deck.UserID,
		deck.CreatedAt,
		deck.UpdatedAt,
	).Scan(&deck.ID)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("owner missing during deck creation",
				slog.Int64("user_id", deck.UserID))
			return fmt.Errorf("%w: id %d", store.ErrUserNotFound, deck.UserID)
		}

		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.Int64("user_id", deck.UserID))
		return MapError(err)
	}

	log.Info("deck created successfully",
		slog.Int64("deck_id", deck.ID),
		slog.Int64("user_id", deck.UserID))
	return nil
}

// GetByID implements store.DeckStore.GetByID.
func (s *PostgresDeckStore) GetByID(ctx context.Context, id int64) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, user_id, created_at, updated_at
		FROM decks
		WHERE id = $1
	`

	var deck domain.Deck
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID,
		&deck.Name,
		&deck.UserID,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found", slog.Int64("deck_id", id))
			return nil, fmt.Errorf("%w: id %d", store.ErrDeckNotFound, id)
		}
		log.Error("failed to get deck by ID",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", id))
		return nil, MapError(err)
	}

	return &deck, nil
}

// ListForUser implements store.DeckStore.ListForUser.
// Cards are loaded eagerly, pre-sorted into review-priority order: review
// score ascending, then times reviewed ascending, then id (insertion order).
// The order is computed fresh on every call and never persisted.
func (s *PostgresDeckStore) ListForUser(ctx context.Context, userID int64) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deckQuery := `
		SELECT id, name, user_id, created_at, updated_at
		FROM decks
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, deckQuery, userID)
	if err != nil {
		log.Error("failed to query decks for user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	decks := []*domain.Deck{}
	byID := map[int64]*domain.Deck{}
	for rows.Next() {
		var deck domain.Deck
		if err := rows.Scan(
			&deck.ID,
			&deck.Name,
			&deck.UserID,
			&deck.CreatedAt,
			&deck.UpdatedAt,
		); err != nil {
			log.Error("failed to scan deck row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		deck.Cards = []*domain.Card{}
		decks = append(decks, &deck)
		byID[deck.ID] = &deck
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning deck rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if len(decks) == 0 {
		return decks, nil
	}

	cardQuery := `
		SELECT c.id, c.deck_id, c.front, c.back, c.times_reviewed, c.review_score,
		       c.created_at, c.updated_at
		FROM cards c
		JOIN decks d ON d.id = c.deck_id
		WHERE d.user_id = $1
		ORDER BY c.deck_id, c.review_score ASC, c.times_reviewed ASC, c.id ASC
	`

	cardRows, err := s.db.QueryContext(ctx, cardQuery, userID)
	if err != nil {
		log.Error("failed to query cards for user's decks",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, MapError(err)
	}
	defer func() {
		if err := cardRows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	for cardRows.Next() {
		var card domain.Card
		if err := cardRows.Scan(
			&card.ID,
			&card.DeckID,
			&card.Front,
			&card.Back,
			&card.TimesReviewed,
			&card.ReviewScore,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		if deck, ok := byID[card.DeckID]; ok {
			deck.Cards = append(deck.Cards, &card)
		}
	}
	if err := cardRows.Err(); err != nil {
		log.Error("error after scanning card rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("loaded decks for user",
		slog.Int64("user_id", userID),
		slog.Int("deck_count", len(decks)))
	return decks, nil
}

// Delete implements store.DeckStore.Delete.
// The deck's cards are removed by ON DELETE CASCADE.
func (s *PostgresDeckStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, fmt.Errorf("%w: id %d", store.ErrDeckNotFound, id)); err != nil {
		return err
	}

	log.Info("deck deleted", slog.Int64("deck_id", id))
	return nil
}

// WithTx implements store.DeckStore.WithTx.
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{
		db:     tx,
		logger: s.logger,
	}
}
