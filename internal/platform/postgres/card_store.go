package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/deckard-app/deckard-api/internal/domain"
	"github.com/deckard-app/deckard-api/internal/platform/logger"
	"github.com/deckard-app/deckard-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface.
func NewPostgresCardStore(db store.DBTX, log *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: log.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// Create implements store.CardStore.Create.
// The assigned ID is written back into the card. The insert is atomic:
// on any failure no row exists and the card keeps its unset ID.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", card.DeckID))
		return err
	}

	query := `
		INSERT INTO cards (deck_id, front, back, times_reviewed, review_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		card.DeckID,
		card.Front,
		card.Back,
		card.TimesReviewed,
		card.ReviewScore,
		card.CreatedAt,
		card.UpdatedAt,
	).Scan(&card.ID)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("deck missing during card creation",
				slog.Int64("deck_id", card.DeckID))
			return fmt.Errorf("%w: id %d", store.ErrDeckNotFound, card.DeckID)
		}

		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", card.DeckID))
		return MapError(err)
	}

	log.Info("card created successfully",
		slog.Int64("card_id", card.ID),
		slog.Int64("deck_id", card.DeckID))
	return nil
}

// GetByID implements store.CardStore.GetByID.
func (s *PostgresCardStore) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, deck_id, front, back, times_reviewed, review_score, created_at, updated_at
		FROM cards
		WHERE id = $1
	`

	var card domain.Card
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&card.TimesReviewed,
		&card.ReviewScore,
		&card.CreatedAt,
		&card.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.Int64("card_id", id))
			return nil, fmt.Errorf("%w: id %d", store.ErrCardNotFound, id)
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return nil, MapError(err)
	}

	return &card, nil
}

// Update implements store.CardStore.Update.
// Only the non-nil fields of the update are written; every other column is
// left untouched. The SET clause is assembled from fixed column names with
// numbered placeholders — values never reach the SQL text.
func (s *PostgresCardStore) Update(ctx context.Context, id int64, update store.CardUpdate) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if update.IsEmpty() {
		log.Debug("empty card update, nothing to do", slog.Int64("card_id", id))
		return nil
	}

	setClauses := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if update.Front != nil {
		setClauses = append(setClauses, "front = "+arg(*update.Front))
	}
	if update.Back != nil {
		setClauses = append(setClauses, "back = "+arg(*update.Back))
	}
	if update.TimesReviewed != nil {
		setClauses = append(setClauses, "times_reviewed = "+arg(*update.TimesReviewed))
	}
	if update.ReviewScore != nil {
		setClauses = append(setClauses, "review_score = "+arg(*update.ReviewScore))
	}
	setClauses = append(setClauses, "updated_at = "+arg(time.Now().UTC()))

	query := "UPDATE cards SET " + strings.Join(setClauses, ", ") + " WHERE id = " + arg(id)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, fmt.Errorf("%w: id %d", store.ErrCardNotFound, id)); err != nil {
		log.Debug("card not found for update", slog.Int64("card_id", id))
		return err
	}

	log.Debug("card updated", slog.Int64("card_id", id))
	return nil
}

// Delete implements store.CardStore.Delete.
func (s *PostgresCardStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, fmt.Errorf("%w: id %d", store.ErrCardNotFound, id)); err != nil {
		return err
	}

	log.Info("card deleted", slog.Int64("card_id", id))
	return nil
}

// ListForDeck implements store.CardStore.ListForDeck.
func (s *PostgresCardStore) ListForDeck(ctx context.Context, deckID int64) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, deck_id, front, back, times_reviewed, review_score, created_at, updated_at
		FROM cards
		WHERE deck_id = $1
		ORDER BY review_score ASC, times_reviewed ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, deckID)
	if err != nil {
		log.Error("failed to query cards for deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := []*domain.Card{}
	for rows.Next() {
		var card domain.Card
		if err := rows.Scan(
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
		cards = append(cards, &card)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning card rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return cards, nil
}

// WithTx implements store.CardStore.WithTx.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}
