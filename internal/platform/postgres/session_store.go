package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/deckard-app/deckard-api/internal/domain"
	"github.com/deckard-app/deckard-api/internal/platform/logger"
	"github.com/deckard-app/deckard-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface.
func NewPostgresSessionStore(db store.DBTX, log *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: log.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// Create implements store.SessionStore.Create.
// The assigned ID is written back into the session.
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.ReviewSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO sessions (user_id, deck_id, started_at, cards_reviewed)
		VALUES ($1, $2, $3, 0)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		session.UserID,
		session.DeckID,
		session.StartedAt,
	).Scan(&session.ID)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return MapError(err)
		}
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.Int64("user_id", session.UserID),
			slog.Int64("deck_id", session.DeckID))
		return MapError(err)
	}

	log.Info("session created",
		slog.Int64("session_id", session.ID),
		slog.Int64("deck_id", session.DeckID))
	return nil
}

// GetByID implements store.SessionStore.GetByID.
func (s *PostgresSessionStore) GetByID(ctx context.Context, id int64) (*domain.ReviewSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, deck_id, started_at, completed_at, cards_reviewed
		FROM sessions
		WHERE id = $1
	`

	var session domain.ReviewSession
	var completedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.DeckID,
		&session.StartedAt,
		&completedAt,
		&session.CardsReviewed,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.Int64("session_id", id))
			return nil, fmt.Errorf("%w: id %d", store.ErrSessionNotFound, id)
		}
		log.Error("failed to get session by ID",
			slog.String("error", err.Error()),
			slog.Int64("session_id", id))
		return nil, MapError(err)
	}

	if completedAt.Valid {
		t := completedAt.Time
		session.CompletedAt = &t
	}

	return &session, nil
}

// Complete implements store.SessionStore.Complete.
func (s *PostgresSessionStore) Complete(ctx context.Context, id int64, cardsReviewed int, completedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE sessions
		SET completed_at = $1, cards_reviewed = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, completedAt, cardsReviewed, id)
	if err != nil {
		log.Error("failed to complete session",
			slog.String("error", err.Error()),
			slog.Int64("session_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, fmt.Errorf("%w: id %d", store.ErrSessionNotFound, id)); err != nil {
		return err
	}

	log.Info("session completed",
		slog.Int64("session_id", id),
		slog.Int("cards_reviewed", cardsReviewed))
	return nil
}

// WithTx implements store.SessionStore.WithTx.
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}
