// Package account implements user account lifecycle operations that span
// more than one store.
package account

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/deckard-app/deckard-api/internal/domain"
	"github.com/deckard-app/deckard-api/internal/store"
)

// StarterDeckName is the name of the deck every new account begins with.
const StarterDeckName = "Inbox"

// Service manages user accounts.
type Service interface {
	// Register persists a new user together with their starter deck.
	// Both rows are created in a single transaction: a failure on either
	// leaves no trace of the account. The user must already carry a
	// HashedPassword; its ID is assigned on success.
	// Returns store.ErrUsernameExists if the username is taken.
	Register(ctx context.Context, user *domain.User) error

	// GetByID retrieves an account by user ID.
	// Returns store.ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// Delete removes an account. The user's decks, cards, and session
	// history are removed with it (ON DELETE CASCADE).
	// Returns store.ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id int64) error
}

type service struct {
	db        *sql.DB
	userStore store.UserStore
	deckStore store.DeckStore
	logger    *slog.Logger
}

var _ Service = (*service)(nil)

// NewService creates an account Service backed by the given database handle
// and stores. Panics if db or either store is nil; a nil logger falls back
// to slog.Default().
func NewService(
	db *sql.DB,
	userStore store.UserStore,
	deckStore store.DeckStore,
	logger *slog.Logger,
) Service {
	if db == nil {
		panic("account: db cannot be nil")
	}
	if userStore == nil {
		panic("account: userStore cannot be nil")
	}
	if deckStore == nil {
		panic("account: deckStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &service{
		db:        db,
		userStore: userStore,
		deckStore: deckStore,
		logger:    logger.With(slog.String("component", "account_service")),
	}
}

func (s *service) Register(ctx context.Context, user *domain.User) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.userStore.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}

		starter, err := domain.NewDeck(user.ID, StarterDeckName)
		if err != nil {
			return fmt.Errorf("failed to build starter deck: %w", err)
		}

		return s.deckStore.WithTx(tx).Create(ctx, starter)
	})
	if err != nil {
		// The rollback already discarded the assigned ID's row; clear it
		// so a failed registration leaves the user value untouched.
		user.ID = 0
		return err
	}

	s.logger.DebugContext(ctx, "registered account",
		slog.Int64("user_id", user.ID))
	return nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.userStore.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.userStore.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "deleted account", slog.Int64("user_id", id))
	return nil
}
