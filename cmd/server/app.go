package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/deckard-app/deckard-api/internal/config"
	"github.com/deckard-app/deckard-api/internal/importer"
	"github.com/deckard-app/deckard-api/internal/platform/postgres"
	"github.com/deckard-app/deckard-api/internal/service/account"
	"github.com/deckard-app/deckard-api/internal/service/auth"
	"github.com/deckard-app/deckard-api/internal/service/review"
	"github.com/deckard-app/deckard-api/internal/store"
)

// application holds the server's wired dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	deckStore    store.DeckStore
	cardStore    store.CardStore
	sessionStore store.SessionStore

	jwtService     auth.JWTService
	passwordHasher *auth.BcryptHasher
	accountService account.Service
	reviewService  review.SessionService
	deckImporter   *importer.Importer
}

// newApplication connects to the database, applies migrations, and wires the
// stores and services together.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	deckStore := postgres.NewPostgresDeckStore(db, logger)
	cardStore := postgres.NewPostgresCardStore(db, logger)
	sessionStore := postgres.NewPostgresSessionStore(db, logger)

	return &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		userStore:      userStore,
		deckStore:      deckStore,
		cardStore:      cardStore,
		sessionStore:   sessionStore,
		jwtService:     jwtService,
		passwordHasher: auth.NewBcryptHasher(0),
		accountService: account.NewService(db, userStore, deckStore, logger),
		reviewService:  review.NewSessionService(deckStore, cardStore, sessionStore, logger),
		deckImporter:   importer.NewImporter(deckStore, cardStore, cfg.Import.CacheDir, logger),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
