package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/deckard-app/deckard-api/internal/api"
	apiMiddleware "github.com/deckard-app/deckard-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.accountService, app.userStore, app.jwtService, app.passwordHasher, app.passwordHasher)
	userHandler := api.NewUserHandler(app.accountService)
	deckHandler := api.NewDeckHandler(app.deckStore, app.deckImporter)
	cardHandler := api.NewCardHandler(app.cardStore, app.deckStore)
	reviewHandler := api.NewReviewHandler(app.reviewService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Account
			r.Get("/users/me", userHandler.GetMe)
			r.Delete("/users/me", userHandler.DeleteMe)

			// Deck management
			r.Post("/decks", deckHandler.CreateDeck)
			r.Get("/decks", deckHandler.ListDecks)
			r.Delete("/decks/{deckID}", deckHandler.DeleteDeck)
			r.Post("/decks/{deckID}/import", deckHandler.ImportDeck)

			// Card management
			r.Post("/decks/{deckID}/cards", cardHandler.CreateCard)
			r.Put("/cards/{cardID}", cardHandler.UpdateCard)
			r.Delete("/cards/{cardID}", cardHandler.DeleteCard)

			// Review sessions
			r.Post("/decks/{deckID}/sessions", reviewHandler.StartSession)
			r.Get("/sessions/{sessionID}", reviewHandler.SessionSummary)
			r.Get("/sessions/{sessionID}/card", reviewHandler.CurrentCard)
			r.Get("/sessions/{sessionID}/card/answer", reviewHandler.CurrentCardAnswer)
			r.Post("/sessions/{sessionID}/grade", reviewHandler.SubmitGrade)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
