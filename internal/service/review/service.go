// Package review implements the deck review pass: a session walks a deck's
// cards in priority order, collects a grade for each card, applies it, and
// persists the updated counters one card at a time.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deckard-app/deckard-api/internal/domain"
)

// SessionState describes where a review session is in its lifecycle.
// Transitions are strictly NotStarted -> InProgress -> Completed, with
// InProgress skipped entirely for an empty deck. Completed is terminal.
type SessionState string

const (
	StateNotStarted SessionState = "not_started"
	StateInProgress SessionState = "in_progress"
	StateCompleted  SessionState = "completed"
)

// CardResult records the outcome of grading a single card during a session.
// SaveError is non-empty when the counter update could not be persisted; the
// in-memory review still happened and the pass continued.
type CardResult struct {
	CardID    int64        `json:"card_id"`
	Grade     domain.Grade `json:"grade"`
	SaveError string       `json:"save_error,omitempty"`
}

// Progress is a snapshot of a session returned after each operation.
type Progress struct {
	SessionID     int64        `json:"session_id"`
	DeckID        int64        `json:"deck_id"`
	State         SessionState `json:"state"`
	Position      int          `json:"position"` // cards graded so far
	TotalCards    int          `json:"total_cards"`
	Results       []CardResult `json:"results,omitempty"`
	StartedAt     time.Time    `json:"started_at"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
	FailedSaves   int          `json:"failed_saves"`
	CardsReviewed int          `json:"cards_reviewed"`
}

// SessionService drives review sessions for decks.
type SessionService interface {
	// Start begins a review pass over the given deck for the given user.
	// The deck's cards are loaded once, in priority order, and the order is
	// fixed for the lifetime of the session. A session over an empty deck is
	// returned already completed.
	//
	// Returns ErrDeckNotOwned when the deck belongs to another user, or a
	// store not-found error when the deck does not exist.
	Start(ctx context.Context, userID, deckID int64) (*Progress, error)

	// CurrentCard returns the card the session is waiting on. The caller
	// decides how much of the card to show (front only, or front and back).
	//
	// Returns ErrSessionCompleted when every card has been graded.
	CurrentCard(ctx context.Context, userID, sessionID int64) (*domain.Card, *Progress, error)

	// SubmitGrade applies the grade to the current card, persists the
	// updated counters, and advances to the next card. A persistence
	// failure is recorded in the card's result and does not stop the pass.
	// Grading the last card completes the session.
	//
	// Returns ErrSessionCompleted when the session is already finished and
	// ErrInvalidGrade when the grade is not one of the four known values.
	SubmitGrade(ctx context.Context, userID, sessionID int64, grade domain.Grade) (*Progress, error)

	// Summary returns the session's current progress, including any
	// per-card save failures. Usable at any point in the lifecycle.
	// Completed sessions stay summarizable for a bounded window; the
	// oldest are eventually evicted and report ErrSessionNotFound.
	Summary(ctx context.Context, userID, sessionID int64) (*Progress, error)
}

// Common error types for SessionService
var (
	// ErrSessionNotFound indicates no session with the given ID is active
	// in this process.
	ErrSessionNotFound = errors.New("review session not found")

	// ErrSessionNotOwned indicates the session belongs to another user.
	ErrSessionNotOwned = errors.New("unauthorized access: session not owned by user")

	// ErrSessionCompleted indicates the session has already graded every card.
	ErrSessionCompleted = errors.New("review session already completed")

	// ErrDeckNotOwned indicates the deck belongs to another user.
	ErrDeckNotOwned = errors.New("unauthorized access: deck not owned by user")

	// ErrInvalidGrade indicates an unknown grade value was submitted.
	ErrInvalidGrade = errors.New("invalid grade")
)

// ServiceError wraps errors from the review service with additional context,
// so consumers can differentiate failures with errors.As instead of string
// matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start", "submit_grade")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
