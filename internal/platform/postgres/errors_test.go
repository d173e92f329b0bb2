package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/deckard-app/deckard-api/internal/store"
)

func pgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"nil passes through", nil, nil},
		{"no rows maps to not found", sql.ErrNoRows, store.ErrNotFound},
		{"wrapped no rows maps to not found", fmt.Errorf("scan: %w", sql.ErrNoRows), store.ErrNotFound},
		{"unique violation maps to duplicate", pgError(uniqueViolationCode, "users_username_key"), store.ErrDuplicate},
		{"deck fk violation names the user", pgError(foreignKeyViolationCode, "decks_user_id_fkey"), store.ErrUserNotFound},
		{"card fk violation names the deck", pgError(foreignKeyViolationCode, "cards_deck_id_fkey"), store.ErrDeckNotFound},
		{"session user fk names the user", pgError(foreignKeyViolationCode, "sessions_user_id_fkey"), store.ErrUserNotFound},
		{"session deck fk names the deck", pgError(foreignKeyViolationCode, "sessions_deck_id_fkey"), store.ErrDeckNotFound},
		{"unknown fk maps to invalid entity", pgError(foreignKeyViolationCode, "mystery_fkey"), store.ErrInvalidEntity},
		{"check violation maps to invalid entity", pgError(checkViolationCode, "cards_times_reviewed_check"), store.ErrInvalidEntity},
		{"not null violation maps to invalid entity", pgError(notNullViolationCode, ""), store.ErrInvalidEntity},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(tc.err)
			if tc.sentinel == nil {
				assert.NoError(t, mapped)
				return
			}
			assert.True(t, errors.Is(mapped, tc.sentinel),
				"expected %v to map to %v, got %v", tc.err, tc.sentinel, mapped)
		})
	}
}

func TestMapErrorPassesThroughUnknownErrors(t *testing.T) {
	t.Parallel()

	err := errors.New("connection reset")
	assert.Same(t, err, MapError(err))
}

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(pgError(uniqueViolationCode, "")))
	assert.False(t, IsUniqueViolation(pgError(foreignKeyViolationCode, "")))
	assert.False(t, IsUniqueViolation(errors.New("other")))

	assert.True(t, IsForeignKeyViolation(pgError(foreignKeyViolationCode, "")))
	assert.False(t, IsForeignKeyViolation(pgError(uniqueViolationCode, "")))

	// Wrapped pg errors still match.
	wrapped := fmt.Errorf("exec: %w", pgError(uniqueViolationCode, ""))
	assert.True(t, IsUniqueViolation(wrapped))
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, store.ErrCardNotFound))

	err := CheckRowsAffected(fakeResult{rows: 0}, store.ErrCardNotFound)
	assert.True(t, errors.Is(err, store.ErrCardNotFound))

	err = CheckRowsAffected(fakeResult{err: errors.New("driver: bad")}, store.ErrCardNotFound)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrCardNotFound))

	assert.Error(t, CheckRowsAffected(nil, store.ErrCardNotFound))
}
