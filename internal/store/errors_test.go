package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityErrorsWrapGenericSentinels(t *testing.T) {
	t.Parallel()

	for _, err := range []error{ErrUserNotFound, ErrDeckNotFound, ErrCardNotFound, ErrSessionNotFound} {
		assert.True(t, errors.Is(err, ErrNotFound), "expected %v to wrap ErrNotFound", err)
		assert.True(t, IsNotFoundError(err))
	}

	assert.True(t, errors.Is(ErrUsernameExists, ErrDuplicate))
	assert.True(t, IsDuplicateError(ErrUsernameExists))

	assert.False(t, IsNotFoundError(ErrDuplicate))
	assert.False(t, IsDuplicateError(ErrNotFound))
	assert.False(t, IsNotFoundError(nil))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	base := errors.New("connection refused")
	err := NewStoreError("card", "update", "write failed", base)

	assert.Contains(t, err.Error(), "update operation on card failed")
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, errors.Is(err, base), "expected StoreError to unwrap to the original error")

	bare := NewStoreError("deck", "delete", "gone", nil)
	assert.Equal(t, "delete operation on deck failed: gone", bare.Error())
}

func TestStoreErrorPreservesSentinelChain(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("query row: %w", ErrCardNotFound)
	err := NewStoreError("card", "get", "lookup failed", wrapped)

	assert.True(t, errors.Is(err, ErrCardNotFound))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsNotFoundError(err))
}

func TestCardUpdateIsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, CardUpdate{}.IsEmpty())

	front := "f"
	assert.False(t, CardUpdate{Front: &front}.IsEmpty())

	score := -2
	assert.False(t, CardUpdate{ReviewScore: &score}.IsEmpty())
}
