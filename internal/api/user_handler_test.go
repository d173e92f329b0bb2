package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckard-app/deckard-api/internal/api/shared"
	"github.com/deckard-app/deckard-api/internal/domain"
)

func newUserTestHandler(t *testing.T) (*UserHandler, *fakeUserStore) {
	t.Helper()
	users := newFakeUserStore()
	return NewUserHandler(&fakeAccountService{users: users}), users
}

// asUser attaches an authenticated user ID the way the auth middleware does.
func asUser(r *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

func mustStoreUser(t *testing.T, users *fakeUserStore, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, HashedPassword: "hash"}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestGetMe(t *testing.T) {
	t.Parallel()
	handler, users := newUserTestHandler(t)
	user := mustStoreUser(t, users, "john")

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), user.ID)
	rec := httptest.NewRecorder()
	handler.GetMe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, "john", resp.Username)

	// The hash never appears in the response body.
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestDeleteMe(t *testing.T) {
	t.Parallel()
	handler, users := newUserTestHandler(t)
	user := mustStoreUser(t, users, "john")

	req := asUser(httptest.NewRequest(http.MethodDelete, "/api/users/me", nil), user.ID)
	rec := httptest.NewRecorder()
	handler.DeleteMe(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	_, err := users.GetByID(context.Background(), user.ID)
	assert.Error(t, err)

	// A second delete finds nothing.
	rec = httptest.NewRecorder()
	handler.DeleteMe(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserEndpointsRequireAuthentication(t *testing.T) {
	t.Parallel()
	handler, _ := newUserTestHandler(t)

	rec := httptest.NewRecorder()
	handler.GetMe(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	handler.DeleteMe(rec, httptest.NewRequest(http.MethodDelete, "/api/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
