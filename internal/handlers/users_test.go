package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimate-app/unimate-backend/internal/handlers"
	"github.com/unimate-app/unimate-backend/internal/middleware"
	"github.com/unimate-app/unimate-backend/internal/models"
)

func setupUserRouter(users *fakeUserStore, tokens *fakeTokenStore) *chi.Mux {
	h := handlers.NewUserHandler(users)
	r := chi.NewRouter()
	r.Get("/user/", h.List)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Get("/user/profile", h.GetProfile)
		r.Put("/user/profile", h.UpdateProfile)
	})
	return r
}

func registerTestUser(t *testing.T, users *fakeUserStore, tokens *fakeTokenStore, email, username string) (*models.User, string) {
	t.Helper()
	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: "$argon2id$...",
		Bio:          "original bio",
	}
	require.NoError(t, users.Create(context.Background(), user))
	token, err := tokens.Issue(context.Background(), user.ID, 0)
	require.NoError(t, err)
	return user, token
}

func authedRequest(method, path, body, token string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestGetProfile(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	router := setupUserRouter(users, tokens)
	user, token := registerTestUser(t, users, tokens, "a@x.com", "alice")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/user/profile", "", token))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, "alice", resp.User.Username)

	// The hash is never echoed.
	assert.Empty(t, resp.User.PasswordHash)
	assert.NotContains(t, rec.Body.String(), "argon2id")
}

func TestGetProfile_RequiresToken(t *testing.T) {
	router := setupUserRouter(newFakeUserStore(), newFakeTokenStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/user/profile", "", ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfile_MergesOnlyEditableFields(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	router := setupUserRouter(users, tokens)
	user, token := registerTestUser(t, users, tokens, "a@x.com", "alice")

	// is_admin and created_at are not editable; they must be ignored, not merged.
	body := `{"bio":"hi","is_admin":true,"created_at":"2030-01-01T00:00:00Z","password_hash":"evil"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/user/profile", body, token))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", stored.Bio)
	assert.False(t, stored.IsAdmin)
	assert.Equal(t, "a@x.com", stored.Email)
	assert.Equal(t, "$argon2id$...", stored.PasswordHash)
}

func TestUpdateProfile_OwnIDAccepted(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	router := setupUserRouter(users, tokens)
	user, token := registerTestUser(t, users, tokens, "a@x.com", "alice")

	body := `{"id":"` + user.ID.String() + `","name":"Alice B"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/user/profile", body, token))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateProfile_ForeignIDForbidden(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	router := setupUserRouter(users, tokens)
	_, token := registerTestUser(t, users, tokens, "a@x.com", "alice")
	victim, _ := registerTestUser(t, users, tokens, "b@x.com", "bob")

	body := `{"id":"` + victim.ID.String() + `","bio":"defaced"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/user/profile", body, token))
	require.Equal(t, http.StatusForbidden, rec.Code)

	stored, err := users.FindByID(context.Background(), victim.ID)
	require.NoError(t, err)
	assert.Equal(t, "original bio", stored.Bio)
}

func TestUpdateProfile_UsernameCollisionConflict(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	router := setupUserRouter(users, tokens)
	_, token := registerTestUser(t, users, tokens, "a@x.com", "alice")
	registerTestUser(t, users, tokens, "b@x.com", "bob")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/user/profile", `{"username":"bob"}`, token))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateProfile_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"not-an-email"}`},
		{"empty email", `{"email":"  "}`},
		{"bad username", `{"username":"a!"}`},
		{"broken json", `{"bio":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUserStore()
			tokens := newFakeTokenStore()
			router := setupUserRouter(users, tokens)
			_, token := registerTestUser(t, users, tokens, "a@x.com", "alice")

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest(http.MethodPut, "/user/profile", tt.body, token))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListUsers_Sanitized(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	router := setupUserRouter(users, tokens)
	registerTestUser(t, users, tokens, "a@x.com", "alice")
	registerTestUser(t, users, tokens, "b@x.com", "bob")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/user/", "", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Users []models.User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Users, 2)
	assert.NotContains(t, rec.Body.String(), "argon2id")
}

func TestGetProfile_UnknownIdentity(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	router := setupUserRouter(users, tokens)

	// Token for a user that no longer exists in the store.
	token, err := tokens.Issue(context.Background(), uuid.New(), 0)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/user/profile", "", token))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
