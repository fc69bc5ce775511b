package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/unimate-app/unimate-backend/internal/config"
	"github.com/unimate-app/unimate-backend/internal/middleware"
	"github.com/unimate-app/unimate-backend/internal/models"
	"github.com/unimate-app/unimate-backend/internal/store"
	"github.com/unimate-app/unimate-backend/pkg/utils"
)

// RegisterRequest is the body of POST /user/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /user/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	users  UserStore
	tokens TokenStore
	cfg    *config.Config
}

func NewAuthHandler(users UserStore, tokens TokenStore, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, cfg: cfg}
}

// Register handles user registration. Exactly one user row is created on
// success; uniqueness races are settled by the store's constraint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	// The password itself is hashed as supplied, but a value that is blank
	// after trimming is no password at all.
	if email == "" || username == "" || strings.TrimSpace(req.Password) == "" {
		respondError(w, http.StatusBadRequest, "Email, username, and password are required")
		return
	}
	if !strings.Contains(email, "@") {
		respondError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if err := utils.ValidateUsername(username); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password, h.cfg.Argon2Time)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := &models.User{
		Email:        email,
		Username:     utils.NormalizeUsername(username),
		PasswordHash: hashedPassword,
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			respondError(w, http.StatusConflict, "Email or username is already taken")
			return
		}
		log.Printf("Failed to create user: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User created successfully",
		"user": map[string]interface{}{
			"id":       user.ID.String(),
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Login verifies credentials and mints a bearer token. Unknown email and wrong
// password produce the same response so accounts cannot be enumerated.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Printf("Failed to look up user: %v", err)
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !valid {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.tokens.Issue(r.Context(), user.ID, h.cfg.TokenTTL)
	if err != nil {
		log.Printf("Failed to issue token: %v", err)
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"userId":  user.ID.String(),
	})
}

// Logout revokes the presented bearer token. Mounted behind RequireAuth, so
// the token is known valid when we get here.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.tokens.Revoke(r.Context(), token); err != nil {
		log.Printf("Failed to revoke token: %v", err)
		respondError(w, http.StatusInternalServerError, "Logout failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out",
	})
}
