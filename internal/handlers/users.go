package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/unimate-app/unimate-backend/internal/middleware"
	"github.com/unimate-app/unimate-backend/internal/store"
	"github.com/unimate-app/unimate-backend/pkg/utils"
)

// UpdateProfileRequest is the body of PUT /user/profile. Only these fields are
// editable; anything else in the body is ignored. The optional ID is accepted
// solely to reject cross-identity updates: the target record always comes from
// the authenticated token, never from the client.
type UpdateProfileRequest struct {
	ID           *string `json:"id"`
	Email        *string `json:"email"`
	Username     *string `json:"username"`
	Name         *string `json:"name"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`
}

// UserHandler serves the user list and the token-scoped profile endpoints.
type UserHandler struct {
	users UserStore
}

func NewUserHandler(users UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /user/ and returns all users without password hashes.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load users")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
	})
}

// GetProfile returns the record for the identity attached by RequireAuth.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Failed to load profile: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// UpdateProfile merges the editable fields from the request into the
// authenticated user's record and returns the updated, sanitized record.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// A client may only ever update its own record.
	if req.ID != nil && *req.ID != userID.String() {
		respondError(w, http.StatusForbidden, "Cannot modify another user's profile")
		return
	}

	upd := store.UserUpdate{
		Name:         req.Name,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			respondError(w, http.StatusBadRequest, "Invalid email address")
			return
		}
		upd.Email = &email
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if err := utils.ValidateUsername(username); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		normalized := utils.NormalizeUsername(username)
		upd.Username = &normalized
	}

	user, err := h.users.Update(r.Context(), userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateKey):
			respondError(w, http.StatusConflict, "Email or username is already taken")
		case errors.Is(err, store.ErrNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		default:
			log.Printf("Failed to update profile: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}
