package handlers

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/unimate-app/unimate-backend/internal/models"
	"github.com/unimate-app/unimate-backend/internal/store"
)

// UserStore is the credential store as seen by the handlers.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, upd store.UserUpdate) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// TokenStore mints, resolves, and revokes bearer tokens.
type TokenStore interface {
	Issue(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
	Revoke(ctx context.Context, token string) error
}

// AnnouncementStore holds the announcement feed.
type AnnouncementStore interface {
	Create(ctx context.Context, a *models.Announcement) error
	List(ctx context.Context, limit, skip int64) ([]models.Announcement, int64, error)
}

// Uploader pushes uploaded files to external storage and returns their URL.
type Uploader interface {
	UploadFileFromHeader(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error)
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
