package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a campus account. PasswordHash is never serialized to clients.
type User struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`

	// Profile fields editable through PUT /user/profile
	Name         string `json:"name,omitempty"`
	Bio          string `json:"bio,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`

	// IsAdmin gates announcement creation.
	IsAdmin bool `json:"is_admin"`
}
