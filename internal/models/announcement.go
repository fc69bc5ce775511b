package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement is a campus-wide feed post. Immutable once created.
type Announcement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	UserID  string `bson:"user_id" json:"user_id"`
	Message string `bson:"message" json:"message"`
	Image   string `bson:"image,omitempty" json:"image,omitempty"`
}
