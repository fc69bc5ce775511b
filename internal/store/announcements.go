package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unimate-app/unimate-backend/internal/models"
)

const announcementsCollection = "announcements"

// AnnouncementStore holds the campus announcement feed, newest first.
type AnnouncementStore struct {
	db *mongo.Database
}

func NewAnnouncementStore(db *mongo.Database) *AnnouncementStore {
	return &AnnouncementStore{db: db}
}

// EnsureIndexes creates the created_at index backing the feed ordering.
func (s *AnnouncementStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(announcementsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure announcement indexes: %w", err)
	}
	return nil
}

// Create persists a new announcement. Fills in ID and CreatedAt when unset.
func (s *AnnouncementStore) Create(ctx context.Context, a *models.Announcement) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	if _, err := s.db.Collection(announcementsCollection).InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert announcement: %w", err)
	}
	return nil
}

// List returns up to limit announcements, most recent first, skipping skip
// entries, plus the total count for pagination.
func (s *AnnouncementStore) List(ctx context.Context, limit, skip int64) ([]models.Announcement, int64, error) {
	coll := s.db.Collection(announcementsCollection)

	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find announcements: %w", err)
	}
	defer cursor.Close(ctx)

	var announcements []models.Announcement
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, 0, fmt.Errorf("decode announcements: %w", err)
	}
	return announcements, total, nil
}
