package handlers_test

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/unimate-app/unimate-backend/internal/models"
	"github.com/unimate-app/unimate-backend/internal/services"
	"github.com/unimate-app/unimate-backend/internal/store"
)

// fakeUserStore is an in-memory credential store honoring the email/username
// uniqueness contract of the real one.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return store.ErrDuplicateKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) Update(ctx context.Context, id uuid.UUID, upd store.UserUpdate) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for otherID, other := range f.users {
		if otherID == id {
			continue
		}
		if upd.Email != nil && other.Email == *upd.Email {
			return nil, store.ErrDuplicateKey
		}
		if upd.Username != nil && other.Username == *upd.Username {
			return nil, store.ErrDuplicateKey
		}
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.ProfileImage != nil {
		u.ProfileImage = *upd.ProfileImage
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) List(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

// fakeTokenStore issues predictable tokens.
type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]uuid.UUID
	issued int
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]uuid.UUID)}
}

func (f *fakeTokenStore) Issue(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued++
	token := fmt.Sprintf("token-%d", f.issued)
	f.tokens[token] = userID
	return token, nil
}

func (f *fakeTokenStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return uuid.Nil, services.ErrTokenInvalid
}

func (f *fakeTokenStore) Revoke(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

// fakeAnnouncementStore keeps announcements newest first.
type fakeAnnouncementStore struct {
	mu            sync.Mutex
	announcements []models.Announcement
	createErr     error
}

func (f *fakeAnnouncementStore) Create(ctx context.Context, a *models.Announcement) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	f.announcements = append([]models.Announcement{*a}, f.announcements...)
	return nil
}

func (f *fakeAnnouncementStore) List(ctx context.Context, limit, skip int64) ([]models.Announcement, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := int64(len(f.announcements))
	if skip >= total {
		return nil, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return append([]models.Announcement(nil), f.announcements[skip:end]...), total, nil
}

// fakeUploader records uploads without touching the network.
type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) UploadFileFromHeader(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}
