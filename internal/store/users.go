package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/unimate-app/unimate-backend/internal/models"
)

const userColumns = "id, created_at, email, username, password_hash, name, bio, profile_image, is_admin"

// UserStore is the durable store of user accounts. Email and username
// uniqueness is enforced by the table's UNIQUE constraints, so check-and-insert
// is a single atomic operation: concurrent duplicates surface as ErrDuplicateKey.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user. Fills in ID and CreatedAt when unset.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, created_at, email, username, password_hash, name, bio, profile_image, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, user.ID, user.CreatedAt, user.Email, user.Username, user.PasswordHash,
		user.Name, user.Bio, user.ProfileImage, user.IsAdmin)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByEmail returns the user with the given email, or ErrNotFound.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

// FindByUsername returns the user with the given (normalized) username, or ErrNotFound.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

// FindByID returns the user with the given id, or ErrNotFound.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (s *UserStore) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.CreatedAt, &user.Email, &user.Username, &user.PasswordHash,
		&user.Name, &user.Bio, &user.ProfileImage, &user.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// UserUpdate holds the editable profile fields; nil means "leave unchanged".
type UserUpdate struct {
	Email        *string
	Username     *string
	Name         *string
	Bio          *string
	ProfileImage *string
}

// Update applies the non-nil fields of upd to the user with the given id and
// returns the updated record. Uniqueness collisions on email/username are
// settled by the database constraint and surface as ErrDuplicateKey.
func (s *UserStore) Update(ctx context.Context, id uuid.UUID, upd UserUpdate) (*models.User, error) {
	var set []string
	var args []interface{}

	add := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("email", upd.Email)
	add("username", upd.Username)
	add("name", upd.Name)
	add("bio", upd.Bio)
	add("profile_image", upd.ProfileImage)

	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), userColumns)

	var user models.User
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.CreatedAt, &user.Email, &user.Username, &user.PasswordHash,
		&user.Name, &user.Bio, &user.ProfileImage, &user.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

// List returns all users, newest first.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.CreatedAt, &user.Email, &user.Username, &user.PasswordHash,
			&user.Name, &user.Bio, &user.ProfileImage, &user.IsAdmin); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// 23505 is the PostgreSQL unique_violation code.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
