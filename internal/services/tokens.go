package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// TokenKeyPrefix is the Redis key prefix for bearer tokens
	TokenKeyPrefix = "token:"
	// tokenBytes is the entropy of an issued token (before base64)
	tokenBytes = 32
)

// ErrTokenInvalid covers unknown, expired, and revoked tokens alike: callers
// cannot tell whether a rejected token ever existed.
var ErrTokenInvalid = errors.New("invalid or expired token")

// TokenStore mints and resolves opaque bearer tokens. Tokens are random
// strings bound to a single user id, stored in Redis with a TTL; expiry is
// Redis's own key expiration, so an expired token is simply absent.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Issue creates a new token for the user with the given time-to-live.
func (s *TokenStore) Issue(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(raw)

	if err := s.client.Set(ctx, TokenKeyPrefix+token, userID.String(), ttl).Err(); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Resolve returns the user id a token was issued to, or ErrTokenInvalid.
func (s *TokenStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrTokenInvalid
	}

	userIDStr, err := s.client.Get(ctx, TokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrTokenInvalid
		}
		return uuid.Nil, fmt.Errorf("load token: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return userID, nil
}

// Revoke deletes a token so it can no longer resolve. Revoking a token that
// does not exist is not an error.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.client.Del(ctx, TokenKeyPrefix+token).Err()
}
