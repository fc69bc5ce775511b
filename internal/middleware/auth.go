package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

// identityKey holds the authenticated user id for the current request only;
// nothing is retained across requests.
const identityKey contextKey = "authenticated_identity"

// TokenResolver resolves a bearer token to the user id it was issued to.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

// RequireAuth gates protected handlers. It extracts the bearer token from the
// Authorization header, resolves it, and attaches the authenticated identity
// to the request context. Missing, malformed, unknown, and expired tokens all
// get the same 401 so a caller cannot probe whether a token ever existed.
func RequireAuth(tokens TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			userID, err := tokens.Resolve(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), userID)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// WithIdentity returns a context carrying the authenticated user id.
func WithIdentity(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, identityKey, userID)
}

// IdentityFromContext returns the authenticated user id attached by RequireAuth.
func IdentityFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(identityKey).(uuid.UUID)
	return userID, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"Unauthorized"}`))
}
