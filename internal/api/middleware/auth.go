package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/service"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
)

var (
	errMissingHeader = errors.New("Authorization header required")
	errBadHeader     = errors.New("Invalid authorization header")
	errBadToken      = errors.New("Invalid token")
)

// Auth rejects requests without a valid bearer token and stores the
// caller's user id in the request context.
func Auth(authn service.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := authenticate(r, authn)
			if err != nil {
				Logger(r.Context()).Warn().Err(err).Msg("[middleware.Auth] rejected request")
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// LoginRequired is Auth for pages a signed-out visitor can land on from a
// link. The 401 body carries where to send them so they come back after
// signing in.
func LoginRequired(authn service.Authenticator, loginURL func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := authenticate(r, authn)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{
					"error":    err.Error(),
					"loginUrl": loginURL(r),
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func authenticate(r *http.Request, authn service.Authenticator) (uuid.UUID, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return uuid.Nil, errMissingHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return uuid.Nil, errBadHeader
	}

	userID, err := authn.Authenticate(r.Context(), parts[1])
	if err != nil {
		return uuid.Nil, errBadToken
	}
	return userID, nil
}

func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
