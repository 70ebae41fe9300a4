package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/api/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator map[string]uuid.UUID

func (f fakeAuthenticator) Authenticate(_ context.Context, token string) (uuid.UUID, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return uuid.Nil, errors.New("unknown token")
}

// echoUser writes the authenticated user id.
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetUserID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Write([]byte(id.String()))
})

func TestAuth(t *testing.T) {
	userID := uuid.New()
	authn := fakeAuthenticator{"good": userID}
	handler := middleware.Auth(authn)(echoUser)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"valid bearer token", "Bearer good", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"extra parts", "Bearer good extra", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
			}
		})
	}
}

func TestLoginRequired(t *testing.T) {
	userID := uuid.New()
	r := chi.NewRouter()
	r.With(middleware.LoginRequired(fakeAuthenticator{"good": userID}, func(r *http.Request) string {
		return "/auth?redirect=/claim/" + chi.URLParam(r, "token")
	})).Get("/claim/{token}", echoUser)

	req := httptest.NewRequest("GET", "/claim/abc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/auth?redirect=/claim/abc", body["loginUrl"])

	req = httptest.NewRequest("GET", "/claim/abc", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String(), rec.Body.String())
}

func TestCronSecret(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		secret         string
		header         string
		expectedStatus int
	}{
		{"matching secret", "s3cret", "Bearer s3cret", http.StatusOK},
		{"wrong secret", "s3cret", "Bearer s3cre", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"bare secret", "s3cret", "s3cret", http.StatusUnauthorized},
		{"unconfigured secret", "", "Bearer ", http.StatusInternalServerError},
		{"unconfigured secret without header", "", "", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/cron/reminders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			middleware.CronSecret(tt.secret)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("OPTIONS", "/api/v1/warranties", nil)
	rec := httptest.NewRecorder()
	middleware.CORS("https://app.example.com")(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	req = httptest.NewRequest("GET", "/api/v1/warranties", nil)
	rec = httptest.NewRecorder()
	middleware.CORS("")(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	handler := chiMiddleware.RequestID(middleware.RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.Logger(r.Context()).Info().Msg("inside")
		http.Error(w, "nope", http.StatusNotFound)
	})))

	req := httptest.NewRequest("GET", "/api/v1/warranties/x", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inner, access map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &access))

	assert.NotEmpty(t, inner["requestId"])
	assert.Equal(t, inner["requestId"], access["requestId"])
	assert.Equal(t, "warn", access["level"])
	assert.EqualValues(t, 404, access["status"])
	assert.Equal(t, "/api/v1/warranties/x", access["path"])
}
