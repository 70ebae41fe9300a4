package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// CronSecret guards scheduler-only endpoints with a shared bearer secret.
// An empty secret is a deployment mistake, so every request fails with 500
// rather than the endpoint being left open.
func CronSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				Logger(r.Context()).Error().Msg("[middleware.CronSecret] CRON_SECRET is not configured")
				http.Error(w, "Cron secret not configured", http.StatusInternalServerError)
				return
			}

			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				Logger(r.Context()).Warn().Msg("[middleware.CronSecret] rejected request")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
