package resend_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rokko/warranty-tracker/internal/email/resend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSender_Send(t *testing.T) {
	var got struct {
		From    string   `json:"from"`
		To      []string `json:"to"`
		Subject string   `json:"subject"`
		HTML    string   `json:"html"`
	}
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	defer srv.Close()

	s := resend.NewSender(srv.Client(), resend.Settings{APIURL: srv.URL, APIKey: "re_test"})
	err := s.Send(t.Context(), "Rokko <noreply@example.com>", "jane@example.com", "subject", "<p>body</p>")
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, "Rokko <noreply@example.com>", got.From)
	assert.Equal(t, []string{"jane@example.com"}, got.To)
	assert.Equal(t, "subject", got.Subject)
	assert.Equal(t, "<p>body</p>", got.HTML)
}

func TestSender_SendError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "validation error",
			status:  http.StatusUnprocessableEntity,
			body:    `{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`,
			wantMsg: "Invalid to field",
		},
		{
			name:    "no body",
			status:  http.StatusInternalServerError,
			body:    ``,
			wantMsg: "resend returned 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s := resend.NewSender(srv.Client(), resend.Settings{APIURL: srv.URL, APIKey: "re_test"})
			err := s.Send(t.Context(), "noreply@example.com", "jane@example.com", "s", "b")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
