package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rokko/warranty-tracker/internal/email"
)

// Settings contains the settings for the Resend API.
type Settings struct {
	APIURL string
	APIKey string
}

// Sender is an email sender that sends emails using the Resend API.
type Sender struct {
	client   *http.Client
	settings Settings
}

func NewSender(client *http.Client, s Settings) *Sender {
	return &Sender{
		client:   client,
		settings: s,
	}
}

type emailJSON struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type response struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send sends an email using the Resend API. Non-2xx responses are errors.
func (s *Sender) Send(ctx context.Context, from, recipient email.Address, subject, html string) error {
	data := emailJSON{
		From:    string(from),
		To:      []string{string(recipient)},
		Subject: subject,
		HTML:    html,
	}

	var b bytes.Buffer
	err := json.NewEncoder(&b).Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode email json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.settings.APIURL, &b)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.settings.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var res response
	_ = json.Unmarshal(body, &res)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if res.Message != "" {
			return fmt.Errorf("resend returned %d: %s: %s", resp.StatusCode, res.Name, res.Message)
		}
		return fmt.Errorf("resend returned %d", resp.StatusCode)
	}

	return nil
}
