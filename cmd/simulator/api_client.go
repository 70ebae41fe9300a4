package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Response types matching backend

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

type Warranty struct {
	ID              string `json:"id"`
	UserID          string `json:"userId"`
	ProductName     string `json:"productName"`
	WarrantyExpires string `json:"warrantyExpires"`
}

type TransferLink struct {
	Token     string    `json:"token"`
	ClaimURL  string    `json:"claimUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ClaimOutcome struct {
	Status   string    `json:"status"`
	Warranty *Warranty `json:"warranty"`
}

type Diagnostic struct {
	UserID     string `json:"userId"`
	TargetDate string `json:"targetDate"`
	Warranties int    `json:"warranties"`
	Recipient  string `json:"recipient"`
	Outcome    string `json:"outcome"`
	Error      string `json:"error"`
}

type CronResult struct {
	Success      bool         `json:"success"`
	EmailsSent   int          `json:"emailsSent"`
	UsersChecked int          `json:"usersChecked"`
	Diagnostics  []Diagnostic `json:"diagnostics"`
	Message      string       `json:"message"`
}

// RegisterUser creates a new account. An empty email gets a unique one.
func (c *APIClient) RegisterUser(email string) (*User, string, error) {
	if email == "" {
		email = fmt.Sprintf("sim_%d@example.com", time.Now().UnixNano()%1000000)
	}

	body := map[string]string{
		"email":    email,
		"password": "testpassword123",
	}

	var result AuthResponse
	if err := c.do("POST", "/api/v1/auth/register", body, "", http.StatusCreated, &result); err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}
	return &result.User, result.AccessToken, nil
}

// SaveSettings turns on email and in-app reminders with the given lead time
func (c *APIClient) SaveSettings(token string, days int) error {
	body := map[string]interface{}{
		"emailEnabled": true,
		"inAppEnabled": true,
		"reminderDays": days,
		"locale":       "en",
	}
	return c.do("PUT", "/api/v1/settings", body, token, http.StatusOK, nil)
}

// CreateWarranty adds a warranty bought a year before it expires
func (c *APIClient) CreateWarranty(token, name, brand string, expires time.Time) (*Warranty, error) {
	body := map[string]interface{}{
		"productName":     name,
		"brand":           brand,
		"purchaseDate":    expires.AddDate(-1, 0, 0).Format("2006-01-02"),
		"warrantyExpires": expires.Format("2006-01-02"),
	}

	var w Warranty
	if err := c.do("POST", "/api/v1/warranties", body, token, http.StatusCreated, &w); err != nil {
		return nil, fmt.Errorf("create warranty: %w", err)
	}
	return &w, nil
}

// CreateTransferLink issues a claim link for a warranty
func (c *APIClient) CreateTransferLink(token, warrantyID string) (*TransferLink, error) {
	var link TransferLink
	if err := c.do("POST", "/api/v1/warranties/"+warrantyID+"/transfer", nil, token, http.StatusCreated, &link); err != nil {
		return nil, fmt.Errorf("create transfer link: %w", err)
	}
	return &link, nil
}

// PreviewClaim resolves a claim link without using it
func (c *APIClient) PreviewClaim(token, claimToken string) (*ClaimOutcome, error) {
	resp, err := c.request("GET", "/api/v1/claim/"+claimToken, nil, token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// terminal outcomes come with a 4xx but the same body
	var outcome ClaimOutcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	return &outcome, nil
}

// Claim takes ownership of the warranty behind a claim link
func (c *APIClient) Claim(token, claimToken string) (*ClaimOutcome, error) {
	var outcome ClaimOutcome
	if err := c.do("POST", "/api/v1/claim/"+claimToken, nil, token, http.StatusOK, &outcome); err != nil {
		return nil, fmt.Errorf("claim: %w", err)
	}
	return &outcome, nil
}

// RunReminders triggers the reminder job through the cron endpoint
func (c *APIClient) RunReminders(cronSecret string) (*CronResult, error) {
	var result CronResult
	if err := c.do("POST", "/api/cron/reminders", nil, cronSecret, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("run reminders: %w", err)
	}
	return &result, nil
}

// do sends a request, checks the status and decodes the JSON body into out
func (c *APIClient) do(method, path string, body interface{}, token string, wantStatus int, out interface{}) error {
	resp, err := c.request(method, path, body, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(bodyBytes))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *APIClient) request(method, path string, body interface{}, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}
