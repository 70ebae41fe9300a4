package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with a unique email
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:    fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	// MinCost keeps builder-heavy tests fast
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// BuildAndAuthenticate registers a user via the API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"email":    b.email,
		"password": b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:    userID,
		Email: authResp.User.Email,
	}

	return user, authResp.AccessToken
}

// WarrantyBuilder creates test warranties with a builder pattern
type WarrantyBuilder struct {
	owner     *domain.User
	name      string
	brand     string
	purchased domain.Date
	expires   domain.Date
	receipt   *string
}

// NewWarrantyBuilder creates a new WarrantyBuilder expiring a year from today
func NewWarrantyBuilder() *WarrantyBuilder {
	today := domain.Today(time.Now(), time.UTC)
	return &WarrantyBuilder{
		name:      fmt.Sprintf("Product %s", uuid.New().String()[:6]),
		purchased: today.AddDays(-30),
		expires:   today.AddDays(365),
	}
}

// WithOwner sets the owning user
func (b *WarrantyBuilder) WithOwner(user *domain.User) *WarrantyBuilder {
	b.owner = user
	return b
}

// WithName sets the product name
func (b *WarrantyBuilder) WithName(name string) *WarrantyBuilder {
	b.name = name
	return b
}

// WithBrand sets the brand
func (b *WarrantyBuilder) WithBrand(brand string) *WarrantyBuilder {
	b.brand = brand
	return b
}

// WithExpires sets the expiry date, moving the purchase date before it if needed
func (b *WarrantyBuilder) WithExpires(d domain.Date) *WarrantyBuilder {
	b.expires = d
	if d.Before(b.purchased) {
		b.purchased = d.AddDays(-365)
	}
	return b
}

// WithPurchased sets the purchase date
func (b *WarrantyBuilder) WithPurchased(d domain.Date) *WarrantyBuilder {
	b.purchased = d
	return b
}

// WithReceipt sets the receipt object key
func (b *WarrantyBuilder) WithReceipt(key string) *WarrantyBuilder {
	b.receipt = &key
	return b
}

// Build creates the warranty in the database, creating an owner if none was set
func (b *WarrantyBuilder) Build(t *testing.T, db *gorm.DB) *domain.Warranty {
	t.Helper()

	if b.owner == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.owner = user
	}

	w := &domain.Warranty{
		ID:     uuid.New(),
		UserID: b.owner.ID,
	}
	err := w.Apply(domain.WarrantyInput{
		ProductName:     b.name,
		Brand:           b.brand,
		PurchaseDate:    b.purchased,
		WarrantyExpires: b.expires,
	})
	if err != nil {
		t.Fatalf("invalid warranty fixture: %v", err)
	}
	w.ReceiptPath = b.receipt

	if err := db.Create(w).Error; err != nil {
		t.Fatalf("failed to create warranty: %v", err)
	}

	return w
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
