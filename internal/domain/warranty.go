package domain

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxNameLength     = 100
	MaxCategoryLength = 50
	MaxNotesLength    = 500
	MaxPrice          = 9_999_999

	// ExpiringWindowDays is how close to expiry a warranty counts as "expiring"
	// on the dashboard.
	ExpiringWindowDays = 30
)

type Warranty struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID          uuid.UUID `json:"userId" gorm:"type:uuid;not null;index:idx_warranties_user_expires,priority:1"`
	ProductName     string    `json:"productName" gorm:"size:100;not null"`
	Brand           *string   `json:"brand" gorm:"size:100"`
	PurchaseDate    Date      `json:"purchaseDate" gorm:"not null"`
	WarrantyExpires Date      `json:"warrantyExpires" gorm:"not null;index:idx_warranties_user_expires,priority:2"`
	Category        *string   `json:"category" gorm:"size:50"`
	Store           *string   `json:"store" gorm:"size:100"`
	Price           *float64  `json:"price" gorm:"type:numeric(10,2)"`
	SerialNumber    *string   `json:"serialNumber" gorm:"size:100"`
	Notes           *string   `json:"notes" gorm:"size:500"`
	ReceiptPath     *string   `json:"receiptPath"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// WarrantyInput is the user-editable part of a warranty as submitted by a form.
type WarrantyInput struct {
	ProductName     string
	Brand           string
	PurchaseDate    Date
	WarrantyExpires Date
	Category        string
	Store           string
	Price           *float64
	SerialNumber    string
	Notes           string
}

// Apply validates in and copies it onto w. Text is trimmed and truncated to
// its column length; empty optional text becomes nil. On error w is left
// unchanged.
func (w *Warranty) Apply(in WarrantyInput) error {
	name := clip(in.ProductName, MaxNameLength)
	if name == "" {
		return invalid("productName", "is required")
	}
	if in.PurchaseDate.IsZero() {
		return invalid("purchaseDate", "is required")
	}
	if in.WarrantyExpires.IsZero() {
		return invalid("warrantyExpires", "is required")
	}
	if in.WarrantyExpires.Before(in.PurchaseDate) {
		return invalid("warrantyExpires", "must not be before the purchase date")
	}
	if in.Price != nil {
		p := *in.Price
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return invalid("price", "must be a number")
		}
		if p < 0 {
			return invalid("price", "cannot be negative")
		}
		if p > MaxPrice {
			return invalid("price", "must not exceed %d", MaxPrice)
		}
		// stored as numeric(10,2)
		if cents := p * 100; math.Abs(cents-math.Round(cents)) > 1e-6 {
			return invalid("price", "must have at most 2 decimal places")
		}
	}

	w.ProductName = name
	w.Brand = optional(in.Brand, MaxNameLength)
	w.PurchaseDate = in.PurchaseDate
	w.WarrantyExpires = in.WarrantyExpires
	w.Category = optional(in.Category, MaxCategoryLength)
	w.Store = optional(in.Store, MaxNameLength)
	w.Price = in.Price
	w.SerialNumber = optional(in.SerialNumber, MaxNameLength)
	w.Notes = optional(in.Notes, MaxNotesLength)
	return nil
}

type WarrantyStatus string

const (
	WarrantyStatusActive   WarrantyStatus = "active"
	WarrantyStatusExpiring WarrantyStatus = "expiring"
	WarrantyStatusExpired  WarrantyStatus = "expired"
)

func (w *Warranty) Status(today Date) WarrantyStatus {
	switch {
	case w.WarrantyExpires.Before(today):
		return WarrantyStatusExpired
	case !w.WarrantyExpires.After(today.AddDays(ExpiringWindowDays)):
		return WarrantyStatusExpiring
	default:
		return WarrantyStatusActive
	}
}

// WarrantySummary is what a claimant sees before accepting a transfer.
type WarrantySummary struct {
	ID              uuid.UUID `json:"id"`
	ProductName     string    `json:"productName"`
	Brand           *string   `json:"brand"`
	PurchaseDate    Date      `json:"purchaseDate"`
	WarrantyExpires Date      `json:"warrantyExpires"`
	Category        *string   `json:"category"`
	Notes           *string   `json:"notes"`
}

func (w *Warranty) Summary() *WarrantySummary {
	return &WarrantySummary{
		ID:              w.ID,
		ProductName:     w.ProductName,
		Brand:           w.Brand,
		PurchaseDate:    w.PurchaseDate,
		WarrantyExpires: w.WarrantyExpires,
		Category:        w.Category,
		Notes:           w.Notes,
	}
}

func clip(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func optional(s string, max int) *string {
	s = clip(s, max)
	if s == "" {
		return nil
	}
	return &s
}
