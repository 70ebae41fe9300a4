package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/domain"
)

// ErrNotFound is returned by point lookups that match no row.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type WarrantyRepository interface {
	Create(ctx context.Context, warranty *domain.Warranty) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Warranty, error)
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Warranty, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Warranty, error)
	// ListExpiringOn returns the owner's warranties whose expiry equals date.
	ListExpiringOn(ctx context.Context, ownerID uuid.UUID, date domain.Date) ([]*domain.Warranty, error)
	// ListExpiringBetween returns the owner's warranties expiring in [from, to],
	// soonest first.
	ListExpiringBetween(ctx context.Context, ownerID uuid.UUID, from, to domain.Date) ([]*domain.Warranty, error)
	// Update writes the editable columns and the receipt path. It never
	// changes the owner and returns ErrNotFound if warranty.UserID no longer
	// owns the row.
	Update(ctx context.Context, warranty *domain.Warranty) error
	// Delete removes the warranty if ownerID owns it and reports whether a row went away.
	Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
	// TransferOwnership moves the warranty from one owner to another. It
	// changes nothing and returns false if from is not the current owner.
	TransferOwnership(ctx context.Context, id, from, to uuid.UUID) (bool, error)
}

type ReminderSettingRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.ReminderSetting, error)
	Upsert(ctx context.Context, setting *domain.ReminderSetting) error
	ListEmailEnabled(ctx context.Context) ([]*domain.ReminderSetting, error)
}

type TransferTokenRepository interface {
	Create(ctx context.Context, token *domain.TransferToken) error
	GetByToken(ctx context.Context, token string) (*domain.TransferToken, error)
	// MarkClaimed records the claim only if the token is still unclaimed and
	// unexpired at `at`. It returns false when another claim got there first
	// or the token has expired.
	MarkClaimed(ctx context.Context, id, claimer uuid.UUID, at time.Time) (bool, error)
}

// TxRunner runs fn inside a database transaction. The Repositories passed to
// fn are bound to that transaction; returning an error rolls it back.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

type Repositories struct {
	User            UserRepository
	Warranty        WarrantyRepository
	ReminderSetting ReminderSettingRepository
	TransferToken   TransferTokenRepository
	Tx              TxRunner
}
