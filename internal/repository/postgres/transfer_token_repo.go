package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/domain"
	"gorm.io/gorm"
)

type transferTokenRepository struct {
	db *gorm.DB
}

func NewTransferTokenRepository(db *gorm.DB) *transferTokenRepository {
	return &transferTokenRepository{db: db}
}

func (r *transferTokenRepository) Create(ctx context.Context, token *domain.TransferToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *transferTokenRepository) GetByToken(ctx context.Context, token string) (*domain.TransferToken, error) {
	var t domain.TransferToken
	err := r.db.WithContext(ctx).First(&t, "token = ?", token).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// MarkClaimed is a compare-and-swap on claimed_by IS NULL. Under concurrent
// claims postgres serializes the row update, and the loser re-evaluates the
// predicate against the committed row and matches nothing.
func (r *transferTokenRepository) MarkClaimed(ctx context.Context, id, claimer uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.TransferToken{}).
		Where("id = ? AND claimed_by IS NULL AND expires_at > ?", id, at).
		Updates(map[string]interface{}{
			"claimed_by": claimer,
			"claimed_at": at,
		})
	return res.RowsAffected == 1, res.Error
}
