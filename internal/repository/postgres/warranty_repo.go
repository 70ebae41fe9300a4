package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/domain"
	"github.com/rokko/warranty-tracker/internal/repository"
	"gorm.io/gorm"
)

type warrantyRepository struct {
	db *gorm.DB
}

func NewWarrantyRepository(db *gorm.DB) *warrantyRepository {
	return &warrantyRepository{db: db}
}

func (r *warrantyRepository) Create(ctx context.Context, warranty *domain.Warranty) error {
	return r.db.WithContext(ctx).Create(warranty).Error
}

func (r *warrantyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Warranty, error) {
	var warranty domain.Warranty
	err := r.db.WithContext(ctx).First(&warranty, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &warranty, nil
}

func (r *warrantyRepository) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Warranty, error) {
	var warranty domain.Warranty
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&warranty).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &warranty, nil
}

func (r *warrantyRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Warranty, error) {
	var warranties []*domain.Warranty
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("warranty_expires ASC, created_at ASC").
		Find(&warranties).Error
	return warranties, err
}

func (r *warrantyRepository) ListExpiringOn(ctx context.Context, ownerID uuid.UUID, date domain.Date) ([]*domain.Warranty, error) {
	var warranties []*domain.Warranty
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND warranty_expires = ?", ownerID, date).
		Order("created_at ASC").
		Find(&warranties).Error
	return warranties, err
}

func (r *warrantyRepository) ListExpiringBetween(ctx context.Context, ownerID uuid.UUID, from, to domain.Date) ([]*domain.Warranty, error) {
	var warranties []*domain.Warranty
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND warranty_expires >= ? AND warranty_expires <= ?", ownerID, from, to).
		Order("warranty_expires ASC").
		Find(&warranties).Error
	return warranties, err
}

func (r *warrantyRepository) Update(ctx context.Context, warranty *domain.Warranty) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&domain.Warranty{}).
		Where("id = ? AND user_id = ?", warranty.ID, warranty.UserID).
		Updates(map[string]interface{}{
			"product_name":     warranty.ProductName,
			"brand":            warranty.Brand,
			"purchase_date":    warranty.PurchaseDate,
			"warranty_expires": warranty.WarrantyExpires,
			"category":         warranty.Category,
			"store":            warranty.Store,
			"price":            warranty.Price,
			"serial_number":    warranty.SerialNumber,
			"notes":            warranty.Notes,
			"receipt_path":     warranty.ReceiptPath,
			"updated_at":       now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	warranty.UpdatedAt = now
	return nil
}

func (r *warrantyRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&domain.Warranty{})
	return res.RowsAffected == 1, res.Error
}

func (r *warrantyRepository) TransferOwnership(ctx context.Context, id, from, to uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Warranty{}).
		Where("id = ? AND user_id = ?", id, from).
		Updates(map[string]interface{}{
			"user_id":    to,
			"updated_at": time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}
