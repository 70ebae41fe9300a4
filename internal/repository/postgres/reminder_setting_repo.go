package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reminderSettingRepository struct {
	db *gorm.DB
}

func NewReminderSettingRepository(db *gorm.DB) *reminderSettingRepository {
	return &reminderSettingRepository{db: db}
}

func (r *reminderSettingRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.ReminderSetting, error) {
	var setting domain.ReminderSetting
	err := r.db.WithContext(ctx).First(&setting, "user_id = ?", userID).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &setting, nil
}

func (r *reminderSettingRepository) Upsert(ctx context.Context, setting *domain.ReminderSetting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email_enabled", "in_app_enabled", "reminder_days", "locale", "updated_at"}),
		}).
		Create(setting).Error
}

func (r *reminderSettingRepository) ListEmailEnabled(ctx context.Context) ([]*domain.ReminderSetting, error) {
	var settings []*domain.ReminderSetting
	err := r.db.WithContext(ctx).
		Where("email_enabled = ?", true).
		Order("user_id").
		Find(&settings).Error
	return settings, err
}
