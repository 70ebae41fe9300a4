package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/domain"
	"github.com/rokko/warranty-tracker/internal/repository"
)

type SettingsService struct {
	settingRepo repository.ReminderSettingRepository
	now         func() time.Time
}

func NewSettingsService(settingRepo repository.ReminderSettingRepository, now func() time.Time) *SettingsService {
	return &SettingsService{
		settingRepo: settingRepo,
		now:         now,
	}
}

type SettingsInput struct {
	EmailEnabled bool
	InAppEnabled bool
	ReminderDays int
	Locale       string
}

// Get returns the user's settings, or the defaults if none were saved.
func (s *SettingsService) Get(ctx context.Context, userID uuid.UUID) (*domain.ReminderSetting, error) {
	setting, err := s.settingRepo.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.DefaultReminderSetting(userID), nil
	}
	return setting, err
}

func (s *SettingsService) Save(ctx context.Context, userID uuid.UUID, in SettingsInput) (*domain.ReminderSetting, error) {
	setting := &domain.ReminderSetting{
		UserID:       userID,
		EmailEnabled: in.EmailEnabled,
		InAppEnabled: in.InAppEnabled,
		ReminderDays: in.ReminderDays,
		Locale:       domain.NormalizeLocale(in.Locale),
		UpdatedAt:    s.now(),
	}
	if err := setting.Validate(); err != nil {
		return nil, err
	}

	if err := s.settingRepo.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	return setting, nil
}
