package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/domain"
	"github.com/rokko/warranty-tracker/internal/repository"
)

type Notification struct {
	WarrantyID      uuid.UUID   `json:"warrantyId"`
	ProductName     string      `json:"productName"`
	Brand           *string     `json:"brand"`
	WarrantyExpires domain.Date `json:"warrantyExpires"`
	DaysLeft        int         `json:"daysLeft"`
}

// NotificationService lists the in-app expiry notices for a user.
type NotificationService struct {
	settings     *SettingsService
	warrantyRepo repository.WarrantyRepository
	loc          *time.Location
	now          func() time.Time
}

func NewNotificationService(settings *SettingsService, warrantyRepo repository.WarrantyRepository, loc *time.Location, now func() time.Time) *NotificationService {
	return &NotificationService{
		settings:     settings,
		warrantyRepo: warrantyRepo,
		loc:          loc,
		now:          now,
	}
}

// List returns warranties expiring between today and today + the user's
// lead time, soonest first. It is empty when in-app reminders are off.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	setting, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !setting.InAppEnabled {
		return []Notification{}, nil
	}

	today := domain.Today(s.now(), s.loc)
	warranties, err := s.warrantyRepo.ListExpiringBetween(ctx, userID, today, today.AddDays(setting.ReminderDays))
	if err != nil {
		return nil, err
	}

	out := make([]Notification, 0, len(warranties))
	for _, w := range warranties {
		out = append(out, Notification{
			WarrantyID:      w.ID,
			ProductName:     w.ProductName,
			Brand:           w.Brand,
			WarrantyExpires: w.WarrantyExpires,
			DaysLeft:        today.DaysUntil(w.WarrantyExpires),
		})
	}
	return out, nil
}
