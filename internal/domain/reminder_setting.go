package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultReminderDays = 30
	MaxReminderDays     = 365
	DefaultLocale       = "en"
)

// ReminderPresets are the lead times offered by the settings screen. Other
// values are accepted.
var ReminderPresets = []int{7, 14, 30, 60, 90}

var SupportedLocales = []string{"en", "hr", "sr", "de", "si"}

// ReminderSetting holds one user's reminder preferences. There is at most
// one row per user. Columns carry no gorm defaults: gorm skips zero values
// for defaulted columns on insert, and 0 is a valid lead time.
type ReminderSetting struct {
	UserID       uuid.UUID `json:"userId" gorm:"type:uuid;primary_key"`
	EmailEnabled bool      `json:"emailEnabled" gorm:"not null;index"`
	InAppEnabled bool      `json:"inAppEnabled" gorm:"not null"`
	ReminderDays int       `json:"reminderDays" gorm:"not null"`
	Locale       string    `json:"locale" gorm:"size:8;not null"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func DefaultReminderSetting(userID uuid.UUID) *ReminderSetting {
	return &ReminderSetting{
		UserID:       userID,
		ReminderDays: DefaultReminderDays,
		Locale:       DefaultLocale,
	}
}

func (s *ReminderSetting) Validate() error {
	if s.ReminderDays < 0 || s.ReminderDays > MaxReminderDays {
		return invalid("reminderDays", "must be between 0 and %d", MaxReminderDays)
	}
	return nil
}

// NormalizeLocale returns locale if supported, DefaultLocale otherwise.
func NormalizeLocale(locale string) string {
	for _, l := range SupportedLocales {
		if l == locale {
			return l
		}
	}
	return DefaultLocale
}
