package service

import (
	"time"

	"github.com/rokko/warranty-tracker/internal/config"
	"github.com/rokko/warranty-tracker/internal/email"
	"github.com/rokko/warranty-tracker/internal/metrics"
	"github.com/rokko/warranty-tracker/internal/repository"
	"github.com/rokko/warranty-tracker/internal/storage"
	"github.com/rs/zerolog"
)

// Deps are the collaborators services need beyond the repositories.
// Store and Ledger may be nil; Clock defaults to time.Now.
type Deps struct {
	Sender  email.Sender
	Store   storage.ReceiptStore
	Ledger  ReminderLedger
	Metrics *metrics.Metrics
	Clock   func() time.Time
	Logger  zerolog.Logger
}

type Services struct {
	Auth         *AuthService
	Warranty     *WarrantyService
	Settings     *SettingsService
	Notification *NotificationService
	Receipt      *ReceiptService
	Transfer     *TransferService
	Reminder     *ReminderService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, deps Deps) *Services {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	log := deps.Logger

	auth := NewAuthService(repos.User, cfg)
	settings := NewSettingsService(repos.ReminderSetting, now)

	return &Services{
		Auth:         auth,
		Warranty:     NewWarrantyService(repos.Warranty, deps.Store, cfg.ReminderTimezone, now, log),
		Settings:     settings,
		Notification: NewNotificationService(settings, repos.Warranty, cfg.ReminderTimezone, now),
		Receipt:      NewReceiptService(repos.Warranty, deps.Store, now, log),
		Transfer:     NewTransferService(repos, cfg.AppURL, now, log),
		Reminder: NewReminderService(
			repos.ReminderSetting,
			repos.Warranty,
			auth,
			deps.Sender,
			deps.Ledger,
			deps.Metrics,
			ReminderConfig{
				From:          email.Address(cfg.FromEmail),
				Location:      cfg.ReminderTimezone,
				Concurrency:   cfg.ReminderConcurrency,
				RatePerSecond: cfg.EmailRatePerSecond,
			},
			now,
			log,
		),
	}
}
