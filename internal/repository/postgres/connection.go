package postgres

import (
	"errors"
	"time"

	"github.com/rokko/warranty-tracker/internal/domain"
	"github.com/rokko/warranty-tracker/internal/repository"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by this service, in migration order.
var Models = []interface{}{
	&domain.User{},
	&domain.Warranty{},
	&domain.ReminderSetting{},
	&domain.TransferToken{},
}

func NewConnection(databaseURL string, log zerolog.Logger) (*gorm.DB, error) {
	gormLog := log.With().Str("component", "gorm").Logger()
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.New(&gormLog, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:            NewUserRepository(db),
		Warranty:        NewWarrantyRepository(db),
		ReminderSetting: NewReminderSettingRepository(db),
		TransferToken:   NewTransferTokenRepository(db),
		Tx:              NewTxRunner(db),
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return err
}
