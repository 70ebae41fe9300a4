package postgres

import (
	"context"

	"github.com/rokko/warranty-tracker/internal/repository"
	"gorm.io/gorm"
)

type txRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *txRunner {
	return &txRunner{db: db}
}

func (r *txRunner) WithTransaction(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
