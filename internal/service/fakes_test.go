package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/domain"
	"github.com/rokko/warranty-tracker/internal/email"
	"github.com/rokko/warranty-tracker/internal/repository"
)

type fakeSettingRepo struct {
	repository.ReminderSettingRepository
	settings []*domain.ReminderSetting
	err      error
}

func (f *fakeSettingRepo) ListEmailEnabled(context.Context) ([]*domain.ReminderSetting, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.ReminderSetting
	for _, s := range f.settings {
		if s.EmailEnabled {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeWarrantyRepo struct {
	repository.WarrantyRepository
	mu         sync.Mutex
	warranties []*domain.Warranty
	failFor    map[uuid.UUID]error
	queries    int
}

func newFakeWarrantyRepo() *fakeWarrantyRepo {
	return &fakeWarrantyRepo{failFor: map[uuid.UUID]error{}}
}

func (f *fakeWarrantyRepo) add(owner uuid.UUID, name string, expires domain.Date) *domain.Warranty {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := &domain.Warranty{
		ID:              uuid.New(),
		UserID:          owner,
		ProductName:     name,
		PurchaseDate:    expires.AddDays(-365),
		WarrantyExpires: expires,
	}
	f.warranties = append(f.warranties, w)
	return w
}

func (f *fakeWarrantyRepo) ListExpiringOn(_ context.Context, ownerID uuid.UUID, date domain.Date) ([]*domain.Warranty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if err, ok := f.failFor[ownerID]; ok {
		return nil, err
	}
	var out []*domain.Warranty
	for _, w := range f.warranties {
		if w.UserID == ownerID && w.WarrantyExpires == date {
			out = append(out, w)
		}
	}
	return out, nil
}

type fakeEmails map[uuid.UUID]email.Address

func (f fakeEmails) EmailForUser(_ context.Context, userID uuid.UUID) (email.Address, error) {
	addr, ok := f[userID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return addr, nil
}
