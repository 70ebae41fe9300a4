package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/domain"
	"github.com/rokko/warranty-tracker/internal/repository"
	"github.com/rokko/warranty-tracker/internal/storage"
	"github.com/rs/zerolog"
)

type WarrantyService struct {
	warrantyRepo repository.WarrantyRepository
	store        storage.ReceiptStore
	loc          *time.Location
	now          func() time.Time
	log          zerolog.Logger
}

func NewWarrantyService(warrantyRepo repository.WarrantyRepository, store storage.ReceiptStore, loc *time.Location, now func() time.Time, log zerolog.Logger) *WarrantyService {
	return &WarrantyService{
		warrantyRepo: warrantyRepo,
		store:        store,
		loc:          loc,
		now:          now,
		log:          log,
	}
}

func (s *WarrantyService) Create(ctx context.Context, ownerID uuid.UUID, in domain.WarrantyInput) (*domain.Warranty, error) {
	w := &domain.Warranty{
		ID:     uuid.New(),
		UserID: ownerID,
	}
	if err := w.Apply(in); err != nil {
		return nil, err
	}

	if err := s.warrantyRepo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create warranty: %w", err)
	}
	return w, nil
}

func (s *WarrantyService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Warranty, error) {
	return s.warrantyRepo.ListByOwner(ctx, ownerID)
}

// Get returns the warranty only if ownerID owns it. Someone else's warranty
// is reported as not found.
func (s *WarrantyService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Warranty, error) {
	w, err := s.warrantyRepo.GetForOwner(ctx, id, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrWarrantyNotFound
	}
	return w, err
}

func (s *WarrantyService) Update(ctx context.Context, ownerID, id uuid.UUID, in domain.WarrantyInput) (*domain.Warranty, error) {
	w, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := w.Apply(in); err != nil {
		return nil, err
	}
	if err := s.warrantyRepo.Update(ctx, w); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrWarrantyNotFound
		}
		return nil, fmt.Errorf("update warranty: %w", err)
	}
	return w, nil
}

// Delete removes the warranty and, best effort, its receipt file.
func (s *WarrantyService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	w, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}

	deleted, err := s.warrantyRepo.Delete(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete warranty: %w", err)
	}
	if !deleted {
		return domain.ErrWarrantyNotFound
	}

	if w.ReceiptPath != nil && s.store != nil {
		if err := s.store.Delete(ctx, *w.ReceiptPath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			s.log.Warn().Err(err).Str("warrantyId", id.String()).Msg("[WarrantyService.Delete] receipt cleanup failed")
		}
	}
	return nil
}

type WarrantyStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
}

func (s *WarrantyService) Stats(ctx context.Context, ownerID uuid.UUID) (*WarrantyStats, error) {
	warranties, err := s.warrantyRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	today := domain.Today(s.now(), s.loc)
	stats := &WarrantyStats{Total: len(warranties)}
	for _, w := range warranties {
		switch w.Status(today) {
		case domain.WarrantyStatusActive:
			stats.Active++
		case domain.WarrantyStatusExpiring:
			stats.Expiring++
		case domain.WarrantyStatusExpired:
			stats.Expired++
		}
	}
	return stats, nil
}
