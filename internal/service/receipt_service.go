package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rokko/warranty-tracker/internal/domain"
	"github.com/rokko/warranty-tracker/internal/repository"
	"github.com/rokko/warranty-tracker/internal/storage"
	"github.com/rs/zerolog"
)

const (
	MaxReceiptBytes = 10 << 20

	// ReceiptURLTTL is how long a signed receipt URL stays valid. Cached
	// URLs are dropped well before that so a handed-out link always has
	// time left.
	ReceiptURLTTL      = time.Hour
	receiptURLCacheTTL = 50 * time.Minute
	receiptURLCacheMax = 1024
)

var (
	ErrReceiptTooLarge      = errors.New("receipt exceeds 10MB")
	ErrUnsupportedReceipt   = errors.New("receipt must be a JPEG, PNG, WebP image or a PDF")
	ErrReceiptStoreDisabled = errors.New("receipt storage is not configured")
)

var receiptExtensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/webp":      "webp",
	"application/pdf": "pdf",
}

type ReceiptService struct {
	warrantyRepo repository.WarrantyRepository
	store        storage.ReceiptStore
	urls         *expirable.LRU[string, string]
	now          func() time.Time
	log          zerolog.Logger
}

func NewReceiptService(warrantyRepo repository.WarrantyRepository, store storage.ReceiptStore, now func() time.Time, log zerolog.Logger) *ReceiptService {
	return &ReceiptService{
		warrantyRepo: warrantyRepo,
		store:        store,
		urls:         expirable.NewLRU[string, string](receiptURLCacheMax, nil, receiptURLCacheTTL),
		now:          now,
		log:          log,
	}
}

// Upload stores data as the warranty's receipt, replacing any previous one.
// The content type is sniffed from the bytes, not taken from the client.
func (s *ReceiptService) Upload(ctx context.Context, ownerID, warrantyID uuid.UUID, data []byte) (*domain.Warranty, error) {
	if s.store == nil {
		return nil, ErrReceiptStoreDisabled
	}
	if len(data) > MaxReceiptBytes {
		return nil, ErrReceiptTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := receiptExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedReceipt
	}

	w, err := s.warrantyRepo.GetForOwner(ctx, warrantyID, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrWarrantyNotFound
	}
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%d.%s", ownerID, s.now().UnixMilli(), ext)
	if err := s.store.Put(ctx, key, contentType, data); err != nil {
		return nil, fmt.Errorf("store receipt: %w", err)
	}

	previous := w.ReceiptPath
	w.ReceiptPath = &key
	if err := s.warrantyRepo.Update(ctx, w); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrWarrantyNotFound
		}
		return nil, fmt.Errorf("attach receipt: %w", err)
	}

	if previous != nil && *previous != key {
		s.urls.Remove(*previous)
		if err := s.store.Delete(ctx, *previous); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			s.log.Warn().Err(err).Str("warrantyId", warrantyID.String()).Msg("[ReceiptService.Upload] old receipt cleanup failed")
		}
	}
	return w, nil
}

// SignedURL returns a time-limited link to the receipt of an owned warranty.
func (s *ReceiptService) SignedURL(ctx context.Context, ownerID, warrantyID uuid.UUID) (string, error) {
	if s.store == nil {
		return "", ErrReceiptStoreDisabled
	}

	w, err := s.warrantyRepo.GetForOwner(ctx, warrantyID, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", domain.ErrWarrantyNotFound
	}
	if err != nil {
		return "", err
	}
	if w.ReceiptPath == nil {
		return "", domain.ErrNoReceipt
	}

	if url, ok := s.urls.Get(*w.ReceiptPath); ok {
		return url, nil
	}

	url, err := s.store.PresignGet(ctx, *w.ReceiptPath, ReceiptURLTTL)
	if err != nil {
		return "", fmt.Errorf("sign receipt url: %w", err)
	}
	s.urls.Add(*w.ReceiptPath, url)
	return url, nil
}
