package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/domain"
	"github.com/rokko/warranty-tracker/internal/repository"
	"github.com/rs/zerolog"
)

type TransferService struct {
	repos  *repository.Repositories
	appURL string
	now    func() time.Time
	log    zerolog.Logger
}

func NewTransferService(repos *repository.Repositories, appURL string, now func() time.Time, log zerolog.Logger) *TransferService {
	return &TransferService{
		repos:  repos,
		appURL: appURL,
		now:    now,
		log:    log,
	}
}

type TransferLink struct {
	Token     string    `json:"token"`
	ClaimURL  string    `json:"claimUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateToken issues a single-use transfer link for a warranty the caller
// owns. Warranties owned by someone else are reported as not found.
func (s *TransferService) CreateToken(ctx context.Context, callerID, warrantyID uuid.UUID) (*TransferLink, error) {
	w, err := s.repos.Warranty.GetForOwner(ctx, warrantyID, callerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrWarrantyNotFound
	}
	if err != nil {
		return nil, err
	}

	secret, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate transfer token: %w", err)
	}

	now := s.now()
	token := &domain.TransferToken{
		ID:         uuid.New(),
		Token:      secret.String(),
		WarrantyID: w.ID,
		CreatedBy:  callerID,
		ExpiresAt:  now.Add(domain.TransferTokenTTL),
		CreatedAt:  now,
	}
	if err := s.repos.TransferToken.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("create transfer token: %w", err)
	}

	s.log.Info().
		Str("warrantyId", w.ID.String()).
		Time("expiresAt", token.ExpiresAt).
		Msg("[TransferService.CreateToken] transfer link created")

	return &TransferLink{
		Token:     token.Token,
		ClaimURL:  s.appURL + "/claim/" + token.Token,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Resolve reports what claiming token would do right now without changing
// anything. Only storage failures are returned as errors.
func (s *TransferService) Resolve(ctx context.Context, token string) (domain.ClaimOutcome, error) {
	if _, err := uuid.Parse(token); err != nil {
		return domain.InvalidClaim(), nil
	}

	tok, err := s.repos.TransferToken.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.InvalidClaim(), nil
	}
	if err != nil {
		return domain.ClaimOutcome{}, err
	}

	switch tok.State(s.now()) {
	case domain.TokenStateClaimed:
		return domain.AlreadyClaimedClaim(), nil
	case domain.TokenStateExpired:
		return domain.ExpiredClaim(), nil
	}

	w, err := s.repos.Warranty.GetByID(ctx, tok.WarrantyID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.InvalidClaim(), nil
	}
	if err != nil {
		return domain.ClaimOutcome{}, err
	}
	if w.UserID != tok.CreatedBy {
		return domain.InvalidClaim(), nil
	}

	return domain.ReadyClaim(w), nil
}

// Claim moves the warranty behind token to callerID. The token update and
// the ownership change commit together or not at all, and of any number of
// concurrent claims exactly one succeeds.
func (s *TransferService) Claim(ctx context.Context, callerID uuid.UUID, token string) (*domain.Warranty, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, domain.ErrTokenInvalid
	}

	var claimed *domain.Warranty
	err := s.repos.Tx.WithTransaction(ctx, func(repos *repository.Repositories) error {
		now := s.now()

		tok, err := repos.TransferToken.GetByToken(ctx, token)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrTokenInvalid
		}
		if err != nil {
			return err
		}
		if err := stateErr(tok.State(now)); err != nil {
			return err
		}

		w, err := repos.Warranty.GetByID(ctx, tok.WarrantyID)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrTokenInvalid
		}
		if err != nil {
			return err
		}
		if w.UserID == callerID {
			return domain.ErrCannotClaimOwnWarranty
		}

		ok, err := repos.TransferToken.MarkClaimed(ctx, tok.ID, callerID, now)
		if err != nil {
			return err
		}
		if !ok {
			// Lost the race or crossed the expiry; report what the row says now.
			current, err := repos.TransferToken.GetByToken(ctx, token)
			if err != nil {
				return err
			}
			if err := stateErr(current.State(now)); err != nil {
				return err
			}
			return domain.ErrTokenInvalid
		}

		moved, err := repos.Warranty.TransferOwnership(ctx, w.ID, tok.CreatedBy, callerID)
		if err != nil {
			return err
		}
		if !moved {
			return domain.ErrTokenInvalid
		}

		w.UserID = callerID
		claimed = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("warrantyId", claimed.ID.String()).
		Str("newOwner", callerID.String()).
		Msg("[TransferService.Claim] warranty transferred")

	return claimed, nil
}

func stateErr(state domain.TokenState) error {
	switch state {
	case domain.TokenStateClaimed:
		return domain.ErrTokenAlreadyClaimed
	case domain.TokenStateExpired:
		return domain.ErrTokenExpired
	}
	return nil
}
