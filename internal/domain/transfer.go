package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransferTokenTTL is how long a transfer link stays claimable.
const TransferTokenTTL = 7 * 24 * time.Hour

// TransferToken is a single-use capability: whoever holds Token may take
// ownership of WarrantyID once, before ExpiresAt. Tokens are kept after
// they are claimed or expire.
type TransferToken struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Token      string     `json:"token" gorm:"uniqueIndex;not null"`
	WarrantyID uuid.UUID  `json:"warrantyId" gorm:"type:uuid;not null;index"`
	CreatedBy  uuid.UUID  `json:"createdBy" gorm:"type:uuid;not null"`
	ClaimedBy  *uuid.UUID `json:"claimedBy" gorm:"type:uuid"`
	ExpiresAt  time.Time  `json:"expiresAt" gorm:"not null"`
	ClaimedAt  *time.Time `json:"claimedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type TokenState string

const (
	TokenStateCreated TokenState = "created"
	TokenStateClaimed TokenState = "claimed"
	TokenStateExpired TokenState = "expired"
)

// State derives the token's state at now. A claimed token stays claimed
// after its expiry; a token is expired from the exact ExpiresAt instant.
func (t *TransferToken) State(now time.Time) TokenState {
	if t.ClaimedBy != nil {
		return TokenStateClaimed
	}
	if !now.Before(t.ExpiresAt) {
		return TokenStateExpired
	}
	return TokenStateCreated
}

type ClaimStatus string

const (
	ClaimReady          ClaimStatus = "ready"
	ClaimInvalid        ClaimStatus = "invalid"
	ClaimAlreadyClaimed ClaimStatus = "claimed"
	ClaimExpired        ClaimStatus = "expired"
	// ClaimTransferred is reported to the caller whose claim just succeeded.
	ClaimTransferred ClaimStatus = "transferred"
)

// ClaimOutcome is the result of resolving a claim link. Warranty is set
// only when Status is ClaimReady.
type ClaimOutcome struct {
	Status   ClaimStatus      `json:"status"`
	Warranty *WarrantySummary `json:"warranty,omitempty"`
}

func InvalidClaim() ClaimOutcome        { return ClaimOutcome{Status: ClaimInvalid} }
func AlreadyClaimedClaim() ClaimOutcome { return ClaimOutcome{Status: ClaimAlreadyClaimed} }
func ExpiredClaim() ClaimOutcome        { return ClaimOutcome{Status: ClaimExpired} }

func ReadyClaim(w *Warranty) ClaimOutcome {
	return ClaimOutcome{Status: ClaimReady, Warranty: w.Summary()}
}

// Err maps a terminal outcome to its sentinel error, or nil when ready.
func (o ClaimOutcome) Err() error {
	switch o.Status {
	case ClaimReady, ClaimTransferred:
		return nil
	case ClaimAlreadyClaimed:
		return ErrTokenAlreadyClaimed
	case ClaimExpired:
		return ErrTokenExpired
	default:
		return ErrTokenInvalid
	}
}
