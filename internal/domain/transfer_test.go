package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTransferToken_State(t *testing.T) {
	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	expires := created.Add(TransferTokenTTL)
	claimer := uuid.New()

	tests := []struct {
		name      string
		claimedBy *uuid.UUID
		now       time.Time
		want      TokenState
	}{
		{"fresh", nil, created, TokenStateCreated},
		{"one nanosecond before expiry", nil, expires.Add(-time.Nanosecond), TokenStateCreated},
		{"at expiry instant", nil, expires, TokenStateExpired},
		{"eight days later", nil, created.Add(8 * 24 * time.Hour), TokenStateExpired},
		{"claimed", &claimer, created.Add(time.Hour), TokenStateClaimed},
		{"claimed then past expiry", &claimer, expires.Add(time.Hour), TokenStateClaimed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := &TransferToken{ClaimedBy: tt.claimedBy, ExpiresAt: expires, CreatedAt: created}
			assert.Equal(t, tt.want, tok.State(tt.now))
		})
	}
}

func TestClaimOutcome_Err(t *testing.T) {
	w := &Warranty{ID: uuid.New(), ProductName: "TV"}

	assert.NoError(t, ReadyClaim(w).Err())
	assert.ErrorIs(t, InvalidClaim().Err(), ErrTokenInvalid)
	assert.ErrorIs(t, AlreadyClaimedClaim().Err(), ErrTokenAlreadyClaimed)
	assert.ErrorIs(t, ExpiredClaim().Err(), ErrTokenExpired)
	assert.NoError(t, ClaimOutcome{Status: ClaimTransferred}.Err())

	ready := ReadyClaim(w)
	assert.Equal(t, ClaimReady, ready.Status)
	assert.Equal(t, "TV", ready.Warranty.ProductName)
	assert.Nil(t, ExpiredClaim().Warranty)
}
