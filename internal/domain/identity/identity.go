package identity

import (
	"fmt"
	"time"

	"github.com/auralist-app/auralist/internal/shared/biztime"
	"github.com/auralist-app/auralist/internal/shared/id"
)

// AnonymousIdentity is the aggregate root for an anonymous account.
// It carries no credentials beyond the recovery code hash; devices attach
// to it through DeviceLink rows.
type AnonymousIdentity struct {
	id  uint
	sid string // Stripe-style public ID: an_xxx

	recoveryCodeHash        string
	recoveryCodeFingerprint string

	createdAt time.Time
	updatedAt time.Time
}

// NewAnonymousIdentity creates a new identity from a recovery code's
// fingerprint and slow hash. The plaintext code never enters the aggregate.
func NewAnonymousIdentity(fingerprint, hash string) (*AnonymousIdentity, error) {
	if fingerprint == "" {
		return nil, fmt.Errorf("recovery code fingerprint is required")
	}
	if hash == "" {
		return nil, fmt.Errorf("recovery code hash is required")
	}

	sid, err := id.NewIdentityID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate identity SID: %w", err)
	}

	now := biztime.NowUTC()
	return &AnonymousIdentity{
		sid:                     sid,
		recoveryCodeHash:        hash,
		recoveryCodeFingerprint: fingerprint,
		createdAt:               now,
		updatedAt:               now,
	}, nil
}

// ReconstructAnonymousIdentity reconstructs from persistence
func ReconstructAnonymousIdentity(
	internalID uint,
	sid string,
	recoveryCodeHash string,
	recoveryCodeFingerprint string,
	createdAt, updatedAt time.Time,
) *AnonymousIdentity {
	return &AnonymousIdentity{
		id:                      internalID,
		sid:                     sid,
		recoveryCodeHash:        recoveryCodeHash,
		recoveryCodeFingerprint: recoveryCodeFingerprint,
		createdAt:               createdAt,
		updatedAt:               updatedAt,
	}
}

// Getters
func (a *AnonymousIdentity) ID() uint             { return a.id }
func (a *AnonymousIdentity) SID() string          { return a.sid }
func (a *AnonymousIdentity) RecoveryCodeHash() string { return a.recoveryCodeHash }
func (a *AnonymousIdentity) RecoveryCodeFingerprint() string {
	return a.recoveryCodeFingerprint
}
func (a *AnonymousIdentity) CreatedAt() time.Time { return a.createdAt }
func (a *AnonymousIdentity) UpdatedAt() time.Time { return a.updatedAt }

// SetID sets the internal ID (only for persistence layer use)
func (a *AnonymousIdentity) SetID(internalID uint) {
	a.id = internalID
}
