package models

import (
	"time"

	"github.com/auralist-app/auralist/internal/shared/constants"
)

// AnonymousIdentityModel is the persistence model for anonymous identities.
// This is the anti-corruption layer between domain and database.
// The recovery code itself is never stored; only its slow hash and the
// fast lookup fingerprint persist.
type AnonymousIdentityModel struct {
	ID                      uint   `gorm:"primarykey"`
	SID                     string `gorm:"uniqueIndex;not null;size:32"`
	RecoveryCodeHash        string `gorm:"not null;size:255"`
	RecoveryCodeFingerprint string `gorm:"uniqueIndex:idx_recovery_fingerprint;not null;size:64"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// TableName specifies the table name for GORM
func (AnonymousIdentityModel) TableName() string {
	return constants.TableAnonymousIdentities
}
