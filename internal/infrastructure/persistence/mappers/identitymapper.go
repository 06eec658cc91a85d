package mappers

import (
	"github.com/auralist-app/auralist/internal/domain/identity"
	"github.com/auralist-app/auralist/internal/infrastructure/persistence/models"
)

// IdentityMapper handles the conversion between domain entities and persistence models
type IdentityMapper interface {
	ToEntity(model *models.AnonymousIdentityModel) *identity.AnonymousIdentity
	ToModel(entity *identity.AnonymousIdentity) *models.AnonymousIdentityModel
}

type identityMapper struct{}

// NewIdentityMapper creates a new identity mapper
func NewIdentityMapper() IdentityMapper {
	return &identityMapper{}
}

func (m *identityMapper) ToEntity(model *models.AnonymousIdentityModel) *identity.AnonymousIdentity {
	if model == nil {
		return nil
	}
	return identity.ReconstructAnonymousIdentity(
		model.ID,
		model.SID,
		model.RecoveryCodeHash,
		model.RecoveryCodeFingerprint,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *identityMapper) ToModel(entity *identity.AnonymousIdentity) *models.AnonymousIdentityModel {
	if entity == nil {
		return nil
	}
	return &models.AnonymousIdentityModel{
		ID:                      entity.ID(),
		SID:                     entity.SID(),
		RecoveryCodeHash:        entity.RecoveryCodeHash(),
		RecoveryCodeFingerprint: entity.RecoveryCodeFingerprint(),
		CreatedAt:               entity.CreatedAt(),
		UpdatedAt:               entity.UpdatedAt(),
	}
}
