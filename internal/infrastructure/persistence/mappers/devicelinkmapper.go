package mappers

import (
	"github.com/auralist-app/auralist/internal/domain/identity"
	"github.com/auralist-app/auralist/internal/infrastructure/persistence/models"
)

// DeviceLinkMapper handles the conversion between device link entities and persistence models
type DeviceLinkMapper interface {
	ToEntity(model *models.DeviceLinkModel) *identity.DeviceLink
	ToModel(entity *identity.DeviceLink) *models.DeviceLinkModel
}

type deviceLinkMapper struct{}

// NewDeviceLinkMapper creates a new device link mapper
func NewDeviceLinkMapper() DeviceLinkMapper {
	return &deviceLinkMapper{}
}

func (m *deviceLinkMapper) ToEntity(model *models.DeviceLinkModel) *identity.DeviceLink {
	if model == nil {
		return nil
	}
	return identity.ReconstructDeviceLink(
		model.ID,
		model.DeviceID,
		model.IdentityID,
		model.LastActiveAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *deviceLinkMapper) ToModel(entity *identity.DeviceLink) *models.DeviceLinkModel {
	if entity == nil {
		return nil
	}
	return &models.DeviceLinkModel{
		ID:           entity.ID(),
		DeviceID:     entity.DeviceID(),
		IdentityID:   entity.IdentityID(),
		LastActiveAt: entity.LastActiveAt(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}
