package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/auralist-app/auralist/internal/domain/identity"
	"github.com/auralist-app/auralist/internal/infrastructure/persistence/mappers"
	"github.com/auralist-app/auralist/internal/infrastructure/persistence/models"
	"github.com/auralist-app/auralist/internal/shared/biztime"
	"github.com/auralist-app/auralist/internal/shared/logger"
)

// DeviceLinkRepository implements the device link repository interface
type DeviceLinkRepository struct {
	db     *gorm.DB
	mapper mappers.DeviceLinkMapper
	logger logger.Interface
}

// NewDeviceLinkRepository creates a new device link repository
func NewDeviceLinkRepository(db *gorm.DB, logger logger.Interface) identity.DeviceLinkRepository {
	return &DeviceLinkRepository{
		db:     db,
		mapper: mappers.NewDeviceLinkMapper(),
		logger: logger,
	}
}

// Create inserts a new device link
func (r *DeviceLinkRepository) Create(ctx context.Context, link *identity.DeviceLink) error {
	model := r.mapper.ToModel(link)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create device link", "device_id", model.DeviceID, "error", err)
		return fmt.Errorf("failed to create device link: %w", err)
	}

	link.SetID(model.ID)

	r.logger.Infow("device link created", "device_id", model.DeviceID, "identity_id", model.IdentityID)
	return nil
}

// Upsert binds a device to an identity, reassigning any existing binding
// for the same device. The unique index on device_id guarantees at most
// one row per device.
func (r *DeviceLinkRepository) Upsert(ctx context.Context, link *identity.DeviceLink) error {
	model := r.mapper.ToModel(link)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"identity_id", "last_active_at", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert device link", "device_id", model.DeviceID, "error", err)
		return fmt.Errorf("failed to upsert device link: %w", err)
	}

	r.logger.Infow("device link upserted", "device_id", model.DeviceID, "identity_id", model.IdentityID)
	return nil
}

// GetByDeviceID retrieves a device link by device ID.
// Returns (nil, nil) when the device is unknown.
func (r *DeviceLinkRepository) GetByDeviceID(ctx context.Context, deviceID string) (*identity.DeviceLink, error) {
	var model models.DeviceLinkModel

	if err := r.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get device link", "device_id", deviceID, "error", err)
		return nil, fmt.Errorf("failed to get device link: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

// TouchLastActive advances last_active_at for a device without loading the row
func (r *DeviceLinkRepository) TouchLastActive(ctx context.Context, deviceID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.DeviceLinkModel{}).
		Where("device_id = ?", deviceID).
		Update("last_active_at", biztime.NowUTC())
	if result.Error != nil {
		return fmt.Errorf("failed to touch device link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return identity.ErrDeviceLinkMissing
	}
	return nil
}
