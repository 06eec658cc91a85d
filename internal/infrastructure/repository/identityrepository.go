package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/auralist-app/auralist/internal/domain/identity"
	"github.com/auralist-app/auralist/internal/infrastructure/persistence/mappers"
	"github.com/auralist-app/auralist/internal/infrastructure/persistence/models"
	"github.com/auralist-app/auralist/internal/shared/constants"
	"github.com/auralist-app/auralist/internal/shared/logger"
	"github.com/auralist-app/auralist/internal/shared/utils"
)

// IdentityRepository implements the identity repository interface with DDD patterns
type IdentityRepository struct {
	db     *gorm.DB
	mapper mappers.IdentityMapper
	logger logger.Interface
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *gorm.DB, logger logger.Interface) identity.Repository {
	return &IdentityRepository{
		db:     db,
		mapper: mappers.NewIdentityMapper(),
		logger: logger,
	}
}

// Create persists a new anonymous identity. A duplicate fingerprint is
// reported as identity.ErrFingerprintTaken so the provisioner can
// regenerate instead of failing.
func (r *IdentityRepository) Create(ctx context.Context, entity *identity.AnonymousIdentity) error {
	model := r.mapper.ToModel(entity)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return identity.ErrFingerprintTaken
		}
		r.logger.Errorw("failed to create identity in database", "error", err)
		return fmt.Errorf("failed to create identity: %w", err)
	}

	entity.SetID(model.ID)

	r.logger.Infow("identity created successfully", "id", model.ID, "sid", model.SID)
	return nil
}

// GetByFingerprint retrieves an identity by its recovery-code fingerprint.
// Returns (nil, nil) when no identity matches.
func (r *IdentityRepository) GetByFingerprint(ctx context.Context, fingerprint string) (*identity.AnonymousIdentity, error) {
	var model models.AnonymousIdentityModel

	if err := r.db.WithContext(ctx).Where("recovery_code_fingerprint = ?", fingerprint).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get identity by fingerprint",
			"fingerprint", utils.MaskFingerprint(fingerprint), "error", err)
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

// GetByDeviceID retrieves the identity currently bound to a device.
// Returns (nil, nil) when the device has no binding.
func (r *IdentityRepository) GetByDeviceID(ctx context.Context, deviceID string) (*identity.AnonymousIdentity, error) {
	var model models.AnonymousIdentityModel

	err := r.db.WithContext(ctx).
		Joins(fmt.Sprintf("JOIN %s ON %s.identity_id = %s.id",
			constants.TableDeviceLinks, constants.TableDeviceLinks, constants.TableAnonymousIdentities)).
		Where(fmt.Sprintf("%s.device_id = ?", constants.TableDeviceLinks), deviceID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get identity by device ID", "device_id", deviceID, "error", err)
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}
