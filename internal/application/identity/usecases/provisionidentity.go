package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/auralist-app/auralist/internal/domain/identity"
	apperrors "github.com/auralist-app/auralist/internal/shared/errors"
	"github.com/auralist-app/auralist/internal/shared/logger"
)

// DefaultMaxProvisionTries bounds the fingerprint-collision retry loop
const DefaultMaxProvisionTries = 5

type ProvisionIdentityCommand struct{}

type ProvisionIdentityResult struct {
	AnonID string
	// DeviceID is the freshly minted device identifier the client must
	// persist locally and send on subsequent requests.
	DeviceID string
	// RecoveryCode is the plaintext code, surfaced exactly once here.
	// It is never persisted and never appears in logs.
	RecoveryCode string
}

type ProvisionIdentityUseCase struct {
	identityRepo   identity.Repository
	deviceLinkRepo identity.DeviceLinkRepository
	hasher         identity.RecoveryCodeHasher
	maxTries       int
	logger         logger.Interface
}

func NewProvisionIdentityUseCase(
	identityRepo identity.Repository,
	deviceLinkRepo identity.DeviceLinkRepository,
	hasher identity.RecoveryCodeHasher,
	maxTries int,
	logger logger.Interface,
) *ProvisionIdentityUseCase {
	if maxTries <= 0 {
		maxTries = DefaultMaxProvisionTries
	}
	return &ProvisionIdentityUseCase{
		identityRepo:   identityRepo,
		deviceLinkRepo: deviceLinkRepo,
		hasher:         hasher,
		maxTries:       maxTries,
		logger:         logger,
	}
}

func (uc *ProvisionIdentityUseCase) Execute(ctx context.Context, cmd ProvisionIdentityCommand) (*ProvisionIdentityResult, error) {
	// The write sequence runs detached from request cancellation: a client
	// disconnect between the identity insert and the link insert would
	// otherwise commit an identity no device can ever reach.
	writeCtx := context.WithoutCancel(ctx)

	newIdentity, code, err := uc.createIdentityWithRetry(writeCtx)
	if err != nil {
		return nil, err
	}

	// Bind a fresh device to the identity. A failure here fails the whole
	// operation; an identity the client cannot reach again is useless.
	deviceID := identity.NewDeviceID()
	link, err := identity.NewDeviceLink(deviceID, newIdentity.ID())
	if err != nil {
		uc.logger.Errorw("failed to build device link", "error", err)
		return nil, apperrors.NewProvisioningFailedError(err)
	}
	if err := uc.deviceLinkRepo.Create(writeCtx, link); err != nil {
		uc.logger.Errorw("failed to create device link", "identity_id", newIdentity.ID(), "error", err)
		return nil, apperrors.NewProvisioningFailedError(err)
	}

	uc.logger.Infow("identity provisioned",
		"anon_id", newIdentity.SID(),
		"device_id", deviceID)

	return &ProvisionIdentityResult{
		AnonID:       newIdentity.SID(),
		DeviceID:     deviceID,
		RecoveryCode: code.Plaintext(),
	}, nil
}

// createIdentityWithRetry generates a recovery code and inserts the identity,
// regenerating on fingerprint collision up to the configured budget.
func (uc *ProvisionIdentityUseCase) createIdentityWithRetry(ctx context.Context) (*identity.AnonymousIdentity, *identity.RecoveryCode, error) {
	for attempt := 1; attempt <= uc.maxTries; attempt++ {
		code, err := identity.GenerateRecoveryCode()
		if err != nil {
			uc.logger.Errorw("failed to generate recovery code", "error", err)
			return nil, nil, apperrors.NewProvisioningFailedError(err)
		}

		hash, err := uc.hasher.Hash(code.Normalized())
		if err != nil {
			uc.logger.Errorw("failed to hash recovery code", "error", err)
			return nil, nil, apperrors.NewProvisioningFailedError(err)
		}

		newIdentity, err := identity.NewAnonymousIdentity(code.Fingerprint(), hash)
		if err != nil {
			return nil, nil, apperrors.NewProvisioningFailedError(err)
		}

		err = uc.identityRepo.Create(ctx, newIdentity)
		if err == nil {
			return newIdentity, code, nil
		}
		if errors.Is(err, identity.ErrFingerprintTaken) {
			uc.logger.Warnw("recovery code fingerprint collision, regenerating",
				"attempt", attempt)
			continue
		}
		uc.logger.Errorw("failed to create identity", "error", err)
		return nil, nil, apperrors.NewProvisioningFailedError(err)
	}

	uc.logger.Errorw("exhausted provisioning attempts", "max_tries", uc.maxTries)
	return nil, nil, apperrors.NewProvisioningFailedError(
		fmt.Errorf("fingerprint collision persisted after %d attempts", uc.maxTries))
}
