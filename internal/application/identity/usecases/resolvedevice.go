package usecases

import (
	"context"
	"fmt"

	"github.com/auralist-app/auralist/internal/domain/identity"
	"github.com/auralist-app/auralist/internal/shared/goroutine"
	"github.com/auralist-app/auralist/internal/shared/logger"
)

type ResolveDeviceCommand struct {
	DeviceID string
}

type ResolveDeviceResult struct {
	// Identity is nil when the device is unknown. The caller decides how
	// to surface that; resolution itself never provisions.
	Identity *identity.AnonymousIdentity
}

type ResolveDeviceUseCase struct {
	identityRepo   identity.Repository
	deviceLinkRepo identity.DeviceLinkRepository
	logger         logger.Interface
}

func NewResolveDeviceUseCase(
	identityRepo identity.Repository,
	deviceLinkRepo identity.DeviceLinkRepository,
	logger logger.Interface,
) *ResolveDeviceUseCase {
	return &ResolveDeviceUseCase{
		identityRepo:   identityRepo,
		deviceLinkRepo: deviceLinkRepo,
		logger:         logger,
	}
}

func (uc *ResolveDeviceUseCase) Execute(ctx context.Context, cmd ResolveDeviceCommand) (*ResolveDeviceResult, error) {
	if cmd.DeviceID == "" {
		return &ResolveDeviceResult{}, nil
	}

	resolved, err := uc.identityRepo.GetByDeviceID(ctx, cmd.DeviceID)
	if err != nil {
		uc.logger.Errorw("failed to resolve device", "device_id", cmd.DeviceID, "error", err)
		return nil, fmt.Errorf("failed to resolve device: %w", err)
	}
	if resolved == nil {
		return &ResolveDeviceResult{}, nil
	}

	// Touch last-active off the request path. The touch uses a detached
	// context so a client disconnect cannot abort it, and its failure
	// never fails the read.
	deviceID := cmd.DeviceID
	goroutine.SafeGo(uc.logger, "devicelink.touch", func() {
		if err := uc.deviceLinkRepo.TouchLastActive(context.Background(), deviceID); err != nil {
			uc.logger.Warnw("failed to touch device last-active", "device_id", deviceID, "error", err)
		}
	})

	return &ResolveDeviceResult{Identity: resolved}, nil
}
