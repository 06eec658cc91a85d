package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/auralist-app/auralist/internal/domain/identity"
	"github.com/auralist-app/auralist/internal/infrastructure/ratelimit"
	apperrors "github.com/auralist-app/auralist/internal/shared/errors"
	"github.com/auralist-app/auralist/internal/shared/logger"
	"github.com/auralist-app/auralist/internal/shared/utils"
)

type RestoreIdentityCommand struct {
	RecoveryCode string
	// DeviceID is reused when the client already holds one; a new UUID is
	// minted otherwise.
	DeviceID string
	SourceIP string
}

type RestoreIdentityResult struct {
	AnonID   string
	DeviceID string
}

// RestoreIdentityUseCase verifies a recovery code and rebinds the calling
// device. The steps are ordered so that throttling happens before any store
// access, and the fast fingerprint lookup happens before the slow hash.
type RestoreIdentityUseCase struct {
	identityRepo   identity.Repository
	deviceLinkRepo identity.DeviceLinkRepository
	hasher         identity.RecoveryCodeHasher
	limiter        ratelimit.FailureLimiter
	logger         logger.Interface
}

func NewRestoreIdentityUseCase(
	identityRepo identity.Repository,
	deviceLinkRepo identity.DeviceLinkRepository,
	hasher identity.RecoveryCodeHasher,
	limiter ratelimit.FailureLimiter,
	logger logger.Interface,
) *RestoreIdentityUseCase {
	return &RestoreIdentityUseCase{
		identityRepo:   identityRepo,
		deviceLinkRepo: deviceLinkRepo,
		hasher:         hasher,
		limiter:        limiter,
		logger:         logger,
	}
}

func (uc *RestoreIdentityUseCase) Execute(ctx context.Context, cmd RestoreIdentityCommand) (*RestoreIdentityResult, error) {
	code, err := identity.NewRecoveryCodeFromInput(cmd.RecoveryCode)
	if err != nil {
		if errors.Is(err, identity.ErrMalformedRecoveryCode) {
			return nil, apperrors.NewValidationError("Recovery code format is invalid")
		}
		return nil, fmt.Errorf("failed to parse recovery code: %w", err)
	}
	// Reject a malformed device header here too, before any limiter, store,
	// or hash work happens.
	if cmd.DeviceID != "" {
		if err := identity.ValidateDeviceID(cmd.DeviceID); err != nil {
			return nil, apperrors.NewValidationError("Device ID format is invalid")
		}
	}

	decision, err := uc.limiter.Check(ctx, cmd.SourceIP)
	if err != nil {
		// Limiter backend trouble fails open; availability wins over
		// strictness here. The error is still worth a warning.
		uc.logger.Warnw("failure limiter check degraded", "source_ip", cmd.SourceIP, "error", err)
		decision.Allowed = true
	}
	if !decision.Allowed {
		uc.logger.Infow("restore attempt throttled",
			"source_ip", cmd.SourceIP,
			"retry_after", decision.RetryAfter)
		return nil, apperrors.NewRateLimitedError(decision.RetryAfter)
	}

	candidate, err := uc.identityRepo.GetByFingerprint(ctx, code.Fingerprint())
	if err != nil {
		uc.logger.Errorw("failed to look up recovery fingerprint",
			"fingerprint", utils.MaskFingerprint(code.Fingerprint()), "error", err)
		return nil, apperrors.NewInternalError("Failed to restore identity")
	}
	if candidate == nil {
		// Unknown code. Same failure accounting and same generic error as
		// a hash mismatch, so the response cannot be used as an oracle.
		uc.recordFailure(ctx, cmd.SourceIP)
		return nil, apperrors.NewInvalidRecoveryCodeError()
	}

	match, err := uc.hasher.Verify(code.Normalized(), candidate.RecoveryCodeHash())
	if err != nil {
		uc.logger.Errorw("recovery code verification errored", "error", err)
		return nil, apperrors.NewInternalError("Failed to restore identity")
	}
	if !match {
		uc.recordFailure(ctx, cmd.SourceIP)
		return nil, apperrors.NewInvalidRecoveryCodeError()
	}

	deviceID := cmd.DeviceID
	if deviceID == "" {
		deviceID = identity.NewDeviceID()
	}
	link, err := identity.NewDeviceLink(deviceID, candidate.ID())
	if err != nil {
		uc.logger.Errorw("failed to build device link", "error", err)
		return nil, apperrors.NewInternalError("Failed to restore identity")
	}
	// The rebind must land even if the client disconnects after the code
	// already verified.
	if err := uc.deviceLinkRepo.Upsert(context.WithoutCancel(ctx), link); err != nil {
		uc.logger.Errorw("failed to rebind device after restore",
			"device_id", deviceID, "anon_id", candidate.SID(), "error", err)
		return nil, apperrors.NewInternalError("Failed to restore identity")
	}

	uc.logger.Infow("identity restored",
		"anon_id", candidate.SID(),
		"device_id", deviceID,
		"source_ip", cmd.SourceIP)

	return &RestoreIdentityResult{
		AnonID:   candidate.SID(),
		DeviceID: deviceID,
	}, nil
}

func (uc *RestoreIdentityUseCase) recordFailure(ctx context.Context, sourceIP string) {
	if err := uc.limiter.RecordFailure(ctx, sourceIP); err != nil {
		uc.logger.Warnw("failed to record restore failure", "source_ip", sourceIP, "error", err)
	}
}
