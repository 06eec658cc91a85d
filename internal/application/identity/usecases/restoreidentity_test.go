package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auralist-app/auralist/internal/domain/identity"
	"github.com/auralist-app/auralist/internal/infrastructure/ratelimit"
	apperrors "github.com/auralist-app/auralist/internal/shared/errors"
	"github.com/auralist-app/auralist/internal/shared/biztime"
)

// seedIdentity stores an identity whose recovery code is the given plaintext
func seedIdentity(repo *mockIdentityRepo, id uint, sid, plaintext string) *identity.AnonymousIdentity {
	normalized := identity.NormalizeRecoveryCode(plaintext)
	fingerprint := identity.FingerprintRecoveryCode(normalized)
	now := biztime.NowUTC()
	entity := identity.ReconstructAnonymousIdentity(id, sid, "hashed:"+normalized, fingerprint, now, now)
	repo.byFP[fingerprint] = entity
	return entity
}

func newRestoreUseCase(identityRepo *mockIdentityRepo, linkRepo *mockDeviceLinkRepo, limiter *mockLimiter) *RestoreIdentityUseCase {
	return NewRestoreIdentityUseCase(identityRepo, linkRepo, &fakeHasher{}, limiter, newNoopLogger())
}

func TestRestoreIdentity_Success_MintsDeviceID(t *testing.T) {
	identityRepo := newMockIdentityRepo()
	linkRepo := newMockDeviceLinkRepo()
	limiter := newMockLimiter()
	seedIdentity(identityRepo, 7, "an_xyz789", "ABCDE-FGHJK-LMNPQ-RSTUV")

	uc := newRestoreUseCase(identityRepo, linkRepo, limiter)

	result, err := uc.Execute(context.Background(), RestoreIdentityCommand{
		RecoveryCode: "abcde fghjk lmnpq rstuv", // lowercase, spaces instead of hyphens
		SourceIP:     "203.0.113.9",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "an_xyz789", result.AnonID)
	_, parseErr := uuid.Parse(result.DeviceID)
	assert.NoError(t, parseErr, "a device ID should be minted when none is supplied")

	link, _ := linkRepo.GetByDeviceID(context.Background(), result.DeviceID)
	require.NotNil(t, link)
	assert.Equal(t, uint(7), link.IdentityID())
	assert.Zero(t, limiter.failureCount(), "success must not record a failure")
}

func TestRestoreIdentity_Success_ReusesProvidedDeviceID(t *testing.T) {
	identityRepo := newMockIdentityRepo()
	linkRepo := newMockDeviceLinkRepo()
	limiter := newMockLimiter()
	seedIdentity(identityRepo, 3, "an_reuse1", "ABCDE-FGHJK-LMNPQ-RSTUV")

	deviceID := identity.NewDeviceID()
	uc := newRestoreUseCase(identityRepo, linkRepo, limiter)

	result, err := uc.Execute(context.Background(), RestoreIdentityCommand{
		RecoveryCode: "ABCDE-FGHJK-LMNPQ-RSTUV",
		DeviceID:     deviceID,
		SourceIP:     "203.0.113.9",
	})
	require.NoError(t, err)
	assert.Equal(t, deviceID, result.DeviceID)

	link, _ := linkRepo.GetByDeviceID(context.Background(), deviceID)
	require.NotNil(t, link)
	assert.Equal(t, uint(3), link.IdentityID())
}

func TestRestoreIdentity_ReassignsBoundDevice(t *testing.T) {
	identityRepo := newMockIdentityRepo()
	linkRepo := newMockDeviceLinkRepo()
	limiter := newMockLimiter()
	seedIdentity(identityRepo, 1, "an_old111", "AAAAA-BBBBB-CCCCC-DDDDD")
	seedIdentity(identityRepo, 2, "an_new222", "ABCDE-FGHJK-LMNPQ-RSTUV")

	deviceID := identity.NewDeviceID()
	existing, err := identity.NewDeviceLink(deviceID, 1)
	require.NoError(t, err)
	require.NoError(t, linkRepo.Create(context.Background(), existing))

	uc := newRestoreUseCase(identityRepo, linkRepo, limiter)

	result, err := uc.Execute(context.Background(), RestoreIdentityCommand{
		RecoveryCode: "ABCDE-FGHJK-LMNPQ-RSTUV",
		DeviceID:     deviceID,
		SourceIP:     "203.0.113.9",
	})
	require.NoError(t, err)
	assert.Equal(t, "an_new222", result.AnonID)

	link, _ := linkRepo.GetByDeviceID(context.Background(), deviceID)
	require.NotNil(t, link)
	assert.Equal(t, uint(2), link.IdentityID(), "restore must rebind the device to the restored identity")
}

func TestRestoreIdentity_RebindSurvivesClientDisconnect(t *testing.T) {
	identityRepo := newMockIdentityRepo()
	linkRepo := newMockDeviceLinkRepo()
	limiter := newMockLimiter()
	seedIdentity(identityRepo, 8, "an_dropped", "ABCDE-FGHJK-LMNPQ-RSTUV")

	// The client drops during the slow hash check; the rebind must land
	// anyway.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hasher := &fakeHasher{onVerify: cancel}

	uc := NewRestoreIdentityUseCase(identityRepo, linkRepo, hasher, limiter, newNoopLogger())

	result, err := uc.Execute(ctx, RestoreIdentityCommand{
		RecoveryCode: "ABCDE-FGHJK-LMNPQ-RSTUV",
		SourceIP:     "203.0.113.9",
	})
	require.NoError(t, err, "a disconnect after verification must not drop the rebind")

	link, _ := linkRepo.GetByDeviceID(context.Background(), result.DeviceID)
	require.NotNil(t, link)
	assert.Equal(t, uint(8), link.IdentityID())
}

func TestRestoreIdentity_MalformedCode(t *testing.T) {
	identityRepo := newMockIdentityRepo()
	limiter := newMockLimiter()
	uc := newRestoreUseCase(identityRepo, newMockDeviceLinkRepo(), limiter)

	_, err := uc.Execute(context.Background(), RestoreIdentityCommand{
		RecoveryCode: "too-short",
		SourceIP:     "203.0.113.9",
	})
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Zero(t, limiter.checks, "validation failures must not reach the limiter")
	assert.Zero(t, limiter.failureCount(), "malformed input is not an authentication failure")
}

func TestRestoreIdentity_MalformedDeviceID(t *testing.T) {
	identityRepo := newMockIdentityRepo()
	limiter := newMockLimiter()
	seedIdentity(identityRepo, 10, "an_badhdr", "ABCDE-FGHJK-LMNPQ-RSTUV")

	uc := newRestoreUseCase(identityRepo, newMockDeviceLinkRepo(), limiter)

	_, err := uc.Execute(context.Background(), RestoreIdentityCommand{
		RecoveryCode: "ABCDE-FGHJK-LMNPQ-RSTUV",
		DeviceID:     "not-a-uuid",
		SourceIP:     "203.0.113.9",
	})
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Zero(t, limiter.checks, "validation failures must not reach the limiter")
	assert.Zero(t, identityRepo.lookups, "validation failures must surface before any store access")
}

func TestRestoreIdentity_UnknownCodeRecordsFailure(t *testing.T) {
	identityRepo := newMockIdentityRepo()
	limiter := newMockLimiter()
	uc := newRestoreUseCase(identityRepo, newMockDeviceLinkRepo(), limiter)

	_, err := uc.Execute(context.Background(), RestoreIdentityCommand{
		RecoveryCode: "ABCDE-FGHJK-LMNPQ-RSTUV",
		SourceIP:     "203.0.113.9",
	})
	require.Error(t, err)

	idErr := apperrors.GetIdentityError(err)
	require.NotNil(t, idErr)
	assert.Equal(t, apperrors.ErrorTypeInvalidRecoveryCode, idErr.Type)
	assert.Equal(t, 1, limiter.failureCount())
}

func TestRestoreIdentity_WrongCodeIndistinguishableFromUnknown(t *testing.T) {
	identityRepo := newMockIdentityRepo()
	limiter := newMockLimiter()

	// Store an identity under the submitted code's fingerprint but with a
	// hash that will not verify, simulating a mismatch.
	normalized := identity.NormalizeRecoveryCode("ABCDE-FGHJK-LMNPQ-RSTUV")
	fingerprint := identity.FingerprintRecoveryCode(normalized)
	now := biztime.NowUTC()
	identityRepo.byFP[fingerprint] = identity.ReconstructAnonymousIdentity(
		9, "an_victim", "hashed:SOMETHINGELSE", fingerprint, now, now)

	uc := newRestoreUseCase(identityRepo, newMockDeviceLinkRepo(), limiter)

	_, mismatchErr := uc.Execute(context.Background(), RestoreIdentityCommand{
		RecoveryCode: "ABCDE-FGHJK-LMNPQ-RSTUV",
		SourceIP:     "203.0.113.9",
	})
	require.Error(t, mismatchErr)

	_, unknownErr := uc.Execute(context.Background(), RestoreIdentityCommand{
		RecoveryCode: "AAAAA-BBBBB-CCCCC-DDDDD",
		SourceIP:     "203.0.113.9",
	})
	require.Error(t, unknownErr)

	assert.Equal(t, mismatchErr.Error(), unknownErr.Error(),
		"mismatch and unknown code must be indistinguishable to the caller")
	assert.Equal(t, 2, limiter.failureCount())
}

func TestRestoreIdentity_RateLimited(t *testing.T) {
	identityRepo := newMockIdentityRepo()
	seedIdentity(identityRepo, 4, "an_limited", "ABCDE-FGHJK-LMNPQ-RSTUV")
	limiter := newMockLimiter()
	limiter.decision = ratelimit.Decision{Allowed: false, RetryAfter: 3 * time.Minute}

	uc := newRestoreUseCase(identityRepo, newMockDeviceLinkRepo(), limiter)

	_, err := uc.Execute(context.Background(), RestoreIdentityCommand{
		RecoveryCode: "ABCDE-FGHJK-LMNPQ-RSTUV",
		SourceIP:     "203.0.113.9",
	})
	require.Error(t, err)

	retryAfter, limited := apperrors.IsRateLimited(err)
	require.True(t, limited)
	assert.Equal(t, 3*time.Minute, retryAfter)
	assert.Zero(t, identityRepo.lookups, "throttled requests must not touch the store")
}

func TestRestoreIdentity_LimiterErrorFailsOpen(t *testing.T) {
	identityRepo := newMockIdentityRepo()
	seedIdentity(identityRepo, 5, "an_open", "ABCDE-FGHJK-LMNPQ-RSTUV")
	limiter := newMockLimiter()
	limiter.checkErr = context.DeadlineExceeded

	uc := newRestoreUseCase(identityRepo, newMockDeviceLinkRepo(), limiter)

	result, err := uc.Execute(context.Background(), RestoreIdentityCommand{
		RecoveryCode: "ABCDE-FGHJK-LMNPQ-RSTUV",
		SourceIP:     "203.0.113.9",
	})
	require.NoError(t, err, "a broken limiter backend must not block restores")
	assert.Equal(t, "an_open", result.AnonID)
}

func TestRestoreIdentity_SuccessDoesNotResetLimiter(t *testing.T) {
	identityRepo := newMockIdentityRepo()
	seedIdentity(identityRepo, 6, "an_noreset", "ABCDE-FGHJK-LMNPQ-RSTUV")
	limiter := newMockLimiter()
	limiter.failures = []string{"203.0.113.9", "203.0.113.9"}

	uc := newRestoreUseCase(identityRepo, newMockDeviceLinkRepo(), limiter)

	_, err := uc.Execute(context.Background(), RestoreIdentityCommand{
		RecoveryCode: "ABCDE-FGHJK-LMNPQ-RSTUV",
		SourceIP:     "203.0.113.9",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, limiter.failureCount(), "prior failures must survive a successful restore")
}
