package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/auralist-app/auralist/internal/application/identity/usecases"
	"github.com/auralist-app/auralist/internal/shared/constants"
	apperrors "github.com/auralist-app/auralist/internal/shared/errors"
	"github.com/auralist-app/auralist/internal/shared/logger"
	"github.com/auralist-app/auralist/internal/shared/utils"
)

type IdentityHandler struct {
	provisionUseCase ProvisionIdentityExecutor
	resolveUseCase   ResolveDeviceExecutor
	restoreUseCase   RestoreIdentityExecutor
	logger           logger.Interface
}

func NewIdentityHandler(
	provisionUC ProvisionIdentityExecutor,
	resolveUC ResolveDeviceExecutor,
	restoreUC RestoreIdentityExecutor,
	logger logger.Interface,
) *IdentityHandler {
	return &IdentityHandler{
		provisionUseCase: provisionUC,
		resolveUseCase:   resolveUC,
		restoreUseCase:   restoreUC,
		logger:           logger,
	}
}

type RestoreRequest struct {
	RecoveryCode string `json:"recovery_code" binding:"required,recoverycode"`
}

// Bootstrap resolves the calling device or provisions a fresh identity.
// Without a device header a new identity is created (201). With a known
// header the existing identity is returned (200). An unknown header is a
// 404: the client's device context is gone and it must restore or start
// over explicitly, never be silently re-provisioned.
func (h *IdentityHandler) Bootstrap(c *gin.Context) {
	deviceID := c.GetHeader(constants.HeaderDeviceID)

	if deviceID != "" {
		result, err := h.resolveUseCase.Execute(c.Request.Context(), usecases.ResolveDeviceCommand{
			DeviceID: deviceID,
		})
		if err != nil {
			h.logger.Errorw("device resolution failed", "device_id", deviceID, "error", err)
			utils.ErrorResponseWithError(c, apperrors.NewInternalError("Failed to resolve device"))
			return
		}
		if result.Identity == nil {
			utils.ErrorResponseWithError(c, apperrors.NewUnknownDeviceError())
			return
		}

		utils.SuccessResponse(c, http.StatusOK, "device resolved", gin.H{
			"anon_id": result.Identity.SID(),
		})
		return
	}

	result, err := h.provisionUseCase.Execute(c.Request.Context(), usecases.ProvisionIdentityCommand{})
	if err != nil {
		h.logger.Errorw("identity provisioning failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header(constants.HeaderDeviceID, result.DeviceID)
	utils.CreatedResponse(c, gin.H{
		"anon_id":       result.AnonID,
		"recovery_code": result.RecoveryCode,
	}, "identity provisioned, store the recovery code safely")
}

// Restore verifies a recovery code and rebinds the calling device to the
// matching identity.
func (h *IdentityHandler) Restore(c *gin.Context) {
	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("Recovery code is required and must be well formed"))
		return
	}

	cmd := usecases.RestoreIdentityCommand{
		RecoveryCode: req.RecoveryCode,
		DeviceID:     c.GetHeader(constants.HeaderDeviceID),
		SourceIP:     c.ClientIP(),
	}

	result, err := h.restoreUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		if retryAfter, limited := apperrors.IsRateLimited(err); limited {
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(retryAfter)))
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header(constants.HeaderDeviceID, result.DeviceID)
	utils.SuccessResponse(c, http.StatusOK, "identity restored", gin.H{
		"anon_id":   result.AnonID,
		"device_id": result.DeviceID,
	})
}
