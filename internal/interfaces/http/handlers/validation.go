package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/auralist-app/auralist/internal/domain/identity"
)

// RegisterValidations installs the custom recovery code rule on gin's
// validator. The rule mirrors the normalization the restore flow applies,
// so any input that survives binding will also parse downstream.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("recoverycode", func(fl validator.FieldLevel) bool {
			normalized := identity.NormalizeRecoveryCode(fl.Field().String())
			return len(normalized) == identity.RecoveryCodeLength
		})
	}
}
