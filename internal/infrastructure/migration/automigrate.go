package migration

import (
	"github.com/auralist-app/auralist/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.AnonymousIdentityModel{},
		&models.DeviceLinkModel{},
	}
}
