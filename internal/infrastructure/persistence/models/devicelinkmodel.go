package models

import (
	"time"

	"github.com/auralist-app/auralist/internal/shared/constants"
)

// DeviceLinkModel is the persistence model for device-to-identity bindings.
// device_id is unique: a device binds to exactly one identity at a time,
// and restore reassigns the row rather than inserting a second one.
type DeviceLinkModel struct {
	ID           uint   `gorm:"primarykey"`
	DeviceID     string `gorm:"uniqueIndex;not null;size:36"`
	IdentityID   uint   `gorm:"index;not null"`
	LastActiveAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (DeviceLinkModel) TableName() string {
	return constants.TableDeviceLinks
}
