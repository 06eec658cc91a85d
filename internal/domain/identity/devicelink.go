package identity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/auralist-app/auralist/internal/shared/biztime"
)

// DeviceLink binds one physical/browser device to exactly one anonymous
// identity. Restoring with a recovery code reassigns the binding; a device
// never points at two identities at once.
type DeviceLink struct {
	id         uint
	deviceID   string // UUID, persisted client-side
	identityID uint

	lastActiveAt time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// NewDeviceID mints a device identifier in UUID format
func NewDeviceID() string {
	return uuid.NewString()
}

// ValidateDeviceID checks that a client-supplied device identifier has the
// UUID shape this service mints
func ValidateDeviceID(deviceID string) error {
	if deviceID == "" {
		return fmt.Errorf("device ID is required")
	}
	if _, err := uuid.Parse(deviceID); err != nil {
		return fmt.Errorf("device ID must be a UUID: %w", err)
	}
	return nil
}

// NewDeviceLink creates a link between a device and an identity
func NewDeviceLink(deviceID string, identityID uint) (*DeviceLink, error) {
	if err := ValidateDeviceID(deviceID); err != nil {
		return nil, err
	}
	if identityID == 0 {
		return nil, fmt.Errorf("identity ID is required")
	}

	now := biztime.NowUTC()
	return &DeviceLink{
		deviceID:     deviceID,
		identityID:   identityID,
		lastActiveAt: now,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructDeviceLink reconstructs from persistence
func ReconstructDeviceLink(
	internalID uint,
	deviceID string,
	identityID uint,
	lastActiveAt time.Time,
	createdAt, updatedAt time.Time,
) *DeviceLink {
	return &DeviceLink{
		id:           internalID,
		deviceID:     deviceID,
		identityID:   identityID,
		lastActiveAt: lastActiveAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// Getters
func (l *DeviceLink) ID() uint                { return l.id }
func (l *DeviceLink) DeviceID() string        { return l.deviceID }
func (l *DeviceLink) IdentityID() uint        { return l.identityID }
func (l *DeviceLink) LastActiveAt() time.Time { return l.lastActiveAt }
func (l *DeviceLink) CreatedAt() time.Time    { return l.createdAt }
func (l *DeviceLink) UpdatedAt() time.Time    { return l.updatedAt }

// SetID sets the internal ID (only for persistence layer use)
func (l *DeviceLink) SetID(internalID uint) {
	l.id = internalID
}

// Rebind points this link at a different identity. Used by restore, which
// always reassigns an existing device's binding.
func (l *DeviceLink) Rebind(identityID uint) error {
	if identityID == 0 {
		return fmt.Errorf("identity ID is required")
	}
	l.identityID = identityID
	l.Touch()
	return nil
}

// Touch updates the last-active timestamp
func (l *DeviceLink) Touch() {
	now := biztime.NowUTC()
	l.lastActiveAt = now
	l.updatedAt = now
}
