package identity

import "context"

// Repository persists anonymous identities.
// Lookups return (nil, nil) when no row matches; absence is not an error.
type Repository interface {
	// Create inserts a new identity. Returns ErrFingerprintTaken when the
	// recovery code fingerprint collides with an existing row.
	Create(ctx context.Context, identity *AnonymousIdentity) error

	// GetByFingerprint finds the candidate identity for a recovery code
	GetByFingerprint(ctx context.Context, fingerprint string) (*AnonymousIdentity, error)

	// GetByDeviceID resolves the identity a device is currently bound to
	GetByDeviceID(ctx context.Context, deviceID string) (*AnonymousIdentity, error)
}

// DeviceLinkRepository persists device-to-identity bindings.
type DeviceLinkRepository interface {
	// Create inserts a new device link
	Create(ctx context.Context, link *DeviceLink) error

	// Upsert inserts the link or reassigns an existing binding for the
	// same device ID. Restore relies on this overwrite semantics.
	Upsert(ctx context.Context, link *DeviceLink) error

	// GetByDeviceID finds a link by its device identifier
	GetByDeviceID(ctx context.Context, deviceID string) (*DeviceLink, error)

	// TouchLastActive updates last_active_at for a device. Best-effort;
	// callers fire it asynchronously and ignore failures.
	TouchLastActive(ctx context.Context, deviceID string) error
}
