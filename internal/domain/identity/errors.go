package identity

import "errors"

var (
	// ErrFingerprintTaken signals a uniqueness violation on the recovery
	// code fingerprint. The provisioner recovers from it by regenerating;
	// it never reaches the transport layer.
	ErrFingerprintTaken = errors.New("recovery code fingerprint already exists")

	// ErrMalformedRecoveryCode signals input that cannot be a recovery
	// code after normalization.
	ErrMalformedRecoveryCode = errors.New("malformed recovery code")

	// ErrDeviceLinkMissing signals a device link that should exist but
	// does not, e.g. after a partial provisioning failure.
	ErrDeviceLinkMissing = errors.New("device link missing for identity")
)
