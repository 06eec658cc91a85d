package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/auralist-app/auralist/internal/domain/identity"
)

var (
	// ErrInvalidHash is returned when a stored hash isn't in the expected format
	ErrInvalidHash = errors.New("argon2id: hash is not in the correct format")

	// ErrIncompatibleVersion is returned when a stored hash was created
	// with a different version of Argon2
	ErrIncompatibleVersion = errors.New("argon2id: incompatible version of argon2")
)

// Argon2Params holds the Argon2id cost parameters
type Argon2Params struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns the production defaults: 64 MiB, 3 passes,
// 2 lanes.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		MemoryKiB:   64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2RecoveryCodeHasher implements identity.RecoveryCodeHasher with
// Argon2id. Hashes are self-describing
// ($argon2id$v=19$m=..,t=..,p=..$salt$hash) so parameter changes don't
// invalidate existing identities.
type Argon2RecoveryCodeHasher struct {
	params Argon2Params
}

// NewArgon2RecoveryCodeHasher creates a hasher with the given parameters.
// Zero-valued fields fall back to the defaults.
func NewArgon2RecoveryCodeHasher(params Argon2Params) *Argon2RecoveryCodeHasher {
	defaults := DefaultArgon2Params()
	if params.MemoryKiB == 0 {
		params.MemoryKiB = defaults.MemoryKiB
	}
	if params.Iterations == 0 {
		params.Iterations = defaults.Iterations
	}
	if params.Parallelism == 0 {
		params.Parallelism = defaults.Parallelism
	}
	if params.SaltLength == 0 {
		params.SaltLength = defaults.SaltLength
	}
	if params.KeyLength == 0 {
		params.KeyLength = defaults.KeyLength
	}
	return &Argon2RecoveryCodeHasher{params: params}
}

var _ identity.RecoveryCodeHasher = (*Argon2RecoveryCodeHasher)(nil)

// Hash derives a salted Argon2id hash from a normalized recovery code
func (h *Argon2RecoveryCodeHasher) Hash(normalizedCode string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(normalizedCode), salt,
		h.params.Iterations, h.params.MemoryKiB, h.params.Parallelism, h.params.KeyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Key := base64.RawStdEncoding.EncodeToString(key)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.MemoryKiB, h.params.Iterations, h.params.Parallelism,
		b64Salt, b64Key), nil
}

// Verify checks a normalized code against a stored hash using the
// parameters encoded in the hash itself. The comparison is constant-time.
func (h *Argon2RecoveryCodeHasher) Verify(normalizedCode, storedHash string) (bool, error) {
	params, salt, key, err := decodeHash(storedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(normalizedCode), salt,
		params.Iterations, params.MemoryKiB, params.Parallelism, uint32(len(key)))

	return subtle.ConstantTimeCompare(key, computed) == 1, nil
}

func decodeHash(hash string) (*Argon2Params, []byte, []byte, error) {
	tokens := strings.Split(hash, "$")
	if len(tokens) != 6 {
		return nil, nil, nil, ErrInvalidHash
	}

	// no variants allowed
	if tokens[1] != "argon2id" {
		return nil, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(tokens[2], "v=%d", &version); err != nil {
		return nil, nil, nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return nil, nil, nil, ErrIncompatibleVersion
	}

	params := &Argon2Params{}
	if _, err := fmt.Sscanf(tokens[3], "m=%d,t=%d,p=%d",
		&params.MemoryKiB, &params.Iterations, &params.Parallelism); err != nil {
		return nil, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(tokens[4])
	if err != nil {
		return nil, nil, nil, ErrInvalidHash
	}
	params.SaltLength = uint32(len(salt))

	key, err := base64.RawStdEncoding.Strict().DecodeString(tokens[5])
	if err != nil {
		return nil, nil, nil, ErrInvalidHash
	}
	params.KeyLength = uint32(len(key))

	return params, salt, key, nil
}
