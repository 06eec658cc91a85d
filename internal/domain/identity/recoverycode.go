package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const (
	// recoveryCodeAlphabet excludes visually confusable characters
	// (0/O, 1/I), leaving 32 symbols. 20 significant characters give
	// 100 bits of entropy.
	recoveryCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	RecoveryCodeGroups      = 4
	RecoveryCodeGroupLength = 5

	// RecoveryCodeLength is the number of significant characters,
	// excluding group separators.
	RecoveryCodeLength = RecoveryCodeGroups * RecoveryCodeGroupLength
)

// RecoveryCode is the human-typable secret issued once at provisioning.
// The plaintext never persists; only its fingerprint and slow hash do.
type RecoveryCode struct {
	plaintext   string
	normalized  string
	fingerprint string
}

// GenerateRecoveryCode produces a cryptographically random code in the
// canonical XXXXX-XXXXX-XXXXX-XXXXX format.
func GenerateRecoveryCode() (*RecoveryCode, error) {
	chars := make([]byte, RecoveryCodeLength)
	alphabetLen := big.NewInt(int64(len(recoveryCodeAlphabet)))

	for i := 0; i < RecoveryCodeLength; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return nil, fmt.Errorf("failed to generate random character: %w", err)
		}
		chars[i] = recoveryCodeAlphabet[num.Int64()]
	}

	groups := make([]string, 0, RecoveryCodeGroups)
	for i := 0; i < RecoveryCodeLength; i += RecoveryCodeGroupLength {
		groups = append(groups, string(chars[i:i+RecoveryCodeGroupLength]))
	}
	plaintext := strings.Join(groups, "-")

	normalized := NormalizeRecoveryCode(plaintext)
	return &RecoveryCode{
		plaintext:   plaintext,
		normalized:  normalized,
		fingerprint: FingerprintRecoveryCode(normalized),
	}, nil
}

// NewRecoveryCodeFromInput normalizes user-typed input and validates its
// shape. The same normalization runs at provisioning and restore so that
// lowercase, stray spaces, and missing hyphens compare identically.
func NewRecoveryCodeFromInput(input string) (*RecoveryCode, error) {
	normalized := NormalizeRecoveryCode(input)
	if len(normalized) != RecoveryCodeLength {
		return nil, ErrMalformedRecoveryCode
	}
	return &RecoveryCode{
		normalized:  normalized,
		fingerprint: FingerprintRecoveryCode(normalized),
	}, nil
}

// NormalizeRecoveryCode uppercases the input and strips every byte outside
// A-Z0-9. Separators and whitespace vanish; anything else the user typed
// that is not in the alphabet simply fails verification later.
func NormalizeRecoveryCode(input string) string {
	upper := strings.ToUpper(input)
	var b strings.Builder
	b.Grow(len(upper))
	for i := 0; i < len(upper); i++ {
		ch := upper[i]
		if (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// FingerprintRecoveryCode derives the non-secret lookup key for a
// normalized code. It is a fast digest used purely for O(1) candidate
// lookup; possession is proven by the slow hash, never by this value.
func FingerprintRecoveryCode(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Plaintext returns the formatted code for one-time display.
// Empty for codes reconstructed from user input.
func (c *RecoveryCode) Plaintext() string { return c.plaintext }

// Normalized returns the canonical 20-character form
func (c *RecoveryCode) Normalized() string { return c.normalized }

// Fingerprint returns the lookup key for this code
func (c *RecoveryCode) Fingerprint() string { return c.fingerprint }
