package identity

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var canonicalCodePattern = regexp.MustCompile(`^[A-Z0-9]{5}(-[A-Z0-9]{5}){3}$`)

func TestGenerateRecoveryCode_Format(t *testing.T) {
	code, err := GenerateRecoveryCode()
	require.NoError(t, err)

	assert.Regexp(t, canonicalCodePattern, code.Plaintext())
	assert.Len(t, code.Normalized(), RecoveryCodeLength)
	assert.Len(t, code.Fingerprint(), 64)
}

func TestGenerateRecoveryCode_ExcludesConfusableCharacters(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateRecoveryCode()
		require.NoError(t, err)

		for _, forbidden := range []string{"0", "O", "1", "I"} {
			assert.NotContains(t, code.Normalized(), forbidden)
		}
	}
}

func TestGenerateRecoveryCode_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		code, err := GenerateRecoveryCode()
		require.NoError(t, err)
		assert.False(t, seen[code.Normalized()], "duplicate code generated")
		seen[code.Normalized()] = true
	}
}

func TestNormalizeRecoveryCode_TypedVariantsCompareEqual(t *testing.T) {
	code, err := GenerateRecoveryCode()
	require.NoError(t, err)

	variants := []string{
		code.Plaintext(),
		strings.ToLower(code.Plaintext()),
		" " + code.Plaintext() + " ",
		strings.ReplaceAll(code.Plaintext(), "-", " "),
		strings.ReplaceAll(code.Plaintext(), "-", ""),
	}

	for _, variant := range variants {
		assert.Equal(t, code.Normalized(), NormalizeRecoveryCode(variant),
			"variant %q should normalize to canonical form", variant)
	}
}

func TestNormalizeRecoveryCode_FingerprintStable(t *testing.T) {
	code, err := GenerateRecoveryCode()
	require.NoError(t, err)

	lower := NormalizeRecoveryCode(strings.ToLower(code.Plaintext()))
	assert.Equal(t, code.Fingerprint(), FingerprintRecoveryCode(lower))
}

func TestNewRecoveryCodeFromInput(t *testing.T) {
	code, err := GenerateRecoveryCode()
	require.NoError(t, err)

	parsed, err := NewRecoveryCodeFromInput(strings.ToLower(code.Plaintext()))
	require.NoError(t, err)
	assert.Equal(t, code.Fingerprint(), parsed.Fingerprint())
	assert.Empty(t, parsed.Plaintext(), "user input must not round-trip as plaintext")
}

func TestNewRecoveryCodeFromInput_Malformed(t *testing.T) {
	cases := []string{
		"",
		"ABCDE",
		"ABCDE-FGHJK-LMNPQ",
		"ABCDE-FGHJK-LMNPQ-RSTUV-WXYZ2",
		"!!!!!-!!!!!-!!!!!-!!!!!",
	}
	for _, input := range cases {
		_, err := NewRecoveryCodeFromInput(input)
		assert.ErrorIs(t, err, ErrMalformedRecoveryCode, "input %q", input)
	}
}

func TestFingerprintRecoveryCode_DiffersAcrossCodes(t *testing.T) {
	a := FingerprintRecoveryCode("ABCDEFGHJKLMNPQRSTUV")
	b := FingerprintRecoveryCode("ABCDEFGHJKLMNPQRSTUW")
	assert.NotEqual(t, a, b)
}

func FuzzNormalizeRecoveryCode(f *testing.F) {
	f.Add("AB3DE-FGH4J-KLMN5-PQRS6")
	f.Add("ab3de fgh4j klmn5 pqrs6")
	f.Add("")
	f.Add("!!!@#$%")

	f.Fuzz(func(t *testing.T, input string) {
		normalized := NormalizeRecoveryCode(input)

		// Idempotent
		assert.Equal(t, normalized, NormalizeRecoveryCode(normalized))

		// Output restricted to the uppercase alphanumeric set
		for i := 0; i < len(normalized); i++ {
			ch := normalized[i]
			valid := (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
			assert.True(t, valid, "unexpected byte %q in normalized output", ch)
		}
	})
}
