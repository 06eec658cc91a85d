package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	generated, err := Generate(DefaultLength)
	require.NoError(t, err)
	assert.Len(t, generated, DefaultLength)

	for _, ch := range generated {
		assert.Contains(t, alphabet, string(ch))
	}
}

func TestGenerate_DefaultsOnInvalidLength(t *testing.T) {
	generated, err := Generate(0)
	require.NoError(t, err)
	assert.Len(t, generated, DefaultLength)
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		generated, err := Generate(DefaultLength)
		require.NoError(t, err)
		assert.False(t, seen[generated], "duplicate short ID generated: %s", generated)
		seen[generated] = true
	}
}

func TestNewIdentityID(t *testing.T) {
	identityID, err := NewIdentityID()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(identityID, "an_"))

	require.NoError(t, ValidatePrefix(identityID, PrefixIdentity))
	assert.Error(t, ValidatePrefix(identityID, "dv"))
}

func TestParsePrefixedID(t *testing.T) {
	prefix, shortID, err := ParsePrefixedID("an_xK9mP2vL3nQw")
	require.NoError(t, err)
	assert.Equal(t, "an", prefix)
	assert.Equal(t, "xK9mP2vL3nQw", shortID)

	_, _, err = ParsePrefixedID("noprefix")
	assert.Error(t, err)
}
