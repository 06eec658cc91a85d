package identity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnonymousIdentity(t *testing.T) {
	code, err := GenerateRecoveryCode()
	require.NoError(t, err)

	anon, err := NewAnonymousIdentity(code.Fingerprint(), "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(anon.SID(), "an_"))
	assert.Equal(t, code.Fingerprint(), anon.RecoveryCodeFingerprint())
	assert.NotEmpty(t, anon.RecoveryCodeHash())
	assert.False(t, anon.CreatedAt().IsZero())
	assert.Equal(t, time.UTC, anon.CreatedAt().Location())
}

func TestNewAnonymousIdentity_Validation(t *testing.T) {
	_, err := NewAnonymousIdentity("", "hash")
	assert.Error(t, err)

	_, err = NewAnonymousIdentity("fingerprint", "")
	assert.Error(t, err)
}

func TestNewDeviceLink(t *testing.T) {
	deviceID := NewDeviceID()

	link, err := NewDeviceLink(deviceID, 42)
	require.NoError(t, err)
	assert.Equal(t, deviceID, link.DeviceID())
	assert.Equal(t, uint(42), link.IdentityID())
	assert.False(t, link.LastActiveAt().IsZero())
}

func TestNewDeviceLink_Validation(t *testing.T) {
	_, err := NewDeviceLink("", 1)
	assert.Error(t, err)

	_, err = NewDeviceLink("not-a-uuid", 1)
	assert.Error(t, err)

	_, err = NewDeviceLink(NewDeviceID(), 0)
	assert.Error(t, err)
}

func TestValidateDeviceID(t *testing.T) {
	assert.NoError(t, ValidateDeviceID(NewDeviceID()))
	assert.Error(t, ValidateDeviceID(""))
	assert.Error(t, ValidateDeviceID("not-a-uuid"))
}

func TestDeviceLink_Rebind(t *testing.T) {
	link, err := NewDeviceLink(NewDeviceID(), 1)
	require.NoError(t, err)

	before := link.LastActiveAt()
	time.Sleep(time.Millisecond)

	require.NoError(t, link.Rebind(2))
	assert.Equal(t, uint(2), link.IdentityID())
	assert.True(t, link.LastActiveAt().After(before))

	assert.Error(t, link.Rebind(0))
}
