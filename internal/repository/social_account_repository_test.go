package repository

import (
	"testing"
	"time"

	"discord-social-bot/internal/models"
	"discord-social-bot/pkg/vault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVault(t *testing.T) *vault.Vault {
	t.Helper()
	v, err := vault.New("unit-test-key")
	require.NoError(t, err)
	return v
}

func TestDecryptBundleAccessTokenOnly(t *testing.T) {
	v := newTestVault(t)

	encrypted, err := v.Encrypt("AbCdEf.access.token")
	require.NoError(t, err)

	sa := &models.SocialMediaAccount{
		Platform: models.PlatformLinkedin,
		Tokens:   models.PlatformTokens{AccessToken: encrypted},
	}

	bundle, err := decryptBundle(v, sa)
	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.Equal(t, "AbCdEf.access.token", bundle.AccessToken)
	assert.Nil(t, bundle.RefreshToken)
	assert.Nil(t, bundle.ExpiresAt)
}

func TestDecryptBundleFullSet(t *testing.T) {
	v := newTestVault(t)

	access, err := v.Encrypt("access-token")
	require.NoError(t, err)
	refresh, err := v.Encrypt("refresh-token")
	require.NoError(t, err)
	expiresAt := time.Now().UTC().Add(time.Hour)

	sa := &models.SocialMediaAccount{
		Tokens: models.PlatformTokens{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresAt:    &expiresAt,
		},
	}

	bundle, err := decryptBundle(v, sa)
	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.Equal(t, "access-token", bundle.AccessToken)
	require.NotNil(t, bundle.RefreshToken)
	assert.Equal(t, "refresh-token", *bundle.RefreshToken)
	require.NotNil(t, bundle.ExpiresAt)
	assert.True(t, expiresAt.Equal(*bundle.ExpiresAt))
}

func TestDecryptBundleMissingTokens(t *testing.T) {
	v := newTestVault(t)

	bundle, err := decryptBundle(v, &models.SocialMediaAccount{})
	assert.NoError(t, err)
	assert.Nil(t, bundle)
}

func TestDecryptBundleWrongKey(t *testing.T) {
	other, err := vault.New("some-other-key")
	require.NoError(t, err)
	encrypted, err := other.Encrypt("access-token")
	require.NoError(t, err)

	sa := &models.SocialMediaAccount{
		Tokens: models.PlatformTokens{AccessToken: encrypted},
	}

	_, err = decryptBundle(newTestVault(t), sa)
	assert.ErrorIs(t, err, vault.ErrDecrypt)
}
