package vault

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresKey(t *testing.T) {
	v, err := New("")
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	v, err := New("test-encryption-key")
	require.NoError(t, err)

	for _, plaintext := range []string{
		"AbCdEfGh.access.token",
		"",
		"token with spaces and ünïcode",
	} {
		ciphertext, err := v.Encrypt(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, ciphertext)

		got, err := v.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestEncryptIsRandomized(t *testing.T) {
	v, err := New("test-encryption-key")
	require.NoError(t, err)

	first, err := v.Encrypt("same token")
	require.NoError(t, err)
	second, err := v.Encrypt("same token")
	require.NoError(t, err)

	// Fresh nonce per call, so identical plaintext never repeats ciphertext.
	assert.NotEqual(t, first, second)
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	v, err := New("test-encryption-key")
	require.NoError(t, err)

	ciphertext, err := v.Encrypt("secret token")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = v.Decrypt(tampered)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecryptWrongKey(t *testing.T) {
	v1, err := New("key-one")
	require.NoError(t, err)
	v2, err := New("key-two")
	require.NoError(t, err)

	ciphertext, err := v1.Encrypt("secret token")
	require.NoError(t, err)

	_, err = v2.Decrypt(ciphertext)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecryptGarbage(t *testing.T) {
	v, err := New("test-encryption-key")
	require.NoError(t, err)

	for _, input := range []string{"not base64 at all!!!", "YWJj"} {
		_, err := v.Decrypt(input)
		assert.ErrorIs(t, err, ErrDecrypt)
	}
}
