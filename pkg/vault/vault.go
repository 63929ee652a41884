package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrNoKey means no encryption key was configured. Startup must fail on it;
// tokens cannot be persisted in the clear.
var ErrNoKey = errors.New("vault: no encryption key configured")

// ErrDecrypt means the ciphertext is corrupt, tampered with, or was written
// under a different key. Callers treat it as "credentials unusable".
var ErrDecrypt = errors.New("vault: decryption failed")

// Vault does authenticated encryption (AES-256-GCM) of credential strings.
// Ciphertext layout is nonce||sealed, base64-encoded.
type Vault struct {
	aead cipher.AEAD
}

func New(key string) (*Vault, error) {
	if key == "" {
		return nil, ErrNoKey
	}

	// Accept any non-empty key material and derive a 32-byte AES key from it.
	derived := sha256.Sum256([]byte(key))

	block, err := aes.NewCipher(derived[:])
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Vault{aead: aead}, nil
}

func (v *Vault) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := v.aead.Seal(nil, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(append(nonce, sealed...)), nil
}

func (v *Vault) Decrypt(encrypted string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	nonceSize := v.aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := v.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	return string(plaintext), nil
}
