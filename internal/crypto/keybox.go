// Package crypto implements the per-user secret encryption used by the
// vault. Every secret stored in a credential document is sealed under the
// owner's key with AES-256-GCM; the random nonce is prepended to the
// ciphertext so the stored blob is self-describing.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// KeySize is the key length required by AES-256.
const KeySize = 32

var (
	// ErrKeyLength is returned when a key reference does not decode to
	// exactly KeySize bytes.
	ErrKeyLength = errors.New("encryption key must be 32 bytes")

	// ErrIntegrity is returned when authenticated decryption fails: the
	// blob was tampered with, truncated, or sealed under a different key.
	ErrIntegrity = errors.New("ciphertext integrity check failed")
)

// Keybox seals and opens secrets under a single tenant key.
type Keybox struct {
	key []byte
}

// New builds a Keybox from a stored key reference (base64 of the raw key).
func New(keyRef string) (*Keybox, error) {
	key, err := base64.StdEncoding.DecodeString(keyRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyLength, err)
	}
	if len(key) != KeySize {
		return nil, ErrKeyLength
	}
	return &Keybox{key: key}, nil
}

// GenerateKey mints a fresh random tenant key and returns it encoded for
// storage on the user record. It is called once, at registration.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// Encrypt seals plaintext with a fresh nonce and returns the storable blob.
func (k *Keybox) Encrypt(plaintext string) (string, error) {
	gcm, err := k.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a blob produced by Encrypt. Any authentication failure is
// reported as ErrIntegrity; garbage is never returned.
func (k *Keybox) Decrypt(blob string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIntegrity, err)
	}

	gcm, err := k.aead()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(sealed) < nonceSize {
		return "", ErrIntegrity
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrIntegrity
	}

	return string(plaintext), nil
}

func (k *Keybox) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(k.key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return gcm, nil
}
