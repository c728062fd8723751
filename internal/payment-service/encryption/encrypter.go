// Package encryption seals payment data at rest with AES-256-GCM.
//
// Encrypted values are base64(nonce || ciphertext) followed by the
// EncryptedSuffix marker, so encrypted and plain values can live in the same
// column and be told apart.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const EncryptedSuffix = "#ENCRYPTED"

const keyInfo = "ecommerce-promotions payment encryption v1"

var (
	ErrEmptySecret = errors.New("encryption: secret is empty")
	ErrMalformed   = errors.New("encryption: malformed encrypted value")
)

// Encrypter encrypts single string values.
type Encrypter interface {
	Encrypt(value string) (string, error)
	Decrypt(value string) (string, error)
}

// AESEncrypter is an Encrypter using AES-256-GCM with a key derived from a
// shared secret through HKDF-SHA256.
type AESEncrypter struct {
	aead cipher.AEAD
}

func NewAESEncrypter(secret []byte) (*AESEncrypter, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("encryption: derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("encryption: new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("encryption: new gcm: %w", err)
	}
	return &AESEncrypter{aead: aead}, nil
}

// IsEncrypted reports whether value carries the encrypted marker.
func IsEncrypted(value string) bool {
	return strings.HasSuffix(value, EncryptedSuffix)
}

// Encrypt seals value. Values that are already encrypted are returned as is.
func (e *AESEncrypter) Encrypt(value string) (string, error) {
	if IsEncrypted(value) {
		return value, nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("encryption: read nonce: %w", err)
	}
	sealed := e.aead.Seal(nonce, nonce, []byte(value), nil)
	return base64.StdEncoding.EncodeToString(sealed) + EncryptedSuffix, nil
}

// Decrypt opens a value produced by Encrypt. Values without the encrypted
// marker are returned as is.
func (e *AESEncrypter) Decrypt(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}

	payload, err := base64.StdEncoding.DecodeString(strings.TrimSuffix(value, EncryptedSuffix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	nonceSize := e.aead.NonceSize()
	if len(payload) < nonceSize {
		return "", fmt.Errorf("%w: too short", ErrMalformed)
	}
	plain, err := e.aead.Open(nil, payload[:nonceSize], payload[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("encryption: decrypt: %w", err)
	}
	return string(plain), nil
}
