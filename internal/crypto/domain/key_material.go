// Package domain defines the key material shared by token signing and envelope encryption.
package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	// MinSigningKeySize is the minimum HMAC-SHA256 key length in bytes (256 bits).
	MinSigningKeySize = 32

	// CipherIVSize is the AES block size; the envelope IV must match it.
	CipherIVSize = 16
)

// KeySource holds the raw configured secrets before they become KeyMaterial.
//
// JWTSecretKey is base64 (standard encoding) of the HMAC key. AESSecretKey and AESIV are
// used as raw bytes. When KMSKeyURI is set every field is instead the base64 encoding of
// a KMS ciphertext whose plaintext is the value described above.
type KeySource struct {
	JWTSecretKey string
	AESSecretKey string
	AESIV        string
	KMSKeyURI    string
}

// KMSKeeper is the subset of a gocloud.dev secrets.Keeper used to unwrap secrets.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KeyMaterial is the process-wide, immutable key set: the token signing key and the
// envelope cipher key and IV. It is built once at startup and passed to the token codec
// and the envelope cipher constructors. Accessors return copies so holders cannot mutate
// the shared bytes.
type KeyMaterial struct {
	signingKey []byte
	cipherKey  []byte
	cipherIV   []byte
}

// NewKeyMaterial validates and copies the given keys.
//
// Returns:
//   - ErrWeakSigningKey if the signing key is shorter than MinSigningKeySize
//   - ErrInvalidKeySize if the cipher key is not 16, 24 or 32 bytes
//   - ErrInvalidIVSize if the IV is not CipherIVSize bytes
func NewKeyMaterial(signingKey, cipherKey, cipherIV []byte) (*KeyMaterial, error) {
	if len(signingKey) < MinSigningKeySize {
		return nil, fmt.Errorf(
			"%w: got %d bytes, need at least %d",
			ErrWeakSigningKey,
			len(signingKey),
			MinSigningKeySize,
		)
	}

	switch len(cipherKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: cipher key must be 16, 24 or 32 bytes, got %d", ErrInvalidKeySize, len(cipherKey))
	}

	if len(cipherIV) != CipherIVSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidIVSize, len(cipherIV))
	}

	return &KeyMaterial{
		signingKey: clone(signingKey),
		cipherKey:  clone(cipherKey),
		cipherIV:   clone(cipherIV),
	}, nil
}

// ParseKeyMaterial builds KeyMaterial from plaintext configuration values.
func ParseKeyMaterial(jwtSecretKey, aesSecretKey, aesIV string) (*KeyMaterial, error) {
	if jwtSecretKey == "" || aesSecretKey == "" || aesIV == "" {
		return nil, ErrKeyMaterialNotSet
	}

	signingKey, err := base64.StdEncoding.DecodeString(strings.TrimSpace(jwtSecretKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSigningKeyBase64, err)
	}
	defer Zero(signingKey)

	return NewKeyMaterial(signingKey, []byte(aesSecretKey), []byte(aesIV))
}

// SigningKey returns a copy of the HMAC signing key.
func (k *KeyMaterial) SigningKey() []byte {
	return clone(k.signingKey)
}

// CipherKey returns a copy of the envelope cipher key.
func (k *KeyMaterial) CipherKey() []byte {
	return clone(k.cipherKey)
}

// CipherIV returns a copy of the static envelope IV.
func (k *KeyMaterial) CipherIV() []byte {
	return clone(k.cipherIV)
}

// Close zeroes the key bytes. The KeyMaterial must not be used afterwards.
func (k *KeyMaterial) Close() {
	Zero(k.signingKey)
	Zero(k.cipherKey)
	Zero(k.cipherIV)
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
