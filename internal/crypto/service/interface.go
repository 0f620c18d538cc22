// Package service provides the cryptographic services behind the credential layer:
// the AES-CBC envelope cipher used on the wire and KMS-backed loading of key material.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/wemakepass/internal/crypto/domain"
)

// Cipher encrypts and decrypts transport values.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// KMSService opens KMS keepers.
type KMSService interface {
	// OpenKeeper opens a secrets.Keeper for the configured KMS provider.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

// KeyLoader resolves configured secrets into validated KeyMaterial.
type KeyLoader interface {
	Load(ctx context.Context, src cryptoDomain.KeySource) (*cryptoDomain.KeyMaterial, error)
}
