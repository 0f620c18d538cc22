package domain

import (
	"github.com/allisson/wemakepass/internal/errors"
)

// Key material and envelope cipher errors.
//
// Callers translate ErrEncryption and ErrDecryption into the AES_ENCRYPTION_ERROR and
// AES_DECRYPTION_ERROR codes.
var (
	// ErrKeyMaterialNotSet indicates one of JWT_SECRET_KEY, AES_SECRET_KEY or AES_IV is empty.
	ErrKeyMaterialNotSet = errors.New("key material not set")

	// ErrInvalidSigningKeyBase64 indicates JWT_SECRET_KEY is not valid base64.
	ErrInvalidSigningKeyBase64 = errors.Wrap(errors.ErrInvalidInput, "invalid signing key base64")

	// ErrWeakSigningKey indicates the HMAC key is shorter than 256 bits.
	ErrWeakSigningKey = errors.Wrap(errors.ErrInvalidInput, "signing key too short")

	// ErrInvalidKeySize indicates the envelope cipher key is not a valid AES key length.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidIVSize indicates the envelope IV is not one AES block long.
	ErrInvalidIVSize = errors.Wrap(errors.ErrInvalidInput, "invalid iv size")

	// ErrEncryption indicates the envelope cipher failed to encrypt.
	ErrEncryption = errors.New("encryption failed")

	// ErrDecryption indicates the envelope cipher failed to decrypt: bad encoding, wrong
	// length, wrong key or corrupted padding.
	ErrDecryption = errors.New("decryption failed")

	// ErrKMSUnwrap indicates a KMS ciphertext could not be unwrapped.
	ErrKMSUnwrap = errors.New("kms unwrap failed")
)
