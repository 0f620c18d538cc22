package service

import (
	"strings"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/allisson/wemakepass/internal/errors"
)

// bcryptPrefixes identify account hashes written before the move to Argon2id.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// passwordService implements PasswordService using Argon2id, with read-only support for
// legacy bcrypt hashes.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// Hash hashes a plain text password using Argon2id.
func (p *passwordService) Hash(password string) (string, error) {
	hashed, err := p.hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hashed, nil
}

// Verify performs a constant-time comparison between a plain password and its hash.
func (p *passwordService) Verify(password, hashed string) bool {
	if isBcrypt(hashed) {
		return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
	}

	ok, err := p.hasher.Verify([]byte(password), hashed)
	if err != nil {
		return false
	}
	return ok
}

// NeedsRehash reports whether hashed should be replaced with a fresh Argon2id hash.
func (p *passwordService) NeedsRehash(hashed string) bool {
	return isBcrypt(hashed)
}

func isBcrypt(hashed string) bool {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(hashed, prefix) {
			return true
		}
	}
	return false
}

// NewPasswordService creates a new PasswordService instance using Argon2id hashing.
// Uses the Moderate policy for a balance between security and performance.
func NewPasswordService() PasswordService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &passwordService{
		hasher: hasher,
	}
}
