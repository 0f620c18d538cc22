package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/wemakepass/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsService implements KMSService using gocloud.dev/secrets.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper for the configured KMS provider using the keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// keyLoader turns configured secrets into KeyMaterial, unwrapping them through a KMS
// keeper when a key URI is configured.
type keyLoader struct {
	kms    KMSService
	logger *slog.Logger
}

// NewKeyLoader creates a KeyLoader backed by the given KMS service.
func NewKeyLoader(kms KMSService, logger *slog.Logger) KeyLoader {
	return &keyLoader{kms: kms, logger: logger}
}

// Load builds the process KeyMaterial from src.
//
// Without KMSKeyURI the values are used as configured. With it, each value is treated as
// base64 (standard encoding) of a KMS ciphertext and decrypted before use.
func (l *keyLoader) Load(ctx context.Context, src cryptoDomain.KeySource) (*cryptoDomain.KeyMaterial, error) {
	if src.KMSKeyURI == "" {
		return cryptoDomain.ParseKeyMaterial(src.JWTSecretKey, src.AESSecretKey, src.AESIV)
	}

	keeper, err := l.kms.OpenKeeper(ctx, src.KMSKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			l.logger.Warn("failed to close kms keeper", slog.Any("error", closeErr))
		}
	}()

	jwtSecretKey, err := unwrap(ctx, keeper, "JWT_SECRET_KEY", src.JWTSecretKey)
	if err != nil {
		return nil, err
	}
	aesSecretKey, err := unwrap(ctx, keeper, "AES_SECRET_KEY", src.AESSecretKey)
	if err != nil {
		return nil, err
	}
	aesIV, err := unwrap(ctx, keeper, "AES_IV", src.AESIV)
	if err != nil {
		return nil, err
	}

	l.logger.Info("key material unwrapped through kms")
	return cryptoDomain.ParseKeyMaterial(jwtSecretKey, aesSecretKey, aesIV)
}

func unwrap(ctx context.Context, keeper cryptoDomain.KMSKeeper, name, value string) (string, error) {
	if value == "" {
		return "", cryptoDomain.ErrKeyMaterialNotSet
	}

	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: %s is not base64: %v", cryptoDomain.ErrKMSUnwrap, name, err)
	}

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", cryptoDomain.ErrKMSUnwrap, name, err)
	}
	defer cryptoDomain.Zero(plaintext)

	return string(plaintext), nil
}
