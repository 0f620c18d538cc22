package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/wemakepass/internal/crypto/domain"
	cryptoService "github.com/allisson/wemakepass/internal/crypto/service"
)

const (
	signingKeySize = 32
	// 24 random bytes encode to a 32 character AES-256 key.
	cipherKeyEntropy = 24
	// 12 random bytes encode to the 16 character IV.
	cipherIVEntropy = 12
)

// RunCreateKeys generates a fresh JWT_SECRET_KEY, AES_SECRET_KEY and AES_IV and writes
// them as environment variable assignments.
//
// When kmsKeyURI is set each value is encrypted with that KMS key and printed as base64
// ciphertext together with KMS_KEY_URI, which is the form the key loader expects.
// Changing AES_SECRET_KEY or AES_IV invalidates every value clients already hold.
func RunCreateKeys(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	signingKey := make([]byte, signingKeySize)
	if _, err := rand.Read(signingKey); err != nil {
		return fmt.Errorf("failed to generate signing key: %w", err)
	}
	defer cryptoDomain.Zero(signingKey)

	cipherKey, err := randomPrintable(cipherKeyEntropy)
	if err != nil {
		return fmt.Errorf("failed to generate cipher key: %w", err)
	}
	defer cryptoDomain.Zero(cipherKey)

	cipherIV, err := randomPrintable(cipherIVEntropy)
	if err != nil {
		return fmt.Errorf("failed to generate cipher iv: %w", err)
	}

	values := [][]byte{
		[]byte(base64.StdEncoding.EncodeToString(signingKey)),
		cipherKey,
		cipherIV,
	}

	if kmsKeyURI != "" {
		values, err = wrapWithKMS(ctx, kmsService, logger, kmsKeyURI, values)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(writer, "# Secrets encrypted with KMS")
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	} else {
		_, _ = fmt.Fprintln(writer, "# Plaintext secrets, keep them out of version control")
	}

	_, _ = fmt.Fprintf(writer, "JWT_SECRET_KEY=\"%s\"\n", values[0])
	_, _ = fmt.Fprintf(writer, "AES_SECRET_KEY=\"%s\"\n", values[1])
	_, _ = fmt.Fprintf(writer, "AES_IV=\"%s\"\n", values[2])

	logger.Info("key material generated", slog.Bool("kms", kmsKeyURI != ""))
	return nil
}

// randomPrintable returns n random bytes encoded with the URL-safe base64 alphabet so the
// result can be used verbatim as a raw key.
func randomPrintable(n int) ([]byte, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(raw)

	out := make([]byte, base64.RawURLEncoding.EncodedLen(n))
	base64.RawURLEncoding.Encode(out, raw)
	return out, nil
}

func wrapWithKMS(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	kmsKeyURI string,
	values [][]byte,
) ([][]byte, error) {
	keeperInterface, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeperInterface.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	keeper, ok := keeperInterface.(interface {
		Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	})
	if !ok {
		return nil, fmt.Errorf("KMS keeper does not support encryption")
	}

	wrapped := make([][]byte, len(values))
	for i, value := range values {
		ciphertext, err := keeper.Encrypt(ctx, value)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt secret with KMS: %w", err)
		}
		wrapped[i] = []byte(base64.StdEncoding.EncodeToString(ciphertext))
	}
	return wrapped, nil
}
