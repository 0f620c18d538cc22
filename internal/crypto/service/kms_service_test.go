package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"log/slog"
	"testing"

	"gocloud.dev/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/wemakepass/internal/crypto/domain"
)

const (
	testJWTSecretKey = "dGVzdC1zaWduaW5nLWtleS0wMTIzNDU2Nzg5YWJjZGVm"
	testAESSecretKey = "0123456789abcdef0123456789abcdef"
	testAESIV        = "abcdef9876543210"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// wrap encrypts value with the keeper behind keyURI and returns base64 of the ciphertext.
func wrap(t *testing.T, keyURI, value string) string {
	t.Helper()
	keeper, err := secrets.OpenKeeper(context.Background(), keyURI)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper.Close())
	}()

	ciphertext, err := keeper.Encrypt(context.Background(), []byte(value))
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(ciphertext)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		require.NotNil(t, keeper)

		_, ok := keeper.(*secrets.Keeper)
		assert.True(t, ok, "keeper should be *secrets.Keeper")
		assert.NoError(t, keeper.Close())
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "invalid://uri")
		assert.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})
}

func TestKeyLoader_Load(t *testing.T) {
	ctx := context.Background()
	loader := NewKeyLoader(NewKMSService(), discardLogger())

	t.Run("Success_Plaintext", func(t *testing.T) {
		keys, err := loader.Load(ctx, cryptoDomain.KeySource{
			JWTSecretKey: testJWTSecretKey,
			AESSecretKey: testAESSecretKey,
			AESIV:        testAESIV,
		})
		require.NoError(t, err)

		assert.Equal(t, []byte("test-signing-key-0123456789abcdef"), keys.SigningKey())
		assert.Equal(t, []byte(testAESSecretKey), keys.CipherKey())
		assert.Equal(t, []byte(testAESIV), keys.CipherIV())
	})

	t.Run("Success_KMSWrapped", func(t *testing.T) {
		keyURI := generateLocalSecretsURI(t)

		keys, err := loader.Load(ctx, cryptoDomain.KeySource{
			JWTSecretKey: wrap(t, keyURI, testJWTSecretKey),
			AESSecretKey: wrap(t, keyURI, testAESSecretKey),
			AESIV:        wrap(t, keyURI, testAESIV),
			KMSKeyURI:    keyURI,
		})
		require.NoError(t, err)

		assert.Equal(t, []byte("test-signing-key-0123456789abcdef"), keys.SigningKey())
		assert.Equal(t, []byte(testAESSecretKey), keys.CipherKey())
		assert.Equal(t, []byte(testAESIV), keys.CipherIV())
	})

	t.Run("Error_WrongKMSKey", func(t *testing.T) {
		keyURI := generateLocalSecretsURI(t)

		_, err := loader.Load(ctx, cryptoDomain.KeySource{
			JWTSecretKey: wrap(t, generateLocalSecretsURI(t), testJWTSecretKey),
			AESSecretKey: wrap(t, keyURI, testAESSecretKey),
			AESIV:        wrap(t, keyURI, testAESIV),
			KMSKeyURI:    keyURI,
		})
		assert.ErrorIs(t, err, cryptoDomain.ErrKMSUnwrap)
	})

	t.Run("Error_CiphertextNotBase64", func(t *testing.T) {
		_, err := loader.Load(ctx, cryptoDomain.KeySource{
			JWTSecretKey: "not base64!",
			AESSecretKey: "x",
			AESIV:        "y",
			KMSKeyURI:    generateLocalSecretsURI(t),
		})
		assert.ErrorIs(t, err, cryptoDomain.ErrKMSUnwrap)
	})

	t.Run("Error_MissingValue", func(t *testing.T) {
		_, err := loader.Load(ctx, cryptoDomain.KeySource{
			JWTSecretKey: testJWTSecretKey,
			AESIV:        testAESIV,
		})
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyMaterialNotSet)
	})

	t.Run("Error_InvalidKeyURI", func(t *testing.T) {
		_, err := loader.Load(ctx, cryptoDomain.KeySource{
			JWTSecretKey: testJWTSecretKey,
			AESSecretKey: testAESSecretKey,
			AESIV:        testAESIV,
			KMSKeyURI:    "invalid://uri",
		})
		assert.Error(t, err)
	})
}
