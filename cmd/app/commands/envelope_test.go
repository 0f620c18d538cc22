package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/wemakepass/internal/crypto/domain"
	cryptoService "github.com/allisson/wemakepass/internal/crypto/service"
)

func newTestCipher(t *testing.T) *cryptoService.EnvelopeCipher {
	t.Helper()

	keys, err := cryptoDomain.NewKeyMaterial(
		[]byte("test-signing-key-0123456789abcdef"),
		[]byte("0123456789abcdef0123456789abcdef"),
		[]byte("abcdef9876543210"),
	)
	require.NoError(t, err)

	cipher, err := cryptoService.NewEnvelopeCipher(keys)
	require.NoError(t, err)
	return cipher
}

func TestRunEnvelope(t *testing.T) {
	cipher := newTestCipher(t)

	t.Run("round-trip", func(t *testing.T) {
		var encrypted bytes.Buffer
		require.NoError(t, RunEnvelope(cipher, &encrypted, EnvelopeEncrypt, "alice"))

		var decrypted bytes.Buffer
		require.NoError(t, RunEnvelope(cipher, &decrypted, EnvelopeDecrypt, strings.TrimSpace(encrypted.String())))
		require.Equal(t, "alice\n", decrypted.String())
	})

	t.Run("empty-value", func(t *testing.T) {
		err := RunEnvelope(cipher, &bytes.Buffer{}, EnvelopeEncrypt, "")
		require.Error(t, err)
	})

	t.Run("undecryptable", func(t *testing.T) {
		err := RunEnvelope(cipher, &bytes.Buffer{}, EnvelopeDecrypt, "%%%")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to decrypt value")
	})

	t.Run("invalid-mode", func(t *testing.T) {
		err := RunEnvelope(cipher, &bytes.Buffer{}, EnvelopeMode("sign"), "alice")
		require.Error(t, err)
	})
}
