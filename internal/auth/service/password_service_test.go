package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordService(t *testing.T) {
	svc := NewPasswordService()

	t.Run("Success_HashAndVerify", func(t *testing.T) {
		hashed, err := svc.Hash("correct horse")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse", hashed)

		assert.True(t, svc.Verify("correct horse", hashed))
		assert.False(t, svc.Verify("wrong horse", hashed))
		assert.False(t, svc.NeedsRehash(hashed))
	})

	t.Run("Success_LegacyBcrypt", func(t *testing.T) {
		legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
		require.NoError(t, err)

		assert.True(t, svc.Verify("legacy-pass", string(legacy)))
		assert.False(t, svc.Verify("other", string(legacy)))
		assert.True(t, svc.NeedsRehash(string(legacy)))
	})

	t.Run("InvalidHash", func(t *testing.T) {
		assert.False(t, svc.Verify("anything", "not-a-hash"))
	})
}
