package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
)

func newTestRepository(t *testing.T) (*CredentialRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCredentialRepository(client, "", time.Hour), mr
}

func TestCredentialRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepository(t)
	updatedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := repo.Save(ctx, &authDomain.CredentialRecord{
		UserID:       "alice",
		RefreshToken: "refresh-1",
		UpdatedAt:    updatedAt,
	})
	require.NoError(t, err)

	record, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", record.UserID)
	assert.Equal(t, "refresh-1", record.RefreshToken)
	assert.True(t, updatedAt.Equal(record.UpdatedAt))

	assert.True(t, mr.Exists(DefaultKeyPrefix+"alice"))
	assert.Equal(t, time.Hour, mr.TTL(DefaultKeyPrefix+"alice"))
}

func TestCredentialRepository_Save_Overwrites(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	require.NoError(t, repo.Save(ctx, &authDomain.CredentialRecord{UserID: "alice", RefreshToken: "refresh-1"}))
	require.NoError(t, repo.Save(ctx, &authDomain.CredentialRecord{UserID: "alice", RefreshToken: "refresh-2"}))

	record, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "refresh-2", record.RefreshToken)
}

func TestCredentialRepository_Get_NotFound(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, authDomain.ErrCredentialNotFound)
}

func TestCredentialRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepository(t)

	require.NoError(t, repo.Save(ctx, &authDomain.CredentialRecord{UserID: "alice", RefreshToken: "refresh-1"}))
	mr.FastForward(time.Hour + time.Second)

	_, err := repo.Get(ctx, "alice")
	assert.ErrorIs(t, err, authDomain.ErrCredentialNotFound)
}

func TestCredentialRepository_NonPositiveTTL(t *testing.T) {
	ctx := context.Background()

	for _, ttl := range []time.Duration{0, -time.Hour} {
		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		repo := NewCredentialRepository(client, "", ttl)

		require.NoError(t, repo.Save(ctx, &authDomain.CredentialRecord{UserID: "alice", RefreshToken: "refresh-1"}))

		record, err := repo.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "refresh-1", record.RefreshToken)
		assert.Equal(t, authDomain.DefaultRefreshTokenTTL, mr.TTL(DefaultKeyPrefix+"alice"))
	}
}

func TestCredentialRepository_Replace(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, _ := newTestRepository(t)
		require.NoError(t, repo.Save(ctx, &authDomain.CredentialRecord{UserID: "alice", RefreshToken: "refresh-1"}))

		require.NoError(t, repo.Replace(ctx, "alice", "refresh-1", "refresh-2"))

		record, err := repo.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "refresh-2", record.RefreshToken)
	})

	t.Run("Error_Mismatch", func(t *testing.T) {
		repo, _ := newTestRepository(t)
		require.NoError(t, repo.Save(ctx, &authDomain.CredentialRecord{UserID: "alice", RefreshToken: "refresh-1"}))

		err := repo.Replace(ctx, "alice", "stale", "refresh-2")
		assert.ErrorIs(t, err, authDomain.ErrCredentialConflict)

		record, err := repo.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "refresh-1", record.RefreshToken)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		repo, _ := newTestRepository(t)

		err := repo.Replace(ctx, "ghost", "refresh-1", "refresh-2")
		assert.ErrorIs(t, err, authDomain.ErrCredentialNotFound)
	})

	t.Run("ConcurrentSingleWinner", func(t *testing.T) {
		repo, _ := newTestRepository(t)
		require.NoError(t, repo.Save(ctx, &authDomain.CredentialRecord{UserID: "alice", RefreshToken: "refresh-1"}))

		const workers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if err := repo.Replace(ctx, "alice", "refresh-1", "next-"+string(rune('a'+i))); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
	})
}

func TestCredentialRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	require.NoError(t, repo.Save(ctx, &authDomain.CredentialRecord{UserID: "alice", RefreshToken: "refresh-1"}))
	require.NoError(t, repo.Delete(ctx, "alice"))
	require.NoError(t, repo.Delete(ctx, "alice"))

	_, err := repo.Get(ctx, "alice")
	assert.ErrorIs(t, err, authDomain.ErrCredentialNotFound)
}
