// Package redis implements the credential store on Redis.
//
// Each record is a hash at "<prefix><userID>" with the fields token and updated_at. The
// key expires together with the refresh token it holds.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
	apperrors "github.com/allisson/wemakepass/internal/errors"
)

// DefaultKeyPrefix namespaces credential keys.
const DefaultKeyPrefix = "wmp:credential:"

const (
	fieldToken     = "token"
	fieldUpdatedAt = "updated_at"
)

const (
	replaceStatusNotFound int64 = 0
	replaceStatusMismatch int64 = 1
	replaceStatusReplaced int64 = 2
)

// replaceScript swaps the token only if it still equals ARGV[1].
const replaceScript = `
local current = redis.call("HGET", KEYS[1], "token")
if not current then
  return 0
end
if current ~= ARGV[1] then
  return 1
end
redis.call("HSET", KEYS[1], "token", ARGV[2], "updated_at", ARGV[3])
redis.call("PEXPIRE", KEYS[1], ARGV[4])
return 2
`

var replaceLua = goredis.NewScript(replaceScript)

// CredentialRepository persists one refresh token per user in Redis.
type CredentialRepository struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewCredentialRepository creates a Redis credential repository. ttl should match the
// refresh token lifetime; a non-positive ttl falls back to DefaultRefreshTokenTTL.
func NewCredentialRepository(client goredis.UniversalClient, prefix string, ttl time.Duration) *CredentialRepository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = authDomain.DefaultRefreshTokenTTL
	}
	return &CredentialRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *CredentialRepository) key(userID string) string {
	return r.prefix + userID
}

// Get retrieves the credential record for userID. Returns ErrCredentialNotFound when no
// record exists.
func (r *CredentialRepository) Get(ctx context.Context, userID string) (*authDomain.CredentialRecord, error) {
	values, err := r.client.HGetAll(ctx, r.key(userID)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get credential")
	}

	token, ok := values[fieldToken]
	if !ok {
		return nil, authDomain.ErrCredentialNotFound
	}

	record := &authDomain.CredentialRecord{UserID: userID, RefreshToken: token}
	if raw, ok := values[fieldUpdatedAt]; ok {
		if ms, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
			record.UpdatedAt = time.UnixMilli(ms).UTC()
		}
	}
	return record, nil
}

// Save creates or overwrites the credential record for record.UserID.
func (r *CredentialRepository) Save(ctx context.Context, record *authDomain.CredentialRecord) error {
	key := r.key(record.UserID)
	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldToken, record.RefreshToken, fieldUpdatedAt, updatedAt.UnixMilli())
		pipe.PExpire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to save credential")
	}
	return nil
}

// Replace atomically overwrites the stored token only if it still equals expected.
// Returns ErrCredentialNotFound when the record is gone and ErrCredentialConflict when
// another writer replaced it first.
func (r *CredentialRepository) Replace(ctx context.Context, userID, expected, next string) error {
	status, err := replaceLua.Run(
		ctx,
		r.client,
		[]string{r.key(userID)},
		expected,
		next,
		time.Now().UTC().UnixMilli(),
		r.ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return apperrors.Wrap(err, "failed to replace credential")
	}

	switch status {
	case replaceStatusReplaced:
		return nil
	case replaceStatusNotFound:
		return authDomain.ErrCredentialNotFound
	case replaceStatusMismatch:
		return authDomain.ErrCredentialConflict
	default:
		return fmt.Errorf("unknown replace script status %d", status)
	}
}

// Delete removes the credential record for userID. Deleting a missing record succeeds.
func (r *CredentialRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		return apperrors.Wrap(err, "failed to delete credential")
	}
	return nil
}
