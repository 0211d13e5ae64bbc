package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "pm:", nil)
	ctx := context.Background()

	var dest map[string]string
	err := repo.Get(ctx, "session:1:student", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	require.NoError(t, repo.Set(ctx, "session:1:student", map[string]string{"a": "b"}, time.Minute))
	require.NoError(t, repo.DeleteByPattern(ctx, "session:1:*"))
	assert.Error(t, repo.Ping(ctx))
	require.NoError(t, repo.Close())
}

func TestCacheRepositoryNamespacesKeys(t *testing.T) {
	repo := NewCacheRepository(nil, "pm:", nil)
	assert.Equal(t, "pm:session:7:summary", repo.key("session:7:summary"))
}

func TestCacheRepositoryUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	repo := NewCacheRepository(client, "pm:", nil)
	t.Cleanup(func() { _ = repo.Close() })
	ctx := context.Background()

	var dest string
	err := repo.Get(ctx, "k", &dest)
	require.Error(t, err)
	assert.False(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.Error(t, repo.Set(ctx, "k", "v", 0))
	assert.Error(t, repo.DeleteByPattern(ctx, "session:*"))
	assert.Error(t, repo.Ping(ctx))
}
