package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/lejian-admin-api/pkg/errors"
)

type cachedPayload struct {
	Total int `json:"total"`
}

func newCacheRepo(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	repo := NewCacheRepository(client, "lejian:")
	t.Cleanup(func() { _ = repo.Close() })
	return repo, server
}

func TestCacheRepositoryRoundTrip(t *testing.T) {
	repo, server := newCacheRepo(t)
	ctx := context.Background()

	var out cachedPayload
	err := repo.Get(ctx, "stats", &out)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	require.NoError(t, repo.Set(ctx, "stats", cachedPayload{Total: 20}, time.Minute))
	assert.True(t, server.Exists("lejian:stats"))

	require.NoError(t, repo.Get(ctx, "stats", &out))
	assert.Equal(t, 20, out.Total)

	server.FastForward(2 * time.Minute)
	err = repo.Get(ctx, "stats", &out)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
}

func TestCacheRepositoryDeleteByPattern(t *testing.T) {
	repo, server := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "checkin:2", cachedPayload{Total: 1}, time.Minute))
	require.NoError(t, repo.Set(ctx, "checkin:4", cachedPayload{Total: 2}, time.Minute))
	require.NoError(t, repo.Set(ctx, "stats", cachedPayload{Total: 3}, time.Minute))

	require.NoError(t, repo.DeleteByPattern(ctx, "checkin:*"))

	assert.False(t, server.Exists("lejian:checkin:2"))
	assert.False(t, server.Exists("lejian:checkin:4"))
	assert.True(t, server.Exists("lejian:stats"))
}

func TestCacheRepositoryNilClient(t *testing.T) {
	repo := NewCacheRepository(nil, "x:")
	var out cachedPayload
	assert.ErrorIs(t, repo.Get(context.Background(), "k", &out), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "k", out, time.Second))
	assert.NoError(t, repo.DeleteByPattern(context.Background(), "*"))
}

func TestCacheRepositoryFlushStaysInsidePrefix(t *testing.T) {
	repo, server := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, server.Set("other-app:session", "keep"))
	require.NoError(t, repo.Set(ctx, "stats:1:20", cachedPayload{Total: 20}, time.Minute))
	require.NoError(t, repo.Set(ctx, "checkin:week:2", cachedPayload{Total: 18}, time.Minute))

	require.NoError(t, repo.DeleteByPattern(ctx, "*"))

	assert.False(t, server.Exists("lejian:stats:1:20"))
	assert.False(t, server.Exists("lejian:checkin:week:2"))
	assert.True(t, server.Exists("other-app:session"))
}

func TestCacheRepositoryClose(t *testing.T) {
	repo, _ := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Close())
	assert.Error(t, repo.Set(ctx, "stats", cachedPayload{Total: 1}, time.Minute))
	assert.NoError(t, NewCacheRepository(nil, "x:").Close())
}
