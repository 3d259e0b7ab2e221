package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestCacheKeyCarriesVersion(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "stats", "summary", "2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, "stats:summary:2025-03-15:1", key)

	require.NoError(t, cache.Bump(ctx))

	key, err = cache.BuildKey(ctx, "stats", "summary", "2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, "stats:summary:2025-03-15:2", key)
}

func TestCacheFetchJSONLoadsOnce(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return ProductStatsSummary{TotalRevenue: 42}, nil
	}

	var out ProductStatsSummary
	require.NoError(t, cache.FetchJSON(ctx, "k1", &out, loader))
	require.NoError(t, cache.FetchJSON(ctx, "k1", &out, loader))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 42.0, out.TotalRevenue)
}

func TestCacheFetchJSONPropagatesLoaderError(t *testing.T) {
	cache, _ := newTestCache(t)

	wantErr := errors.New("query failed")
	err := cache.FetchJSON(context.Background(), "k1", &ProductStatsSummary{}, func(context.Context) (any, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestNilCacheDegradesToLoader(t *testing.T) {
	var cache *Cache

	key, err := cache.BuildKey(context.Background(), "stats", "summary")
	require.NoError(t, err)
	assert.Equal(t, "stats:summary", key)

	var out ProductStatsSummary
	require.NoError(t, cache.FetchJSON(context.Background(), key, &out, func(context.Context) (any, error) {
		return ProductStatsSummary{TotalProfit: 7}, nil
	}))
	assert.Equal(t, 7.0, out.TotalProfit)
	assert.NoError(t, cache.Bump(context.Background()))
}
