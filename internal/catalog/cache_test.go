package catalog

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*SummaryCache, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewSummaryCache(client, time.Minute)
	return cache, func() {
		_ = client.Close()
		mr.Close()
	}
}

func TestSummaryCacheFetchJSONPopulatesOnce(t *testing.T) {
	cache, cleanup := newTestCache(t)
	defer cleanup()
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, SummaryKey())
	require.NoError(t, err)

	loads := 0
	loader := func(context.Context) (interface{}, error) {
		loads++
		return Analyze([]Record{statusRecord("Active", "Skincare", "10")}), nil
	}

	var first Summary
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	var second Summary
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))

	assert.Equal(t, 1, loads)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, first.TotalProducts)
}

func TestSummaryCacheBumpRetiresOldKeys(t *testing.T) {
	cache, cleanup := newTestCache(t)
	defer cleanup()
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, SummaryKey())
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, SummaryKey())
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestSummaryCacheVersionInitialises(t *testing.T) {
	cache, cleanup := newTestCache(t)
	defer cleanup()

	ver, err := cache.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)
}

func TestSummaryCacheNilClientRunsLoaderDirectly(t *testing.T) {
	var cache *SummaryCache
	ctx := context.Background()

	require.NoError(t, cache.Bump(ctx))

	key, err := cache.BuildKey(ctx, SummaryKey())
	require.NoError(t, err)

	loads := 0
	var summary Summary
	loader := func(context.Context) (interface{}, error) {
		loads++
		return Analyze(nil), nil
	}
	require.NoError(t, cache.FetchJSON(ctx, key, &summary, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &summary, loader))

	assert.Equal(t, 2, loads)
}

func TestServiceSummaryServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() {
		_ = client.Close()
		mr.Close()
	}()

	cache := NewSummaryCache(client, time.Minute)
	svc := NewService(NewCollection(), &fakeStore{}, cache, nil)
	ctx := context.Background()

	_, err := svc.Add(ctx, rawProduct("SKU-001", "Toner"))
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalProducts)

	// A second add bumps the version, so the summary reflects the new record
	// rather than the cached one.
	_, err = svc.Add(ctx, rawProduct("SKU-002", "Serum"))
	require.NoError(t, err)

	summary, err = svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalProducts)
}
