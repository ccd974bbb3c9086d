package recipe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-planner/internal/core/browse"
	"recipe-planner/internal/infrastructure/config"
)

// fakeSource 記錄回源次數的假食譜庫
type fakeSource struct {
	calls   int
	recipes []browse.RecipeSummary
}

func (f *fakeSource) FetchRecipes(_ context.Context, _ string) ([]browse.RecipeSummary, error) {
	f.calls++
	return f.recipes, nil
}

func snapshotConfig(enabled bool, maxSize int, ttl time.Duration) *config.SnapshotConfig {
	return &config.SnapshotConfig{
		Enabled:         enabled,
		MaxSize:         maxSize,
		TTL:             ttl,
		CleanupInterval: time.Minute,
	}
}

func TestSnapshotCacheHit(t *testing.T) {
	source := &fakeSource{recipes: []browse.RecipeSummary{{ID: "1", Title: "Garlic Pasta"}}}
	cache := NewSnapshotCache(snapshotConfig(true, 10, time.Minute), source)
	defer cache.Close()

	ctx := context.Background()

	first, err := cache.FetchRecipes(ctx, "italian")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, source.calls)

	// 第二次命中快照，不回源
	second, err := cache.FetchRecipes(ctx, "italian")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)

	// 不同 cuisine 是不同快照
	_, err = cache.FetchRecipes(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)

	stats := cache.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(2), stats["misses"])
}

func TestSnapshotCacheDisabledPassThrough(t *testing.T) {
	source := &fakeSource{}
	cache := NewSnapshotCache(snapshotConfig(false, 10, time.Minute), source)
	defer cache.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := cache.FetchRecipes(ctx, "")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, source.calls)
}

func TestSnapshotCacheExpiry(t *testing.T) {
	source := &fakeSource{}
	cache := NewSnapshotCache(snapshotConfig(true, 10, 10*time.Millisecond), source)
	defer cache.Close()

	ctx := context.Background()
	_, err := cache.FetchRecipes(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	time.Sleep(20 * time.Millisecond)

	// 過期後再取要回源
	_, err = cache.FetchRecipes(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestSnapshotCacheEviction(t *testing.T) {
	source := &fakeSource{}
	cache := NewSnapshotCache(snapshotConfig(true, 2, time.Minute), source)
	defer cache.Close()

	ctx := context.Background()
	for _, cuisine := range []string{"italian", "mexican", "thai"} {
		_, err := cache.FetchRecipes(ctx, cuisine)
		require.NoError(t, err)
	}

	stats := cache.GetStats()
	assert.Equal(t, 2, stats["size"])
	assert.Equal(t, int64(1), stats["evictions"])
}
