package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()

	ctx := context.Background()
	value := []byte(`{"data":null}`)

	require.NoError(t, cache.Set(ctx, "doc", value, time.Minute))

	got, err := cache.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, value, got)

	// stored values are copies
	value[0] = 'X'
	got, err = cache.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, byte('{'), got[0])
}

func TestMemoryCache_Miss(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()

	_, err := cache.Get(context.Background(), "absent")
	assert.True(t, IsCacheMiss(err))
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "short", []byte("a"), time.Second))
	require.NoError(t, cache.Set(ctx, "default", []byte("b"), 0))
	require.NoError(t, cache.Set(ctx, "forever", []byte("c"), -1))

	now = now.Add(2 * time.Second)

	_, err := cache.Get(ctx, "short")
	assert.True(t, IsCacheMiss(err))

	_, err = cache.Get(ctx, "default")
	assert.NoError(t, err, "default TTL is five minutes")

	now = now.Add(time.Hour)
	cache.evictExpired()

	assert.Equal(t, 1, cache.Len())
	_, err = cache.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, cache.Delete(ctx, "a"))
	_, err := cache.Get(ctx, "a")
	assert.True(t, IsCacheMiss(err))

	require.NoError(t, cache.Clear(ctx))
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_CanceledContext(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, cache.Set(ctx, "a", []byte("1"), 0), context.Canceled)
	_, err := cache.Get(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, cache.Delete(ctx, "a"), context.Canceled)
	assert.ErrorIs(t, cache.Clear(ctx), context.Canceled)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%5))
			_ = cache.Set(ctx, key, []byte{byte(i)}, 0)
			_, _ = cache.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, cache.Len())
}
