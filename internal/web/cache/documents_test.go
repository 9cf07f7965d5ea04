package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDocumentCache_Fetch(t *testing.T) {
	backend := NewMemoryCache()
	defer backend.Close()

	docs := NewDocumentCache(backend, time.Minute, nil)
	ctx := context.Background()

	renders := 0
	render := func() ([]byte, error) {
		renders++
		return []byte(`{"data":[]}`), nil
	}

	body, hit, err := docs.Fetch(ctx, "doc:1", render)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, `{"data":[]}`, string(body))

	body, hit, err = docs.Fetch(ctx, "doc:1", render)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, `{"data":[]}`, string(body))
	assert.Equal(t, 1, renders)

	require.NoError(t, docs.Invalidate(ctx))
	_, hit, err = docs.Fetch(ctx, "doc:1", render)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, renders)
}

func TestDocumentCache_RenderError(t *testing.T) {
	backend := NewMemoryCache()
	defer backend.Close()

	docs := NewDocumentCache(backend, time.Minute, nil)
	renderErr := errors.New("build failed")

	_, _, err := docs.Fetch(context.Background(), "doc:1", func() ([]byte, error) {
		return nil, renderErr
	})
	assert.ErrorIs(t, err, renderErr)
	assert.Equal(t, 0, backend.Len(), "failed renders are not stored")
}

func TestDocumentCache_BackendFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	backend := NewRedisCacheWithClient(client, DefaultCacheConfig())
	defer backend.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	docs := NewDocumentCache(backend, time.Minute, zap.New(core))

	mr.SetError("ERR server unavailable")

	body, hit, err := docs.Fetch(context.Background(), "doc:1", func() ([]byte, error) {
		return []byte("fresh"), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "fresh", string(body))

	assert.Equal(t, 1, logs.FilterMessage("document cache lookup failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("document cache store failed").Len())
}
