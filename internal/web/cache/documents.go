package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RenderFunc produces the encoded body of a document
type RenderFunc func() ([]byte, error)

// DocumentCache fronts a Cache with a render-on-miss lookup. Backend failures
// are logged and treated as misses so a broken cache never fails a request.
type DocumentCache struct {
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewDocumentCache creates a document cache storing entries for ttl
func NewDocumentCache(cache Cache, ttl time.Duration, logger *zap.Logger) *DocumentCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentCache{cache: cache, ttl: ttl, logger: logger}
}

// Fetch returns the body stored under key, rendering and storing it on a miss.
// The boolean reports a cache hit. Render errors are returned unchanged and
// nothing is stored for them.
func (d *DocumentCache) Fetch(ctx context.Context, key string, render RenderFunc) ([]byte, bool, error) {
	body, err := d.cache.Get(ctx, key)
	if err == nil {
		return body, true, nil
	}
	if !IsCacheMiss(err) {
		d.logger.Warn("document cache lookup failed", zap.String("key", key), zap.Error(err))
	}

	body, err = render()
	if err != nil {
		return nil, false, err
	}

	if err := d.cache.Set(ctx, key, body, d.ttl); err != nil {
		d.logger.Warn("document cache store failed", zap.String("key", key), zap.Error(err))
	}

	return body, false, nil
}

// Invalidate drops every cached document
func (d *DocumentCache) Invalidate(ctx context.Context) error {
	return d.cache.Clear(ctx)
}
