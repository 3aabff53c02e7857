package insight

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedProvider memoizes successful insight responses per (title, summary)
// pair. Reprocessing an unchanged upload then reuses the same bullets instead
// of paying for another round of model calls. Errors are never cached.
type CachedProvider struct {
	inner Provider
	cache *lru.Cache[string, []string]
}

// NewCachedProvider wraps inner with an LRU cache of the given size.
func NewCachedProvider(inner Provider, size int) (*CachedProvider, error) {
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New[string, []string](size)
	if err != nil {
		return nil, err
	}
	return &CachedProvider{inner: inner, cache: cache}, nil
}

func (c *CachedProvider) GenerateInsights(ctx context.Context, title, summary string) ([]string, error) {
	key := title + "\x00" + summary
	if cached, ok := c.cache.Get(key); ok {
		return append([]string(nil), cached...), nil
	}

	bullets, err := c.inner.GenerateInsights(ctx, title, summary)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, append([]string(nil), bullets...))
	return bullets, nil
}
