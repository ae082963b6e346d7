package source

import (
	"context"

	"github.com/fieldside/playvault/core"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachingAdapter wraps an Adapter with an LRU fetch cache. Refresh passes
// visit the same items repeatedly within a run; the cache keeps those
// lookups from re-invoking the source command.
type CachingAdapter struct {
	inner Adapter
	cache *lru.Cache[string, *Item]
}

var _ Adapter = (*CachingAdapter)(nil)
var _ ProcessedMarker = (*CachingAdapter)(nil)

// NewCachingAdapter wraps inner with a fetch cache holding up to size items.
func NewCachingAdapter(inner Adapter, size int) (*CachingAdapter, error) {
	cache, err := lru.New[string, *Item](size)
	if err != nil {
		return nil, err
	}
	return &CachingAdapter{
		inner: inner,
		cache: cache,
	}, nil
}

// Family delegates to the inner adapter.
func (c *CachingAdapter) Family() core.SourceFamily {
	return c.inner.Family()
}

// Search delegates to the inner adapter and primes the fetch cache with any
// results that already carry a body or structured media refs.
func (c *CachingAdapter) Search(ctx context.Context, query string, limit int) ([]*Item, error) {
	items, err := c.inner.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Body != "" || len(item.MediaRefs) > 0 {
			c.cache.Add(item.ID, item)
		}
	}
	return items, nil
}

// Fetch returns the cached item when present, otherwise fetches through the
// inner adapter and caches the result.
func (c *CachingAdapter) Fetch(ctx context.Context, id string) (*Item, error) {
	if item, ok := c.cache.Get(id); ok {
		return item, nil
	}
	item, err := c.inner.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, item)
	return item, nil
}

// MarkProcessed forwards to the inner adapter when it supports marking,
// and is a no-op otherwise, so wrapping never removes the capability.
func (c *CachingAdapter) MarkProcessed(ctx context.Context, id string) error {
	if marker, ok := c.inner.(ProcessedMarker); ok {
		return marker.MarkProcessed(ctx, id)
	}
	return nil
}
