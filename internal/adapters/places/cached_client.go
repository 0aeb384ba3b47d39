package places

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/waypost-app/waypost/internal/core/domain"
	"github.com/waypost-app/waypost/internal/core/ports"
	"github.com/waypost-app/waypost/internal/pkg/metrics"
)

// CachedClient decorates a PlacesSearcher with a shared cache. Sample
// points along popular corridors repeat across planning requests, so even a
// short TTL takes real load off the provider.
type CachedClient struct {
	inner ports.PlacesSearcher
	cache ports.CacheService
	ttl   int // seconds
}

// NewCachedClient creates a cache decorator around a places searcher.
func NewCachedClient(inner ports.PlacesSearcher, cache ports.CacheService) *CachedClient {
	return &CachedClient{inner: inner, cache: cache, ttl: 900}
}

func (c *CachedClient) Search(ctx context.Context, query string, center domain.GeoPoint, radiusMeters float64, limit int) ([]ports.Place, error) {
	// Sample points are rounded to ~100 m so nearby lookups share entries.
	key := fmt.Sprintf("places:%s:%.3f:%.3f:%.0f:%d", query, center.Lat, center.Lon, radiusMeters, limit)

	if data, err := c.cache.Get(ctx, key); err == nil {
		var cached []ports.Place
		if err := json.Unmarshal(data, &cached); err == nil {
			metrics.CacheHits.WithLabelValues("places").Inc()
			return cached, nil
		}
	}
	metrics.CacheMisses.WithLabelValues("places").Inc()

	result, err := c.inner.Search(ctx, query, center, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	// Only cache non-empty results so transient provider hiccups can be
	// retried on the next plan.
	if len(result) > 0 {
		if data, err := json.Marshal(result); err == nil {
			_ = c.cache.Set(ctx, key, data, c.ttl)
		}
	}
	return result, nil
}
