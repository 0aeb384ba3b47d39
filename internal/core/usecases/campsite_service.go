package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/waypost-app/waypost/internal/core/domain"
	"github.com/waypost-app/waypost/internal/core/ports"
	"github.com/waypost-app/waypost/internal/pkg/geospatial"
)

// CampsiteService handles the user-entered campsite inventory: the write
// path that feeds the persisted stop source.
type CampsiteService struct {
	campsites ports.CampsiteRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
}

// NewCampsiteService creates a new CampsiteService. cache and publisher may
// be nil.
func NewCampsiteService(campsites ports.CampsiteRepository, cache ports.CacheService, publisher ports.EventPublisher) *CampsiteService {
	return &CampsiteService{campsites: campsites, cache: cache, publisher: publisher}
}

// Add validates and stores a campsite, announcing it to event subscribers.
func (s *CampsiteService) Add(ctx context.Context, c *domain.Campsite) error {
	if c.Name == "" {
		return fmt.Errorf("campsite name is required")
	}
	if c.Location.Lat < -90 || c.Location.Lat > 90 || c.Location.Lon < -180 || c.Location.Lon > 180 {
		return fmt.Errorf("campsite coordinates out of range: %.5f, %.5f", c.Location.Lat, c.Location.Lon)
	}

	if err := s.campsites.Upsert(ctx, c); err != nil {
		return fmt.Errorf("upsert campsite: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.PublishCampsiteAdded(ctx, c)
	}
	return nil
}

// GetByID returns a single campsite.
func (s *CampsiteService) GetByID(ctx context.Context, id string) (*domain.Campsite, error) {
	cacheKey := "campsites:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var c domain.Campsite
			if err := json.Unmarshal(data, &c); err == nil {
				return &c, nil
			}
		}
	}

	c, err := s.campsites.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(c); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}
	return c, nil
}

// FindNearby returns campsites within radiusMeters of a point, closest
// first. The store is range-queried with a bounding box and the exact
// distance filter runs here.
func (s *CampsiteService) FindNearby(ctx context.Context, center domain.GeoPoint, radiusMeters float64, limit int) ([]domain.Campsite, error) {
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("radius must be positive")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	bounds := geospatial.RouteBounds([]domain.GeoPoint{center}, radiusMeters/domain.MetersPerMile)
	records, err := s.campsites.FindInBounds(ctx, bounds)
	if err != nil {
		return nil, err
	}

	type scored struct {
		c domain.Campsite
		d float64
	}
	var kept []scored
	for _, c := range records {
		d := geospatial.Haversine(center.Lat, center.Lon, c.Location.Lat, c.Location.Lon)
		if d <= radiusMeters {
			kept = append(kept, scored{c, d})
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].d < kept[j].d })

	if len(kept) > limit {
		kept = kept[:limit]
	}
	out := make([]domain.Campsite, len(kept))
	for i, k := range kept {
		out[i] = k.c
	}
	return out, nil
}

// ListRecent returns a page of campsites, newest first, with the total count.
func (s *CampsiteService) ListRecent(ctx context.Context, limit, offset int) ([]domain.Campsite, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.campsites.ListRecent(ctx, limit, offset)
}
