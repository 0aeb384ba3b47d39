package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/waypost-app/waypost/internal/core/domain"
	"github.com/waypost-app/waypost/internal/core/ports"
	"github.com/waypost-app/waypost/internal/pkg/geospatial"
)

// DatabaseStopSource yields persisted campsites near a route. The store is
// queried with a padded bounding box as a coarse pre-filter; the exact
// nearest-vertex distance check rejects the box's false positives.
type DatabaseStopSource struct {
	campsites ports.CampsiteRepository
	cache     ports.CacheService
}

// NewDatabaseStopSource creates a new DatabaseStopSource. cache may be nil.
func NewDatabaseStopSource(campsites ports.CampsiteRepository, cache ports.CacheService) *DatabaseStopSource {
	return &DatabaseStopSource{campsites: campsites, cache: cache}
}

func (s *DatabaseStopSource) Provenance() domain.Provenance { return domain.ProvenancePersisted }

// FetchCandidates returns persisted campsites within the buffer distance of
// the route. A store failure is returned as an error for the aggregator to
// degrade on; it never aborts planning.
func (s *DatabaseStopSource) FetchCandidates(ctx context.Context, route *domain.Route, cfg domain.SearchConfig) ([]domain.Stop, error) {
	bounds := geospatial.RouteBounds(route.Line, cfg.BufferMiles)

	records, err := s.recordsInBounds(ctx, bounds)
	if err != nil {
		return nil, fmt.Errorf("campsite store: %w", err)
	}

	maxDist := cfg.BufferMeters()
	var stops []domain.Stop
	for i := range records {
		d, _ := geospatial.NearestVertex(records[i].Location, route.Line)
		if d > maxDist {
			continue
		}
		stop := records[i].ToStop()
		stop.DistanceFromRouteMeters = d
		stops = append(stops, stop)
	}
	return stops, nil
}

// recordsInBounds is a cache-aside wrapper around the bounding-box query.
// Campsite data changes slowly, so a short TTL keeps repeat planning on the
// same corridor off the database.
func (s *DatabaseStopSource) recordsInBounds(ctx context.Context, b domain.Bounds) ([]domain.Campsite, error) {
	cacheKey := fmt.Sprintf("campsites:bounds:%.4f:%.4f:%.4f:%.4f", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var records []domain.Campsite
			if err := json.Unmarshal(data, &records); err == nil {
				return records, nil
			}
		}
	}

	records, err := s.campsites.FindInBounds(ctx, b)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(records); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}
	return records, nil
}
