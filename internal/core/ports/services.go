package ports

import (
	"context"

	"github.com/waypost-app/waypost/internal/core/domain"
)

// Place is a named point returned by the live places provider. Category is
// whatever freeform text the provider attaches; relevance filtering happens
// in the stop source.
type Place struct {
	Name     string          `json:"name"`
	Location domain.GeoPoint `json:"location"`
	Category string          `json:"category,omitempty"`
}

// PlacesSearcher is the live third-party POI lookup: a forward search near
// a point within a small bounding box. One call per sample point.
type PlacesSearcher interface {
	Search(ctx context.Context, query string, center domain.GeoPoint, radiusMeters float64, limit int) ([]Place, error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishPlanCompleted(ctx context.Context, ev *domain.PlanEvent) error
	PublishCampsiteAdded(ctx context.Context, c *domain.Campsite) error
}
