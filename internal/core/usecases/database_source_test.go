package usecases_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/waypost-app/waypost/internal/core/domain"
	"github.com/waypost-app/waypost/internal/core/usecases"
)

// --- Mock CampsiteRepository ---

type mockCampsiteRepo struct {
	upsertFn       func(ctx context.Context, c *domain.Campsite) error
	getByIDFn      func(ctx context.Context, id string) (*domain.Campsite, error)
	findInBoundsFn func(ctx context.Context, b domain.Bounds) ([]domain.Campsite, error)
	listRecentFn   func(ctx context.Context, limit, offset int) ([]domain.Campsite, int, error)
}

func (m *mockCampsiteRepo) Upsert(ctx context.Context, c *domain.Campsite) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, c)
	}
	return nil
}

func (m *mockCampsiteRepo) UpsertBatch(ctx context.Context, cs []domain.Campsite) error { return nil }

func (m *mockCampsiteRepo) GetByID(ctx context.Context, id string) (*domain.Campsite, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockCampsiteRepo) FindInBounds(ctx context.Context, b domain.Bounds) ([]domain.Campsite, error) {
	if m.findInBoundsFn != nil {
		return m.findInBoundsFn(ctx, b)
	}
	return nil, nil
}

func (m *mockCampsiteRepo) ListRecent(ctx context.Context, limit, offset int) ([]domain.Campsite, int, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, limit, offset)
	}
	return nil, 0, nil
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

var dbRoute = &domain.Route{Line: []domain.GeoPoint{
	{Lat: 44.0, Lon: -110.0},
	{Lat: 44.2, Lon: -110.2},
	{Lat: 44.4, Lon: -110.4},
}}

func TestDatabaseSource_FiltersByBufferDistance(t *testing.T) {
	repo := &mockCampsiteRepo{
		findInBoundsFn: func(ctx context.Context, b domain.Bounds) ([]domain.Campsite, error) {
			return []domain.Campsite{
				{ID: "near", Name: "Riverside Camp", Location: domain.GeoPoint{Lat: 44.21, Lon: -110.21}},
				{ID: "far", Name: "Distant Camp", Location: domain.GeoPoint{Lat: 45.5, Lon: -110.2}},
			}, nil
		},
	}
	src := usecases.NewDatabaseStopSource(repo, nil)

	cfg := domain.SearchConfig{BufferMiles: 20, Categories: []domain.StopType{domain.StopCampsite}}
	stops, err := src.FetchCandidates(context.Background(), dbRoute, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stops) != 1 {
		t.Fatalf("expected 1 stop within buffer, got %d", len(stops))
	}
	s := stops[0]
	if s.ID != "db:near" {
		t.Errorf("expected db:near, got %s", s.ID)
	}
	if s.Provenance != domain.ProvenancePersisted {
		t.Errorf("expected persisted provenance, got %s", s.Provenance)
	}
	if s.DistanceFromRouteMeters <= 0 || s.DistanceFromRouteMeters > cfg.BufferMeters() {
		t.Errorf("distance annotation out of range: %f", s.DistanceFromRouteMeters)
	}
}

func TestDatabaseSource_CampsiteOnRouteHasZeroDistance(t *testing.T) {
	// San Francisco to Los Angeles with a midpoint vertex; a record exactly
	// on that vertex must come back at distance zero.
	route := &domain.Route{Line: []domain.GeoPoint{
		{Lat: 37.7749, Lon: -122.4194},
		{Lat: 35.9136, Lon: -120.3316},
		{Lat: 34.0522, Lon: -118.2437},
	}}
	repo := &mockCampsiteRepo{
		findInBoundsFn: func(ctx context.Context, b domain.Bounds) ([]domain.Campsite, error) {
			return []domain.Campsite{
				{ID: "mid", Name: "Halfway Camp", Location: route.Line[1]},
			}, nil
		},
	}
	src := usecases.NewDatabaseStopSource(repo, nil)

	cfg := domain.SearchConfig{BufferMiles: 20, Categories: []domain.StopType{domain.StopCampsite}}
	stops, err := src.FetchCandidates(context.Background(), route, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stops) != 1 {
		t.Fatalf("expected the on-route campsite, got %d stops", len(stops))
	}
	if stops[0].DistanceFromRouteMeters != 0 {
		t.Errorf("expected zero distance for an on-vertex campsite, got %f", stops[0].DistanceFromRouteMeters)
	}
}

func TestDatabaseSource_StoreErrorWrapped(t *testing.T) {
	repo := &mockCampsiteRepo{
		findInBoundsFn: func(ctx context.Context, b domain.Bounds) ([]domain.Campsite, error) {
			return nil, errors.New("connection refused")
		},
	}
	src := usecases.NewDatabaseStopSource(repo, nil)

	cfg := domain.SearchConfig{BufferMiles: 20, Categories: []domain.StopType{domain.StopCampsite}}
	_, err := src.FetchCandidates(context.Background(), dbRoute, cfg)
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	if !strings.Contains(err.Error(), "campsite store") {
		t.Errorf("error should identify the store: %v", err)
	}
}

func TestDatabaseSource_CacheAside(t *testing.T) {
	calls := 0
	repo := &mockCampsiteRepo{
		findInBoundsFn: func(ctx context.Context, b domain.Bounds) ([]domain.Campsite, error) {
			calls++
			return []domain.Campsite{
				{ID: "c1", Name: "Riverside Camp", Location: domain.GeoPoint{Lat: 44.21, Lon: -110.21}},
			}, nil
		},
	}
	cache := newMockCache()
	src := usecases.NewDatabaseStopSource(repo, cache)
	cfg := domain.SearchConfig{BufferMiles: 20, Categories: []domain.StopType{domain.StopCampsite}}

	for i := 0; i < 2; i++ {
		stops, err := src.FetchCandidates(context.Background(), dbRoute, cfg)
		if err != nil {
			t.Fatalf("pass %d: unexpected error: %v", i, err)
		}
		if len(stops) != 1 {
			t.Fatalf("pass %d: expected 1 stop, got %d", i, len(stops))
		}
	}

	if calls != 1 {
		t.Errorf("expected a single store query with a warm cache, got %d", calls)
	}
	if cache.sets != 1 {
		t.Errorf("expected one cache fill, got %d", cache.sets)
	}
}
