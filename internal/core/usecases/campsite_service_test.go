package usecases_test

import (
	"context"
	"testing"

	"github.com/waypost-app/waypost/internal/core/domain"
	"github.com/waypost-app/waypost/internal/core/usecases"
)

func TestCampsiteService_Add_Validation(t *testing.T) {
	svc := usecases.NewCampsiteService(&mockCampsiteRepo{}, nil, nil)

	err := svc.Add(context.Background(), &domain.Campsite{Location: domain.GeoPoint{Lat: 44, Lon: -110}})
	if err == nil {
		t.Error("expected error for missing name")
	}

	err = svc.Add(context.Background(), &domain.Campsite{Name: "Bad Coords", Location: domain.GeoPoint{Lat: 91, Lon: -110}})
	if err == nil {
		t.Error("expected error for out-of-range latitude")
	}

	err = svc.Add(context.Background(), &domain.Campsite{Name: "Bad Coords", Location: domain.GeoPoint{Lat: 44, Lon: -181}})
	if err == nil {
		t.Error("expected error for out-of-range longitude")
	}
}

func TestCampsiteService_Add_StoresAndPublishes(t *testing.T) {
	var stored *domain.Campsite
	repo := &mockCampsiteRepo{
		upsertFn: func(ctx context.Context, c *domain.Campsite) error {
			stored = c
			return nil
		},
	}
	var published *domain.Campsite
	pub := &mockPublisher{campsiteFn: func(ctx context.Context, c *domain.Campsite) error {
		published = c
		return nil
	}}

	svc := usecases.NewCampsiteService(repo, nil, pub)
	site := &domain.Campsite{Name: "Aspen Hollow", Location: domain.GeoPoint{Lat: 44.1, Lon: -110.1}}
	if err := svc.Add(context.Background(), site); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != site {
		t.Error("campsite was not stored")
	}
	if published != site {
		t.Error("campsite added event was not published")
	}
}

func TestCampsiteService_GetByID_CachesResult(t *testing.T) {
	calls := 0
	repo := &mockCampsiteRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Campsite, error) {
			calls++
			return &domain.Campsite{ID: id, Name: "Juniper Flats"}, nil
		},
	}
	cache := newMockCache()
	svc := usecases.NewCampsiteService(repo, cache, nil)

	for i := 0; i < 2; i++ {
		c, err := svc.GetByID(context.Background(), "abc")
		if err != nil {
			t.Fatalf("pass %d: unexpected error: %v", i, err)
		}
		if c.Name != "Juniper Flats" {
			t.Fatalf("pass %d: wrong campsite: %+v", i, c)
		}
	}
	if calls != 1 {
		t.Errorf("expected one store read with a warm cache, got %d", calls)
	}
}

func TestCampsiteService_FindNearby_FiltersAndSorts(t *testing.T) {
	center := domain.GeoPoint{Lat: 44.0, Lon: -110.0}
	repo := &mockCampsiteRepo{
		findInBoundsFn: func(ctx context.Context, b domain.Bounds) ([]domain.Campsite, error) {
			return []domain.Campsite{
				{ID: "far", Location: domain.GeoPoint{Lat: 44.05, Lon: -110.0}},
				{ID: "near", Location: domain.GeoPoint{Lat: 44.01, Lon: -110.0}},
				{ID: "outside", Location: domain.GeoPoint{Lat: 45.0, Lon: -110.0}},
			}, nil
		},
	}
	svc := usecases.NewCampsiteService(repo, nil, nil)

	sites, err := svc.FindNearby(context.Background(), center, 10000, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sites) != 2 {
		t.Fatalf("expected 2 sites within radius, got %d", len(sites))
	}
	if sites[0].ID != "near" || sites[1].ID != "far" {
		t.Errorf("expected closest-first ordering, got %s then %s", sites[0].ID, sites[1].ID)
	}
}

func TestCampsiteService_FindNearby_InvalidRadius(t *testing.T) {
	svc := usecases.NewCampsiteService(&mockCampsiteRepo{}, nil, nil)
	if _, err := svc.FindNearby(context.Background(), domain.GeoPoint{Lat: 44, Lon: -110}, 0, 10); err == nil {
		t.Error("expected error for non-positive radius")
	}
}

func TestCampsiteService_ListRecent_ClampsLimit(t *testing.T) {
	var gotLimit, gotOffset int
	repo := &mockCampsiteRepo{
		listRecentFn: func(ctx context.Context, limit, offset int) ([]domain.Campsite, int, error) {
			gotLimit, gotOffset = limit, offset
			return nil, 0, nil
		},
	}
	svc := usecases.NewCampsiteService(repo, nil, nil)

	_, _, err := svc.ListRecent(context.Background(), 9999, -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 50 {
		t.Errorf("expected limit clamped to 50, got %d", gotLimit)
	}
	if gotOffset != 0 {
		t.Errorf("expected offset clamped to 0, got %d", gotOffset)
	}
}
