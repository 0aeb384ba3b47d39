package ports

import (
	"context"

	"github.com/waypost-app/waypost/internal/core/domain"
)

// CampsiteRepository persists user-entered campsites. The store is queried
// strictly by coordinate range; everything geometric happens above it.
type CampsiteRepository interface {
	Upsert(ctx context.Context, c *domain.Campsite) error
	UpsertBatch(ctx context.Context, cs []domain.Campsite) error
	GetByID(ctx context.Context, id string) (*domain.Campsite, error)
	FindInBounds(ctx context.Context, b domain.Bounds) ([]domain.Campsite, error)
	ListRecent(ctx context.Context, limit, offset int) ([]domain.Campsite, int, error)
}
