package ports

import (
	"context"

	"github.com/waypost-app/waypost/internal/core/domain"
)

// StopSource asynchronously yields candidate stops near a route. Each
// implementation is independently fallible: an error means the source is
// unavailable, and the aggregator degrades instead of aborting. A source
// never returns candidates outside the configured buffer distance.
type StopSource interface {
	// Provenance identifies the source's output tagging.
	Provenance() domain.Provenance

	// FetchCandidates returns candidate stops for the route. Partial
	// results with a nil error are valid.
	FetchCandidates(ctx context.Context, route *domain.Route, cfg domain.SearchConfig) ([]domain.Stop, error)
}
