package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/waypost-app/waypost/internal/core/domain"
	"github.com/waypost-app/waypost/internal/core/ports"
	"github.com/waypost-app/waypost/internal/pkg/geospatial"
	"github.com/waypost-app/waypost/internal/pkg/metrics"
)

// DefaultAvgSpeedMPH is the assumed average travel speed used for ETA
// annotation when no override is configured.
const DefaultAvgSpeedMPH = 55.0

// PlanResult is a completed plan plus per-source failure metadata, so
// callers who care can distinguish "no nearby stops" from "a source was
// unavailable".
type PlanResult struct {
	Stops    []domain.Stop          `json:"stops"`
	Failures []domain.SourceFailure `json:"degraded_sources,omitempty"`
}

// PlannerService is the stop-matching engine's public entry point. It holds
// no per-request state; concurrent plans need no coordination.
type PlannerService struct {
	agg         *SourceAggregator
	publisher   ports.EventPublisher
	avgSpeedMPH float64
}

// NewPlannerService creates a new PlannerService. publisher may be nil.
func NewPlannerService(agg *SourceAggregator, publisher ports.EventPublisher, avgSpeedMPH float64) *PlannerService {
	if avgSpeedMPH <= 0 {
		avgSpeedMPH = DefaultAvgSpeedMPH
	}
	return &PlannerService{agg: agg, publisher: publisher, avgSpeedMPH: avgSpeedMPH}
}

// PlanStops returns annotated candidate stops for the route, in source
// emission order. Degraded sources are silently tolerated; use
// PlanStopsDetailed to inspect them.
func (s *PlannerService) PlanStops(ctx context.Context, route *domain.Route, cfg domain.SearchConfig) ([]domain.Stop, error) {
	res, err := s.PlanStopsDetailed(ctx, route, cfg)
	if err != nil {
		return nil, err
	}
	return res.Stops, nil
}

// PlanStopsDetailed plans stops and reports which sources failed. The only
// fatal condition is an invalid route polyline.
func (s *PlannerService) PlanStopsDetailed(ctx context.Context, route *domain.Route, cfg domain.SearchConfig) (*PlanResult, error) {
	ctx, span := otel.Tracer("waypost/planner").Start(ctx, "planner.PlanStops")
	defer span.End()

	points := 0
	if route != nil {
		points = len(route.Line)
	}
	if points < 2 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidRoute, points)
	}

	metrics.PlanRequests.Inc()

	// Nothing requested: no source is invoked at all.
	if len(cfg.Categories) == 0 {
		return &PlanResult{Stops: []domain.Stop{}}, nil
	}

	start := time.Now()
	stops, failures := s.agg.Aggregate(ctx, route, cfg)
	s.annotate(route, stops)
	elapsed := time.Since(start)

	metrics.PlanDuration.Observe(elapsed.Seconds())
	byProv := make(map[string]int)
	for _, st := range stops {
		byProv[string(st.Provenance)]++
	}
	for prov, n := range byProv {
		metrics.StopsReturned.WithLabelValues(prov).Add(float64(n))
	}

	degraded := make([]string, 0, len(failures))
	for _, f := range failures {
		degraded = append(degraded, string(f.Source))
	}
	span.SetAttributes(
		attribute.Int("plan.stops", len(stops)),
		attribute.Float64("plan.buffer_miles", cfg.BufferMiles),
		attribute.StringSlice("plan.degraded", degraded),
	)

	if s.publisher != nil {
		_ = s.publisher.PublishPlanCompleted(ctx, &domain.PlanEvent{
			Time:            time.Now(),
			BufferMiles:     cfg.BufferMiles,
			Categories:      cfg.Categories,
			RoutePoints:     points,
			StopCount:       len(stops),
			ByProvenance:    byProv,
			DegradedSources: degraded,
			ElapsedMillis:   elapsed.Milliseconds(),
		})
	}

	slog.Info("stop plan completed",
		"stops", len(stops),
		"degraded", degraded,
		"buffer_miles", cfg.BufferMiles,
		"elapsed", elapsed.String(),
	)

	return &PlanResult{Stops: stops, Failures: failures}, nil
}

// annotate fills in route-progress and ETA fields. The ETA is the nearest
// vertex's fractional index scaled by the total route distance and divided
// by an assumed average speed. An approximation, not a routed travel time.
func (s *PlannerService) annotate(route *domain.Route, stops []domain.Stop) {
	total := route.DistanceMeters
	if total <= 0 {
		total = geospatial.PolylineLength(route.Line)
	}
	speedMS := s.avgSpeedMPH * domain.MetersPerMile / 3600.0
	lastIdx := float64(len(route.Line) - 1)

	for i := range stops {
		_, idx := geospatial.NearestVertex(stops[i].Location, route.Line)
		along := float64(idx) / lastIdx * total
		stops[i].DistanceAlongRouteMeters = along
		stops[i].ETAFromStart = time.Duration(along / speedMS * float64(time.Second))
	}
}

// SortByRouteProgress orders stops by distance along the route, earliest
// first. Stable, so source emission order breaks ties.
func SortByRouteProgress(stops []domain.Stop) {
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].DistanceAlongRouteMeters < stops[j].DistanceAlongRouteMeters
	})
}
