package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/waypost-app/waypost/internal/core/domain"
	"github.com/waypost-app/waypost/internal/core/ports"
	"github.com/waypost-app/waypost/internal/pkg/metrics"
)

// SourceAggregator orchestrates the stop sources. Fetches run concurrently
// because the sources are logically independent, but the merge order is
// fixed: persisted campsites first, then live-provider campsites reconciled
// against everything already collected, then synthetic amenities appended
// unfiltered (synthetic data never collides with real sources by
// construction).
type SourceAggregator struct {
	// campsiteSources is ordered; the persisted store must come before
	// the live provider so user-entered stops win the dedup.
	campsiteSources []ports.StopSource
	amenities       ports.StopSource
	sourceTimeout   time.Duration
}

// NewSourceAggregator creates an aggregator over the given sources.
func NewSourceAggregator(campsiteSources []ports.StopSource, amenities ports.StopSource, sourceTimeout time.Duration) *SourceAggregator {
	if sourceTimeout <= 0 {
		sourceTimeout = 10 * time.Second
	}
	return &SourceAggregator{
		campsiteSources: campsiteSources,
		amenities:       amenities,
		sourceTimeout:   sourceTimeout,
	}
}

type fetchResult struct {
	prov  domain.Provenance
	stops []domain.Stop
	err   error
}

// Aggregate merges candidates from every applicable source. It never fails:
// each source failure degrades to fewer results and is reported in the
// returned failure list.
func (a *SourceAggregator) Aggregate(ctx context.Context, route *domain.Route, cfg domain.SearchConfig) ([]domain.Stop, []domain.SourceFailure) {
	wantCampsites := cfg.CategoryEnabled(domain.StopCampsite)
	wantAmenities := a.amenities != nil && len(cfg.AmenityCategories()) > 0

	var wg sync.WaitGroup
	campsiteResults := make([]fetchResult, len(a.campsiteSources))
	var amenityResult fetchResult

	if wantCampsites {
		for i, src := range a.campsiteSources {
			wg.Add(1)
			go func(i int, src ports.StopSource) {
				defer wg.Done()
				campsiteResults[i] = a.fetch(ctx, src, route, cfg)
			}(i, src)
		}
	}
	if wantAmenities {
		wg.Add(1)
		go func() {
			defer wg.Done()
			amenityResult = a.fetch(ctx, a.amenities, route, cfg)
		}()
	}
	wg.Wait()

	var out []domain.Stop
	var failures []domain.SourceFailure

	if wantCampsites {
		for _, r := range campsiteResults {
			if r.err != nil {
				failures = append(failures, domain.SourceFailure{Source: r.prov, Err: r.err})
				continue
			}
			out = append(out, r.stops...)
		}
		before := len(out)
		out = Dedupe(out)
		metrics.DedupDropped.Add(float64(before - len(out)))
	}

	if wantAmenities {
		if amenityResult.err != nil {
			failures = append(failures, domain.SourceFailure{Source: amenityResult.prov, Err: amenityResult.err})
		} else {
			out = append(out, amenityResult.stops...)
		}
	}

	return out, failures
}

// fetch runs one source under its own timeout so a stalled provider cannot
// hold up the rest of the plan.
func (a *SourceAggregator) fetch(ctx context.Context, src ports.StopSource, route *domain.Route, cfg domain.SearchConfig) fetchResult {
	ctx, cancel := context.WithTimeout(ctx, a.sourceTimeout)
	defer cancel()

	prov := src.Provenance()
	start := time.Now()
	stops, err := src.FetchCandidates(ctx, route, cfg)
	metrics.SourceFetchDuration.WithLabelValues(string(prov)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SourceFetchErrors.WithLabelValues(string(prov)).Inc()
	}
	return fetchResult{prov: prov, stops: stops, err: err}
}
