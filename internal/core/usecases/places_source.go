package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/waypost-app/waypost/internal/core/domain"
	"github.com/waypost-app/waypost/internal/core/ports"
	"github.com/waypost-app/waypost/internal/pkg/geospatial"
)

// categoryKeywords maps each stop type to the provider text fragments that
// mark a result as relevant to it.
var categoryKeywords = map[domain.StopType][]string{
	domain.StopCampsite: {"campground", "camping", "rv park", "camp"},
	domain.StopGas:      {"gas", "fuel", "petrol", "truck stop"},
	domain.StopWater:    {"water", "spring", "spigot"},
	domain.StopDump:     {"dump station", "sanitary", "sani"},
	domain.StopWalmart:  {"walmart", "supercenter"},
	domain.StopPropane:  {"propane", "lpg"},
	domain.StopRepair:   {"repair", "mechanic", "tire", "garage"},
}

// LivePlacesStopSource queries the third-party places provider at evenly
// spaced sample points along the route. Lookups run under a bounded worker
// pool; individual sample failures are skipped so partial results still
// come back. Output order is deterministic for a fixed set of successful
// samples (sample order, then provider emission order).
type LivePlacesStopSource struct {
	places      ports.PlacesSearcher
	concurrency int
	perSample   int // result limit per provider lookup
}

// NewLivePlacesStopSource creates a new LivePlacesStopSource.
func NewLivePlacesStopSource(places ports.PlacesSearcher, concurrency int) *LivePlacesStopSource {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &LivePlacesStopSource{places: places, concurrency: concurrency, perSample: 10}
}

func (s *LivePlacesStopSource) Provenance() domain.Provenance { return domain.ProvenanceLive }

// FetchCandidates samples the route and asks the provider for named points
// near each sample, keeping only results relevant to the enabled categories
// and within the buffer distance. An error is returned only when every
// single lookup failed; anything less degrades to partial results.
func (s *LivePlacesStopSource) FetchCandidates(ctx context.Context, route *domain.Route, cfg domain.SearchConfig) ([]domain.Stop, error) {
	idxs := sampleIndices(len(route.Line), cfg.MaxPOISamples)
	radius := cfg.BufferMeters()
	query := searchQuery(cfg)

	results := make([][]ports.Place, len(idxs))
	errs := make([]error, len(idxs))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for i, idx := range idxs {
		wg.Add(1)
		go func(i, idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			places, err := s.places.Search(ctx, query, route.Line[idx], radius, s.perSample)
			if err != nil {
				errs[i] = err
				slog.Warn("places lookup failed, skipping sample",
					"sample", i, "vertex", idx, "error", err)
				return
			}
			results[i] = places
		}(i, idx)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == len(idxs) && failed > 0 {
		return nil, fmt.Errorf("all %d place lookups failed: %w", failed, firstErr(errs))
	}

	// Exact-coordinate dedup within this source: adjacent sample boxes
	// overlap and return the same places.
	seen := make(map[domain.GeoPoint]struct{})
	var stops []domain.Stop
	for _, places := range results {
		for _, p := range places {
			if _, dup := seen[p.Location]; dup {
				continue
			}
			t, relevant := classifyPlace(p, cfg)
			if !relevant {
				continue
			}
			d, _ := geospatial.NearestVertex(p.Location, route.Line)
			if d > radius {
				continue
			}
			seen[p.Location] = struct{}{}

			stop := domain.Stop{
				ID:                      fmt.Sprintf("live:%.5f,%.5f", p.Location.Lat, p.Location.Lon),
				Name:                    p.Name,
				Type:                    t,
				Location:                p.Location,
				DistanceFromRouteMeters: d,
				Provenance:              domain.ProvenanceLive,
			}
			if p.Category != "" {
				stop.Details = &domain.StopDetails{Description: p.Category}
			}
			stops = append(stops, stop)
		}
	}
	return stops, nil
}

// sampleIndices picks vertex indices evenly spaced along a polyline:
// floor((len-1) * i / (samples-1)) for each i. Repeated indices from short
// polylines are collapsed.
func sampleIndices(lineLen, samples int) []int {
	if samples < 2 {
		samples = 2
	}
	if samples > lineLen {
		samples = lineLen
	}
	idxs := make([]int, 0, samples)
	last := -1
	for i := 0; i < samples; i++ {
		idx := (lineLen - 1) * i / (samples - 1)
		if idx != last {
			idxs = append(idxs, idx)
			last = idx
		}
	}
	return idxs
}

// searchQuery picks the provider query term from the enabled categories.
// Campsites win when requested; the provider lookup is primarily a campsite
// discovery path.
func searchQuery(cfg domain.SearchConfig) string {
	if cfg.CategoryEnabled(domain.StopCampsite) {
		return "campground"
	}
	for _, t := range cfg.AmenityCategories() {
		return categoryKeywords[t][0]
	}
	return "campground"
}

// classifyPlace matches a provider result's name and category text against
// the enabled categories, returning the matched stop type.
func classifyPlace(p ports.Place, cfg domain.SearchConfig) (domain.StopType, bool) {
	text := strings.ToLower(p.Name + " " + p.Category)

	if cfg.CategoryEnabled(domain.StopCampsite) {
		for _, kw := range categoryKeywords[domain.StopCampsite] {
			if strings.Contains(text, kw) {
				return domain.StopCampsite, true
			}
		}
	}
	for _, t := range cfg.AmenityCategories() {
		for _, kw := range categoryKeywords[t] {
			if strings.Contains(text, kw) {
				return t, true
			}
		}
	}
	return "", false
}

func firstErr(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
