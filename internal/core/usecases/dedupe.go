package usecases

import (
	"fmt"

	"github.com/waypost-app/waypost/internal/core/domain"
)

// coordKey rounds a coordinate to 5 decimal places (~1 m) for identity
// comparison across sources.
func coordKey(p domain.GeoPoint) string {
	return fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lon)
}

// Dedupe removes provider-origin stops whose coordinates coincide, at
// 5-decimal precision, with an already-accepted stop. Persisted stops are
// authoritative: they are never dropped, even when a provider stop shares
// their location — the provider duplicate goes instead. Two persisted stops
// at the same coordinates both survive; user-entered data is never pruned
// silently.
//
// Output preserves input order and the function is idempotent.
func Dedupe(stops []domain.Stop) []domain.Stop {
	persisted := make(map[string]struct{})
	for _, s := range stops {
		if s.Provenance == domain.ProvenancePersisted {
			persisted[coordKey(s.Location)] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	out := make([]domain.Stop, 0, len(stops))
	for _, s := range stops {
		if s.Provenance == domain.ProvenancePersisted {
			out = append(out, s)
			continue
		}
		key := coordKey(s.Location)
		if _, dup := persisted[key]; dup {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
