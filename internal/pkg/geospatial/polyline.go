package geospatial

import (
	"math"

	"github.com/waypost-app/waypost/internal/core/domain"
)

// NearestVertex returns the minimum great-circle distance in meters from p
// to any vertex of line, along with the index of that vertex.
//
// This is a vertex-only approximation, not a true segment projection. Route
// polylines from the directions provider are densely sampled, so the error
// is small in practice; the simplification is intentional and relied upon
// elsewhere, so do not "fix" it to project onto segments.
func NearestVertex(p domain.GeoPoint, line []domain.GeoPoint) (float64, int) {
	best := math.Inf(1)
	bestIdx := 0
	for i, v := range line {
		d := Haversine(p.Lat, p.Lon, v.Lat, v.Lon)
		if d < best {
			best = d
			bestIdx = i
		}
	}
	return best, bestIdx
}

// PolylineLength sums the great-circle lengths of all segments in meters.
func PolylineLength(line []domain.GeoPoint) float64 {
	var total float64
	for i := 1; i < len(line); i++ {
		total += Haversine(line[i-1].Lat, line[i-1].Lon, line[i].Lat, line[i].Lon)
	}
	return total
}

// RouteBounds derives a padded bounding box around the polyline for the
// given buffer distance in miles. The box is a coarse pre-filter for store
// queries: generous on purpose, with false positives rejected later by the
// exact proximity filter.
//
// The longitude padding degenerates as the mean latitude approaches the
// poles (cos -> 0). Known limitation; realistic operating latitudes keep it
// well-behaved.
func RouteBounds(line []domain.GeoPoint, bufferMiles float64) domain.Bounds {
	b := domain.Bounds{
		MinLat: math.Inf(1), MinLon: math.Inf(1),
		MaxLat: math.Inf(-1), MaxLon: math.Inf(-1),
	}
	for _, p := range line {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
	}

	bufferKm := bufferMiles * 1.60934
	meanLat := (b.MinLat + b.MaxLat) / 2

	latPad := bufferKm / 111.0
	lonPad := bufferKm / (111.0 * math.Cos(toRad(meanLat)))

	b.MinLat -= latPad
	b.MaxLat += latPad
	b.MinLon -= lonPad
	b.MaxLon += lonPad
	return b
}
