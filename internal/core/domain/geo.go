package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Route is a planned trip route as produced by the routing collaborator.
// The polyline is treated as immutable; the engine never modifies it.
type Route struct {
	// Line is the ordered polyline from origin to destination. At least
	// two points are required for planning.
	Line []GeoPoint `json:"line"`

	// DistanceMeters is the total routed distance reported by the routing
	// provider. Zero means unknown; callers fall back to the polyline's
	// great-circle length.
	DistanceMeters float64 `json:"distance_meters,omitempty"`

	// DurationSeconds is the routed travel time reported by the provider.
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether the point lies inside the box (inclusive).
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}
