package domain

// MetersPerMile converts statute miles to meters.
const MetersPerMile = 1609.34

// SearchConfig holds the per-request planning parameters.
type SearchConfig struct {
	// BufferMiles is the maximum allowed distance from the route within
	// which a stop is considered relevant. User-controlled, typically 5-50.
	BufferMiles float64 `json:"buffer_miles"`

	// Categories are the stop types the caller wants included. An empty
	// set yields an empty plan without touching any source.
	Categories []StopType `json:"categories"`

	// MaxPOISamples bounds how many points along the route are sent to the
	// live places provider.
	MaxPOISamples int `json:"max_poi_samples"`
}

// BufferMeters returns the buffer distance converted to meters.
func (c SearchConfig) BufferMeters() float64 {
	return c.BufferMiles * MetersPerMile
}

// CategoryEnabled reports whether the given stop type was requested.
func (c SearchConfig) CategoryEnabled(t StopType) bool {
	for _, cat := range c.Categories {
		if cat == t {
			return true
		}
	}
	return false
}

// AmenityCategories returns the requested non-campsite categories in the
// planner's stable emission order.
func (c SearchConfig) AmenityCategories() []StopType {
	var out []StopType
	for _, t := range AmenityTypes {
		if c.CategoryEnabled(t) {
			out = append(out, t)
		}
	}
	return out
}
