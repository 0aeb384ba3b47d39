package domain

import "time"

// StopType is the category of a trip stop.
type StopType string

const (
	StopCampsite StopType = "campsite"
	StopGas      StopType = "gas"
	StopWater    StopType = "water"
	StopDump     StopType = "dump"
	StopWalmart  StopType = "walmart"
	StopPropane  StopType = "propane"
	StopRepair   StopType = "repair"
)

// AmenityTypes lists every non-campsite category the planner can synthesize,
// in stable emission order.
var AmenityTypes = []StopType{StopGas, StopWater, StopDump, StopWalmart, StopPropane, StopRepair}

// KnownStopType reports whether t is a category the planner understands.
func KnownStopType(t StopType) bool {
	if t == StopCampsite {
		return true
	}
	for _, a := range AmenityTypes {
		if t == a {
			return true
		}
	}
	return false
}

// Provenance identifies which data source produced a stop.
type Provenance string

const (
	ProvenancePersisted Provenance = "persisted"
	ProvenanceLive      Provenance = "live-provider"
	ProvenanceSynthetic Provenance = "synthetic"
)

// StopDetails is free-form descriptive payload carried through the engine
// untouched.
type StopDetails struct {
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// Stop is a candidate point of interest matched against a route. Stops are
// built fresh on every planning request and never mutated afterwards.
type Stop struct {
	ID       string   `json:"id"` // source-qualified, unique within a result set
	Name     string   `json:"name"`
	Type     StopType `json:"stop_type"`
	Location GeoPoint `json:"location"`

	// DistanceFromRouteMeters is the nearest-vertex distance to the route
	// polyline. Always within the configured buffer for returned stops.
	DistanceFromRouteMeters float64 `json:"distance_from_route_meters"`

	// DistanceAlongRouteMeters is approximate progress along the route,
	// derived from the nearest vertex's fractional index.
	DistanceAlongRouteMeters float64 `json:"distance_along_route_meters"`

	// ETAFromStart estimates driving time from the trip origin to this
	// stop at an assumed average speed. Not a routed travel time.
	ETAFromStart time.Duration `json:"eta_from_start"`

	Provenance Provenance   `json:"provenance"`
	Details    *StopDetails `json:"details,omitempty"`
}
