package domain

import "time"

// PlanEvent summarizes a completed planning request for downstream
// consumers (analytics, live dashboards).
type PlanEvent struct {
	Time            time.Time      `json:"time"`
	BufferMiles     float64        `json:"buffer_miles"`
	Categories      []StopType     `json:"categories"`
	RoutePoints     int            `json:"route_points"`
	StopCount       int            `json:"stop_count"`
	ByProvenance    map[string]int `json:"by_provenance"`
	DegradedSources []string       `json:"degraded_sources,omitempty"`
	ElapsedMillis   int64          `json:"elapsed_millis"`
}
