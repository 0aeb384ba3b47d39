package domain

import "errors"

// ErrInvalidRoute is returned when a route polyline has fewer than two
// points. It is the only fatal planning error; everything else degrades.
var ErrInvalidRoute = errors.New("route polyline must contain at least 2 points")

// SourceFailure records a recoverable stop-source failure. The aggregator
// collects these instead of aborting so callers can distinguish "no nearby
// stops" from "source unavailable".
type SourceFailure struct {
	Source Provenance `json:"source"`
	Err    error      `json:"-"`
}

func (f SourceFailure) Error() string {
	return string(f.Source) + " source: " + f.Err.Error()
}

func (f SourceFailure) Unwrap() error { return f.Err }
