package http

import (
	"github.com/nats-io/nats.go"

	"github.com/waypost-app/waypost/internal/adapters/postgres"
	"github.com/waypost-app/waypost/internal/adapters/valkey"
	"github.com/waypost-app/waypost/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Planner   *usecases.PlannerService
	Campsites *usecases.CampsiteService
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache

	// MaxBufferMiles caps user-supplied buffer distances.
	MaxBufferMiles float64
	// DefaultBufferMiles fills in an omitted buffer.
	DefaultBufferMiles float64
	// DefaultPOISamples fills in an omitted sample count.
	DefaultPOISamples int
	// MaxPOISamples caps the per-request provider lookup fan-out.
	MaxPOISamples int
}
