package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/waypost-app/waypost/internal/core/domain"
	"github.com/waypost-app/waypost/internal/core/usecases"
)

// PlanStopsRequest is the body of POST /v1/trips/stops.
type PlanStopsRequest struct {
	Route          domain.Route      `json:"route"`
	BufferMiles    float64           `json:"buffer_miles"`
	Categories     []domain.StopType `json:"categories"`
	MaxPOISamples  int               `json:"max_poi_samples"`
	SortAlongRoute bool              `json:"sort_along_route"`
}

// PlanStopsResponse wraps the plan result for transport.
type PlanStopsResponse struct {
	Stops           []domain.Stop `json:"stops"`
	DegradedSources []string      `json:"degraded_sources,omitempty"`
}

// PlanStopsHandler runs the stop-matching engine for a posted route.
func PlanStopsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req PlanStopsRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		if req.BufferMiles <= 0 {
			req.BufferMiles = deps.DefaultBufferMiles
		}
		if req.BufferMiles > deps.MaxBufferMiles {
			req.BufferMiles = deps.MaxBufferMiles
		}
		if req.MaxPOISamples <= 0 {
			req.MaxPOISamples = deps.DefaultPOISamples
		}
		if req.MaxPOISamples > deps.MaxPOISamples {
			req.MaxPOISamples = deps.MaxPOISamples
		}
		for _, cat := range req.Categories {
			if !domain.KnownStopType(cat) {
				return errBadRequest(c, "unknown category: "+string(cat))
			}
		}

		cfg := domain.SearchConfig{
			BufferMiles:   req.BufferMiles,
			Categories:    req.Categories,
			MaxPOISamples: req.MaxPOISamples,
		}

		res, err := deps.Planner.PlanStopsDetailed(c.UserContext(), &req.Route, cfg)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidRoute) {
				return errBadRequest(c, err.Error())
			}
			return errInternal(c, err.Error())
		}

		if req.SortAlongRoute {
			usecases.SortByRouteProgress(res.Stops)
		}

		degraded := make([]string, 0, len(res.Failures))
		for _, f := range res.Failures {
			degraded = append(degraded, string(f.Source))
		}
		return c.JSON(PlanStopsResponse{Stops: res.Stops, DegradedSources: degraded})
	}
}

// AddCampsiteHandler stores a user-entered campsite.
func AddCampsiteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var site domain.Campsite
		if err := c.BodyParser(&site); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		if err := deps.Campsites.Add(c.UserContext(), &site); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(site)
	}
}

// GetCampsiteHandler returns a single campsite by ID.
func GetCampsiteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "campsite id is required")
		}
		site, err := deps.Campsites.GetByID(c.UserContext(), id)
		if err != nil {
			return errNotFound(c, "campsite not found")
		}
		return c.JSON(site)
	}
}

// NearbyCampsitesHandler returns campsites within a radius of a point.
func NearbyCampsitesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 8000)
		limit := c.QueryInt("limit", 50)

		if lat == 0 && lon == 0 {
			return errBadRequest(c, "lat and lon are required")
		}
		if radius <= 0 || radius > 100000 {
			return errBadRequest(c, "radius must be between 1 and 100000 meters")
		}

		sites, err := deps.Campsites.FindNearby(c.UserContext(), domain.GeoPoint{Lat: lat, Lon: lon}, radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(sites)
	}
}

// ListCampsitesHandler returns a paginated listing, newest first.
func ListCampsitesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)

		sites, total, err := deps.Campsites.ListRecent(c.UserContext(), limit, offset)
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: sites, Pagination: pg})
	}
}
