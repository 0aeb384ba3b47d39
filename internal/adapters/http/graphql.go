package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/waypost-app/waypost/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	geoPointInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "GeoPointInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"lat": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"lon": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	campsiteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Campsite",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: geoPointType},
			"description": &graphql.Field{Type: graphql.String},
			"features":    &graphql.Field{Type: graphql.NewList(graphql.String)},
			"images":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	stopDetailsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "StopDetails",
		Fields: graphql.Fields{
			"description": &graphql.Field{Type: graphql.String},
			"features":    &graphql.Field{Type: graphql.NewList(graphql.String)},
			"images":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	stopType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Stop",
		Fields: graphql.Fields{
			"id":                          &graphql.Field{Type: graphql.String},
			"name":                        &graphql.Field{Type: graphql.String},
			"stop_type":                   &graphql.Field{Type: graphql.String},
			"location":                    &graphql.Field{Type: geoPointType},
			"distance_from_route_meters":  &graphql.Field{Type: graphql.Float},
			"distance_along_route_meters": &graphql.Field{Type: graphql.Float},
			"provenance":                  &graphql.Field{Type: graphql.String},
			"details":                     &graphql.Field{Type: stopDetailsType},
			"eta_seconds": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(domain.Stop); ok {
						return s.ETAFromStart.Seconds(), nil
					}
					return nil, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"campsite": &graphql.Field{
				Type:        campsiteType,
				Description: "Get a campsite by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Campsites.GetByID(p.Context, id)
				},
			},
			"campsitesNearby": &graphql.Field{
				Type:        graphql.NewList(campsiteType),
				Description: "Find campsites near a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 10000.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					center := domain.GeoPoint{
						Lat: p.Args["lat"].(float64),
						Lon: p.Args["lon"].(float64),
					}
					radius := p.Args["radius"].(float64)
					limit := p.Args["limit"].(int)
					return deps.Campsites.FindNearby(p.Context, center, radius, limit)
				},
			},
			"planStops": &graphql.Field{
				Type:        graphql.NewList(stopType),
				Description: "Plan stops along a route polyline",
				Args: graphql.FieldConfigArgument{
					"route":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(geoPointInput)))},
					"buffer_miles": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
					"categories":   &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rawPts := p.Args["route"].([]interface{})
					line := make([]domain.GeoPoint, 0, len(rawPts))
					for _, raw := range rawPts {
						m := raw.(map[string]interface{})
						line = append(line, domain.GeoPoint{
							Lat: m["lat"].(float64),
							Lon: m["lon"].(float64),
						})
					}

					buffer := p.Args["buffer_miles"].(float64)
					if buffer <= 0 {
						buffer = deps.DefaultBufferMiles
					}
					if buffer > deps.MaxBufferMiles {
						buffer = deps.MaxBufferMiles
					}

					categories := domain.AmenityTypes
					categories = append([]domain.StopType{domain.StopCampsite}, categories...)
					if raw, ok := p.Args["categories"].([]interface{}); ok && len(raw) > 0 {
						categories = categories[:0]
						for _, rc := range raw {
							st := domain.StopType(rc.(string))
							if !domain.KnownStopType(st) {
								return nil, fiber.NewError(400, "unknown category: "+string(st))
							}
							categories = append(categories, st)
						}
					}

					cfg := domain.SearchConfig{
						BufferMiles:   buffer,
						Categories:    categories,
						MaxPOISamples: deps.DefaultPOISamples,
					}
					return deps.Planner.PlanStops(p.Context, &domain.Route{Line: line}, cfg)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
