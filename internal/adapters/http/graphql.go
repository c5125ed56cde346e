package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to the tour guide service.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	attractionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Attraction",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"name":     &graphql.Field{Type: graphql.String},
			"city":     &graphql.Field{Type: graphql.String},
			"state":    &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: geoPointType},
		},
	})

	visitedLocationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "VisitedLocation",
		Fields: graphql.Fields{
			"user_id":      &graphql.Field{Type: graphql.String},
			"location":     &graphql.Field{Type: geoPointType},
			"time_visited": &graphql.Field{Type: graphql.DateTime},
		},
	})

	rewardType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Reward",
		Fields: graphql.Fields{
			"attraction":       &graphql.Field{Type: attractionType},
			"visited_location": &graphql.Field{Type: visitedLocationType},
			"points":           &graphql.Field{Type: graphql.Int},
		},
	})

	travelerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Traveler",
		Fields: graphql.Fields{
			"id":                &graphql.Field{Type: graphql.String},
			"user_name":         &graphql.Field{Type: graphql.String},
			"email":             &graphql.Field{Type: graphql.String},
			"visited_locations": &graphql.Field{Type: graphql.Int},
			"reward_count":      &graphql.Field{Type: graphql.Int},
			"reward_points":     &graphql.Field{Type: graphql.Int},
			"last_location":     &graphql.Field{Type: geoPointType},
		},
	})

	nearbyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearbyAttraction",
		Fields: graphql.Fields{
			"attraction_name":     &graphql.Field{Type: graphql.String},
			"attraction_location": &graphql.Field{Type: geoPointType},
			"user_location":       &graphql.Field{Type: geoPointType},
			"distance":            &graphql.Field{Type: graphql.Float},
			"reward_points":       &graphql.Field{Type: graphql.Int},
			"within_range":        &graphql.Field{Type: graphql.Boolean},
		},
	})

	userNameArg := graphql.FieldConfigArgument{
		"user_name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"travelers": &graphql.Field{
				Type:        graphql.NewList(travelerType),
				Description: "List registered travelers",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					travelers, err := deps.TourGuide.ListTravelers(p.Context)
					if err != nil {
						return nil, err
					}
					return travelerMaps(travelers), nil
				},
			},
			"traveler": &graphql.Field{
				Type:        travelerType,
				Description: "Look a traveler up by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw, _ := p.Args["id"].(string)
					id, err := uuid.Parse(raw)
					if err != nil {
						return nil, err
					}
					t, err := deps.TourGuide.TravelerByID(p.Context, id)
					if err != nil {
						return nil, err
					}
					return travelerMaps([]*domain.Traveler{t})[0], nil
				},
			},
			"rewards": &graphql.Field{
				Type:        graphql.NewList(rewardType),
				Description: "Rewards granted to a traveler, in grant order",
				Args:        userNameArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userName, _ := p.Args["user_name"].(string)
					rewards, err := deps.TourGuide.GetRewards(p.Context, userName)
					if err != nil {
						return nil, err
					}
					result := make([]map[string]interface{}, len(rewards))
					for i, r := range rewards {
						result[i] = rewardMap(r)
					}
					return result, nil
				},
			},
			"nearbyAttractions": &graphql.Field{
				Type:        graphql.NewList(nearbyType),
				Description: "Closest attractions to the traveler's last location",
				Args:        userNameArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userName, _ := p.Args["user_name"].(string)
					t, err := deps.TourGuide.GetTraveler(p.Context, userName)
					if err != nil {
						return nil, err
					}
					vl, err := deps.TourGuide.GetUserLocation(p.Context, t)
					if err != nil {
						return nil, err
					}
					nearby, err := deps.TourGuide.GetNearbyAttractions(p.Context, t, vl)
					if err != nil {
						return nil, err
					}
					result := make([]map[string]interface{}, len(nearby))
					for i, n := range nearby {
						result[i] = map[string]interface{}{
							"attraction_name":     n.AttractionName,
							"attraction_location": geoPointMap(n.AttractionLocation),
							"user_location":       geoPointMap(n.UserLocation),
							"distance":            n.Distance,
							"reward_points":       n.RewardPoints,
							"within_range":        n.WithinRange,
						}
					}
					return result, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func geoPointMap(p domain.GeoPoint) map[string]interface{} {
	return map[string]interface{}{"lat": p.Lat, "lon": p.Lon}
}

func rewardMap(r domain.Reward) map[string]interface{} {
	return map[string]interface{}{
		"points": r.Points,
		"attraction": map[string]interface{}{
			"id":       r.Attraction.ID.String(),
			"name":     r.Attraction.Name,
			"city":     r.Attraction.City,
			"state":    r.Attraction.State,
			"location": geoPointMap(r.Attraction.Location),
		},
		"visited_location": map[string]interface{}{
			"user_id":      r.VisitedLocation.UserID.String(),
			"location":     geoPointMap(r.VisitedLocation.Location),
			"time_visited": r.VisitedLocation.TimeVisited,
		},
	}
}

func travelerMaps(travelers []*domain.Traveler) []map[string]interface{} {
	result := make([]map[string]interface{}, len(travelers))
	for i, t := range travelers {
		v := newTravelerView(t)
		m := map[string]interface{}{
			"id":                v.ID.String(),
			"user_name":         v.UserName,
			"email":             v.Email,
			"visited_locations": v.VisitedLocations,
			"reward_count":      v.RewardCount,
			"reward_points":     v.RewardPoints,
		}
		if v.LastLocation != nil {
			m["last_location"] = geoPointMap(*v.LastLocation)
		}
		result[i] = m
	}
	return result
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
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
