package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Attraction is a point of interest that can earn a traveler reward points.
type Attraction struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	City     string    `json:"city"`
	State    string    `json:"state"`
	Location GeoPoint  `json:"location"`
}

// VisitedLocation is a timestamped position recorded for a traveler.
type VisitedLocation struct {
	UserID      uuid.UUID `json:"user_id"`
	Location    GeoPoint  `json:"location"`
	TimeVisited time.Time `json:"time_visited"`
}

// Reward is granted the first time a traveler comes close enough to an attraction.
type Reward struct {
	VisitedLocation VisitedLocation `json:"visited_location"`
	Attraction      Attraction      `json:"attraction"`
	Points          int             `json:"points"`
}

// Preferences holds the trip preferences used when pricing deals.
type Preferences struct {
	AttractionProximity int             `json:"attraction_proximity"`
	Currency            string          `json:"currency"`
	LowerPricePoint     decimal.Decimal `json:"lower_price_point"`
	HighPricePoint      decimal.Decimal `json:"high_price_point"`
	TripDuration        int             `json:"trip_duration"`
	TicketQuantity      int             `json:"ticket_quantity"`
	NumberOfAdults      int             `json:"number_of_adults"`
	NumberOfChildren    int             `json:"number_of_children"`
}

// DefaultPreferences mirrors the defaults applied to newly registered travelers.
func DefaultPreferences() Preferences {
	return Preferences{
		AttractionProximity: 200,
		Currency:            "USD",
		LowerPricePoint:     decimal.Zero,
		HighPricePoint:      decimal.NewFromInt(1_000_000),
		TripDuration:        1,
		TicketQuantity:      1,
		NumberOfAdults:      1,
		NumberOfChildren:    0,
	}
}

// TripDeal is a priced offer returned by the trip pricer.
type TripDeal struct {
	TripID   uuid.UUID       `json:"trip_id"`
	Provider string          `json:"provider"`
	Price    decimal.Decimal `json:"price"`
}

// NearbyAttraction is a computed listing entry relative to a traveler position.
type NearbyAttraction struct {
	AttractionName     string   `json:"attraction_name"`
	AttractionLocation GeoPoint `json:"attraction_location"`
	UserLocation       GeoPoint `json:"user_location"`
	Distance           float64  `json:"distance"` // statute miles
	RewardPoints       int      `json:"reward_points"`
	WithinRange        bool     `json:"within_range"`
}
