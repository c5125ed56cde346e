// Package trippricer simulates the trip pricing service.
package trippricer

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

// DealCount is the number of providers quoted per request.
const DealCount = 5

var providers = []string{
	"Holiday Travels",
	"Enterprize Ventures Limited",
	"Sunny Days",
	"FlyAway Trips",
	"United Partners Vacations",
	"Dream Trips",
	"Live Free",
	"Dancing Waves Cruselines and Partners",
	"AdventureCo",
	"Cure-Your-Blues",
}

// ErrMissingAPIKey is returned when no API key is supplied.
var ErrMissingAPIKey = errors.New("trip pricer api key required")

// Pricer quotes DealCount random offers from distinct providers.
type Pricer struct{}

// New creates a Pricer.
func New() *Pricer { return &Pricer{} }

// GetPrice quotes trips. Each adult pays a nightly rate of 100 to 999,
// children pay half, and every 10 reward points take one unit off the
// total. Prices never drop below zero and are rounded to cents.
func (p *Pricer) GetPrice(ctx context.Context, apiKey string, userID uuid.UUID, prefs domain.Preferences, rewardPoints int) ([]domain.TripDeal, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nights := int64(max(prefs.TripDuration, 1))
	adults := int64(max(prefs.NumberOfAdults, 1))
	children := int64(max(prefs.NumberOfChildren, 0))
	discount := decimal.NewFromInt(int64(rewardPoints)).Div(decimal.NewFromInt(10))
	half := decimal.NewFromFloat(0.5)

	names := rand.Perm(len(providers))[:DealCount]
	deals := make([]domain.TripDeal, 0, DealCount)
	for _, idx := range names {
		nightly := decimal.NewFromInt(100 + rand.Int64N(900)).
			Add(decimal.NewFromInt(rand.Int64N(100)).Div(decimal.NewFromInt(100)))
		perNight := nightly.Mul(decimal.NewFromInt(adults)).
			Add(nightly.Mul(half).Mul(decimal.NewFromInt(children)))
		price := perNight.Mul(decimal.NewFromInt(nights)).Sub(discount)
		if price.IsNegative() {
			price = decimal.Zero
		}
		deals = append(deals, domain.TripDeal{
			TripID:   uuid.New(),
			Provider: providers[idx],
			Price:    price.Round(2),
		})
	}
	return deals, nil
}
