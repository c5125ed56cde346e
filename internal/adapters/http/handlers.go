package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/samirrijal/tourguide/internal/core/domain"
	"github.com/samirrijal/tourguide/internal/core/usecases"
)

// TravelerView is the public representation of a traveler.
type TravelerView struct {
	ID               uuid.UUID        `json:"id"`
	UserName         string           `json:"user_name"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email"`
	VisitedLocations int              `json:"visited_locations"`
	LastLocation     *domain.GeoPoint `json:"last_location,omitempty"`
	RewardCount      int              `json:"reward_count"`
	RewardPoints     int              `json:"reward_points"`
}

func newTravelerView(t *domain.Traveler) TravelerView {
	v := TravelerView{
		ID:               t.ID,
		UserName:         t.UserName,
		Phone:            t.Phone,
		Email:            t.Email,
		VisitedLocations: len(t.VisitedLocations()),
		RewardCount:      t.Rewards().Len(),
		RewardPoints:     t.Rewards().TotalPoints(),
	}
	if vl, ok := t.LastVisitedLocation(); ok {
		loc := vl.Location
		v.LastLocation = &loc
	}
	return v
}

// BatchSummary reports the outcome of a reward batch.
type BatchSummary struct {
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Granted   int            `json:"granted"`
	Duration  string         `json:"duration"`
	Failures  []BatchFailure `json:"failures,omitempty"`
}

// BatchFailure is one traveler whose computation failed.
type BatchFailure struct {
	TravelerID uuid.UUID `json:"traveler_id"`
	Error      string    `json:"error"`
}

func newBatchSummary(r usecases.BatchResult) BatchSummary {
	s := BatchSummary{
		Total:     r.Total,
		Succeeded: r.Succeeded,
		Failed:    len(r.Failures),
		Granted:   r.Granted,
		Duration:  r.Duration.Round(time.Millisecond).String(),
	}
	for _, f := range r.Failures {
		s.Failures = append(s.Failures, BatchFailure{TravelerID: f.TravelerID, Error: f.Err.Error()})
	}
	return s
}

// HomeHandler answers the root path.
func HomeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendString("Greetings from TourGuide!")
	}
}

// ListTravelersHandler returns registered travelers, sorted by user name.
func ListTravelersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		travelers, err := deps.TourGuide.ListTravelers(c.UserContext())
		if err != nil {
			return errFromService(c, err)
		}

		page, pg := paginate(c, travelers)
		views := make([]TravelerView, len(page))
		for i, t := range page {
			views[i] = newTravelerView(t)
		}
		return c.JSON(PaginatedResponse{Data: views, Pagination: pg})
	}
}

// GetLocationHandler returns the traveler's last visited location.
func GetLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		t, err := deps.TourGuide.GetTraveler(ctx, c.Params("userName"))
		if err != nil {
			return errFromService(c, err)
		}

		vl, err := deps.TourGuide.GetUserLocation(ctx, t)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(vl)
	}
}

// TrackLocationHandler records a fresh GPS position and computes rewards.
func TrackLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		t, err := deps.TourGuide.GetTraveler(ctx, c.Params("userName"))
		if err != nil {
			return errFromService(c, err)
		}

		vl, err := deps.TourGuide.TrackUserLocation(ctx, t)
		if err != nil {
			return errFromService(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(vl)
	}
}

// NearbyAttractionsHandler returns the closest attractions to the traveler's
// last location.
func NearbyAttractionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		t, err := deps.TourGuide.GetTraveler(ctx, c.Params("userName"))
		if err != nil {
			return errFromService(c, err)
		}

		vl, err := deps.TourGuide.GetUserLocation(ctx, t)
		if err != nil {
			return errFromService(c, err)
		}

		nearby, err := deps.TourGuide.GetNearbyAttractions(ctx, t, vl)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(nearby)
	}
}

// RewardsHandler returns the traveler's rewards in grant order.
func RewardsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rewards, err := deps.TourGuide.GetRewards(c.UserContext(), c.Params("userName"))
		if err != nil {
			return errFromService(c, err)
		}

		page, pg := paginate(c, rewards)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// TripDealsHandler prices trips for the traveler.
func TripDealsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		t, err := deps.TourGuide.GetTraveler(ctx, c.Params("userName"))
		if err != nil {
			return errFromService(c, err)
		}

		deals, err := deps.TourGuide.GetTripDeals(ctx, t)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(deals)
	}
}

// RecalculateRewardsHandler runs one reward batch over every traveler.
// Per-traveler failures are reported in the summary, not as an HTTP error.
func RecalculateRewardsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		res, err := deps.TourGuide.RecalculateAll(ctx)
		if err != nil {
			return errFromService(c, err)
		}

		summary := newBatchSummary(res)
		LoggerFromCtx(ctx).Info("rewards recalculated",
			"total", summary.Total, "failed", summary.Failed, "granted", summary.Granted)
		return c.JSON(summary)
	}
}

// ProximityView is the wire form of the proximity policy, in statute miles.
type ProximityView struct {
	RewardRadius  *float64 `json:"reward_radius,omitempty"`
	ListingRadius *float64 `json:"listing_radius,omitempty"`
}

func proximityView(s usecases.ProximitySettings) ProximityView {
	return ProximityView{RewardRadius: &s.RewardRadius, ListingRadius: &s.ListingRadius}
}

// GetProximityHandler returns the current proximity radii.
func GetProximityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(proximityView(deps.TourGuide.Policy().Snapshot()))
	}
}

// UpdateProximityHandler changes one or both radii. Batches already
// submitted keep the radii they were submitted with.
func UpdateProximityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ProximityView
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.RewardRadius == nil && req.ListingRadius == nil {
			return errBadRequest(c, "reward_radius or listing_radius is required")
		}
		if (req.RewardRadius != nil && *req.RewardRadius < 0) || (req.ListingRadius != nil && *req.ListingRadius < 0) {
			return errBadRequest(c, "radii must not be negative")
		}

		policy := deps.TourGuide.Policy()
		if req.RewardRadius != nil {
			policy.SetRewardRadius(*req.RewardRadius)
		}
		if req.ListingRadius != nil {
			policy.SetListingRadius(*req.ListingRadius)
		}

		settings := policy.Snapshot()
		LoggerFromCtx(c.UserContext()).Info("proximity policy updated",
			"reward_radius", settings.RewardRadius, "listing_radius", settings.ListingRadius)
		return c.JSON(proximityView(settings))
	}
}

// ResetProximityHandler restores the default reward radius.
func ResetProximityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		policy := deps.TourGuide.Policy()
		policy.ResetRewardRadius()
		return c.JSON(proximityView(policy.Snapshot()))
	}
}
