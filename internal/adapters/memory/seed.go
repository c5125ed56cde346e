package memory

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/tourguide/internal/adapters/gpsutil"
	"github.com/samirrijal/tourguide/internal/core/domain"
)

// historyDepth is the number of random visited locations per internal traveler.
const historyDepth = 3

// InternalUserName returns the user name of the i-th internal traveler.
func InternalUserName(i int) string {
	return fmt.Sprintf("internalUser%d", i)
}

// SeedInternalTravelers registers n generated travelers, each with a short
// random location history from the last 30 days.
func SeedInternalTravelers(ctx context.Context, repo *TravelerRepo, n int) error {
	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		name := InternalUserName(i)
		t := domain.NewTraveler(uuid.New(), name, "000", name+"@tourGuide.com")

		// history is appended oldest first
		times := make([]time.Time, historyDepth)
		for j := range times {
			times[j] = now.Add(-time.Duration(rand.IntN(31)) * 24 * time.Hour)
		}
		slices.SortFunc(times, time.Time.Compare)
		for _, ts := range times {
			t.AddVisitedLocation(domain.VisitedLocation{
				UserID:      t.ID,
				Location:    gpsutil.RandomPoint(),
				TimeVisited: ts,
			})
		}

		if err := repo.Add(ctx, t); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
	}
	return nil
}
