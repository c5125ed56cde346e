// Package rewardcentral simulates the remote reward score provider.
package rewardcentral

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// MaxPoints is the highest score the provider hands out.
const MaxPoints = 1000

// Client returns a random score in [1, MaxPoints] after a simulated delay.
type Client struct {
	latency time.Duration
}

// New creates a Client. latency is the maximum simulated lookup delay.
func New(latency time.Duration) *Client {
	return &Client{latency: latency}
}

func (c *Client) AttractionRewardPoints(ctx context.Context, attractionID, userID uuid.UUID) (int, error) {
	if c.latency > 0 {
		timer := time.NewTimer(time.Duration(rand.Int64N(int64(c.latency) + 1)))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return 0, err
	}
	return 1 + rand.IntN(MaxPoints), nil
}
