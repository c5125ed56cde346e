package rewardcentral

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PointsInRange(t *testing.T) {
	c := New(0)
	for i := 0; i < 500; i++ {
		p, err := c.AttractionRewardPoints(context.Background(), uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p, 1)
		assert.LessOrEqual(t, p, MaxPoints)
	}
}

func TestClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(0).AttractionRewardPoints(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, context.Canceled)

	_, err = New(time.Hour).AttractionRewardPoints(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
}
