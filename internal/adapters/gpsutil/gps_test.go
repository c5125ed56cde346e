package gpsutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_GetUserLocation(t *testing.T) {
	p := New(0)
	id := uuid.New()

	for i := 0; i < 100; i++ {
		vl, err := p.GetUserLocation(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, vl.UserID)
		assert.InDelta(t, 0, vl.Location.Lat, maxLatitude)
		assert.InDelta(t, 0, vl.Location.Lon, 180)
		assert.WithinDuration(t, time.Now(), vl.TimeVisited, time.Second)
	}
}

func TestProvider_LatencyRespectsContext(t *testing.T) {
	p := New(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.GetUserLocation(ctx, uuid.New())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAttractions_StableIDs(t *testing.T) {
	a := Attractions()
	b := Attractions()
	require.Len(t, a, 26)
	assert.Equal(t, a, b)

	seen := map[uuid.UUID]bool{}
	for _, attr := range a {
		assert.False(t, seen[attr.ID], "duplicate id for %s", attr.Name)
		seen[attr.ID] = true
	}
	assert.Equal(t, "Disneyland", a[0].Name)
	assert.Equal(t, AttractionID("Disneyland"), a[0].ID)
}
