package usecases

import (
	"sync"

	"github.com/samirrijal/tourguide/internal/core/domain"
	"github.com/samirrijal/tourguide/internal/pkg/geospatial"
)

const (
	// DefaultRewardRadius is the distance in statute miles within which a
	// visited location earns an attraction's reward.
	DefaultRewardRadius = 10.0
	// DefaultListingRadius bounds the nearby-attractions listing.
	DefaultListingRadius = 200.0
)

// ProximitySettings is an immutable view of the proximity policy.
type ProximitySettings struct {
	RewardRadius  float64
	ListingRadius float64
}

// WithinReward reports whether loc is close enough to attr to earn its reward.
// The boundary is inclusive.
func (s ProximitySettings) WithinReward(loc domain.GeoPoint, attr domain.Attraction) bool {
	return Distance(loc, attr.Location) <= s.RewardRadius
}

// WithinListing reports whether loc is within the listing radius of attr.
func (s ProximitySettings) WithinListing(loc domain.GeoPoint, attr domain.Attraction) bool {
	return Distance(loc, attr.Location) <= s.ListingRadius
}

// Distance returns the statute-mile distance between two points.
func Distance(a, b domain.GeoPoint) float64 {
	return geospatial.StatuteMiles(a.Lat, a.Lon, b.Lat, b.Lon)
}

// ProximityPolicy holds the process-wide radii. Changes apply to tasks
// submitted afterwards; running tasks keep the snapshot they started with.
type ProximityPolicy struct {
	mu       sync.RWMutex
	settings ProximitySettings
}

// NewProximityPolicy returns a policy with the given radii. Non-positive
// values fall back to the defaults.
func NewProximityPolicy(rewardRadius, listingRadius float64) *ProximityPolicy {
	if rewardRadius <= 0 {
		rewardRadius = DefaultRewardRadius
	}
	if listingRadius <= 0 {
		listingRadius = DefaultListingRadius
	}
	return &ProximityPolicy{settings: ProximitySettings{
		RewardRadius:  rewardRadius,
		ListingRadius: listingRadius,
	}}
}

// Snapshot returns the current settings.
func (p *ProximityPolicy) Snapshot() ProximitySettings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

// SetRewardRadius changes the reward radius. Negative values are ignored.
func (p *ProximityPolicy) SetRewardRadius(miles float64) {
	if miles < 0 {
		return
	}
	p.mu.Lock()
	p.settings.RewardRadius = miles
	p.mu.Unlock()
}

// ResetRewardRadius restores DefaultRewardRadius.
func (p *ProximityPolicy) ResetRewardRadius() {
	p.mu.Lock()
	p.settings.RewardRadius = DefaultRewardRadius
	p.mu.Unlock()
}

// SetListingRadius changes the listing radius. Negative values are ignored.
func (p *ProximityPolicy) SetListingRadius(miles float64) {
	if miles < 0 {
		return
	}
	p.mu.Lock()
	p.settings.ListingRadius = miles
	p.mu.Unlock()
}
