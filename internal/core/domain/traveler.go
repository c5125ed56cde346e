package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Traveler is a user whose movements are tracked and rewarded.
//
// The visited-location history is append-only and kept in insertion order,
// which is also chronological order. The reward ledger is owned by the
// traveler and mutated only by the reward engine.
type Traveler struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"user_name"`
	Phone    string    `json:"phone"`
	Email    string    `json:"email"`

	mu          sync.RWMutex
	latestAt    time.Time
	history     []VisitedLocation
	preferences Preferences
	tripDeals   []TripDeal
	ledger      *RewardLedger
}

// NewTraveler creates a traveler with default preferences and an empty ledger.
func NewTraveler(id uuid.UUID, userName, phone, email string) *Traveler {
	return &Traveler{
		ID:          id,
		UserName:    userName,
		Phone:       phone,
		Email:       email,
		preferences: DefaultPreferences(),
		ledger:      NewRewardLedger(),
	}
}

// AddVisitedLocation appends a location to the history.
func (t *Traveler) AddVisitedLocation(vl VisitedLocation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = append(t.history, vl)
	if vl.TimeVisited.After(t.latestAt) {
		t.latestAt = vl.TimeVisited
	}
}

// VisitedLocations returns a snapshot of the history in insertion order.
func (t *Traveler) VisitedLocations() []VisitedLocation {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]VisitedLocation, len(t.history))
	copy(out, t.history)
	return out
}

// LastVisitedLocation returns the most recently appended location.
func (t *Traveler) LastVisitedLocation() (VisitedLocation, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.history) == 0 {
		return VisitedLocation{}, false
	}
	return t.history[len(t.history)-1], true
}

// LatestLocationTimestamp returns the newest TimeVisited seen so far.
func (t *Traveler) LatestLocationTimestamp() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latestAt
}

// Rewards returns the traveler's reward ledger.
func (t *Traveler) Rewards() *RewardLedger {
	return t.ledger
}

// Preferences returns a copy of the trip preferences.
func (t *Traveler) Preferences() Preferences {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.preferences
}

// SetPreferences replaces the trip preferences.
func (t *Traveler) SetPreferences(p Preferences) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.preferences = p
}

// TripDeals returns the last deals quoted to the traveler.
func (t *Traveler) TripDeals() []TripDeal {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]TripDeal, len(t.tripDeals))
	copy(out, t.tripDeals)
	return out
}

// SetTripDeals stores the latest quoted deals.
func (t *Traveler) SetTripDeals(deals []TripDeal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tripDeals = append([]TripDeal(nil), deals...)
}
