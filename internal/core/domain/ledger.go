package domain

import (
	"sync"

	"github.com/google/uuid"
)

// RewardLedger is a traveler's append-only list of granted rewards.
//
// It holds at most one Reward per attraction. Entries are never updated
// or removed. All methods are safe for concurrent use.
type RewardLedger struct {
	mu      sync.RWMutex
	entries []Reward
	byAttr  map[uuid.UUID]struct{}
}

// NewRewardLedger returns an empty ledger.
func NewRewardLedger() *RewardLedger {
	return &RewardLedger{byAttr: make(map[uuid.UUID]struct{})}
}

// Contains reports whether a reward for the attraction was already granted.
func (l *RewardLedger) Contains(attractionID uuid.UUID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.byAttr[attractionID]
	return ok
}

// Append records a reward. Returns ErrRewardExists if the attraction is
// already present; the ledger is left unchanged in that case.
func (l *RewardLedger) Append(r Reward) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byAttr[r.Attraction.ID]; ok {
		return ErrRewardExists
	}
	l.entries = append(l.entries, r)
	l.byAttr[r.Attraction.ID] = struct{}{}
	return nil
}

// List returns a copy of the rewards in grant order.
func (l *RewardLedger) List() []Reward {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Reward, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of granted rewards.
func (l *RewardLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// TotalPoints sums the points of every granted reward.
func (l *RewardLedger) TotalPoints() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := 0
	for _, r := range l.entries {
		total += r.Points
	}
	return total
}
