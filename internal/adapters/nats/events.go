package natsadapter

import (
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

const (
	rewardSubjectPrefix   = "tourguide.rewards.granted."
	locationSubjectPrefix = "tourguide.locations."

	// RewardSubjects matches every reward event.
	RewardSubjects = rewardSubjectPrefix + ">"
	// LocationSubjects matches every location event.
	LocationSubjects = locationSubjectPrefix + ">"
)

// RewardSubject is the subject a traveler's reward events are published on.
func RewardSubject(userID uuid.UUID) string {
	return rewardSubjectPrefix + userID.String()
}

// LocationSubject is the subject a traveler's location events are published on.
func LocationSubject(userID uuid.UUID) string {
	return locationSubjectPrefix + userID.String()
}

// RewardGrantedEvent is the wire form of a granted reward.
type RewardGrantedEvent struct {
	UserID    uuid.UUID     `json:"user_id"`
	Reward    domain.Reward `json:"reward"`
	GrantedAt time.Time     `json:"granted_at"`
}
