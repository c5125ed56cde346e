package domain

import "errors"

var (
	// ErrRewardExists is returned when a ledger already holds a reward for the attraction.
	ErrRewardExists = errors.New("reward already granted for attraction")

	// ErrTravelerNotFound is returned when no traveler matches the lookup.
	ErrTravelerNotFound = errors.New("traveler not found")
)
