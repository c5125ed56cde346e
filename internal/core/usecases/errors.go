package usecases

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrProviderUnavailable means a score lookup failed or timed out. The
	// affected attraction is left unrewarded and retried on the next run.
	ErrProviderUnavailable = errors.New("reward score provider unavailable")

	// ErrSchedulerClosed is returned for work submitted after Shutdown.
	ErrSchedulerClosed = errors.New("batch scheduler is shut down")

	// ErrSchedulerNotStarted is returned for work submitted before Start.
	ErrSchedulerNotStarted = errors.New("batch scheduler not started")
)

// TravelerError is the failure of one traveler's task within a batch.
type TravelerError struct {
	TravelerID uuid.UUID
	Err        error
}

func (e *TravelerError) Error() string {
	return fmt.Sprintf("traveler %s: %v", e.TravelerID, e.Err)
}

func (e *TravelerError) Unwrap() error { return e.Err }
