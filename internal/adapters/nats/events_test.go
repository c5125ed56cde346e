package natsadapter

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSubjects(t *testing.T) {
	id := uuid.MustParse("0b7c6a2e-5f0e-4b8e-9d43-7a1a2f3c4d5e")
	assert.Equal(t, "tourguide.rewards.granted.0b7c6a2e-5f0e-4b8e-9d43-7a1a2f3c4d5e", RewardSubject(id))
	assert.Equal(t, "tourguide.locations.0b7c6a2e-5f0e-4b8e-9d43-7a1a2f3c4d5e", LocationSubject(id))
}

func TestStreamsCoverSubjects(t *testing.T) {
	id := uuid.New()
	covered := func(subject string) bool {
		for _, s := range Streams() {
			for _, pattern := range s.Subjects {
				if strings.HasPrefix(subject, strings.TrimSuffix(pattern, ">")) {
					return true
				}
			}
		}
		return false
	}
	assert.True(t, covered(RewardSubject(id)))
	assert.True(t, covered(LocationSubject(id)))
}
