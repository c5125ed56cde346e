// Package memory keeps travelers in process memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

// TravelerRepo is an in-memory ports.TravelerRepository.
type TravelerRepo struct {
	mu     sync.RWMutex
	byName map[string]*domain.Traveler
	byID   map[uuid.UUID]*domain.Traveler
}

// NewTravelerRepo creates an empty repository.
func NewTravelerRepo() *TravelerRepo {
	return &TravelerRepo{
		byName: make(map[string]*domain.Traveler),
		byID:   make(map[uuid.UUID]*domain.Traveler),
	}
}

// Add registers t. A traveler with the same user name is kept as is.
func (r *TravelerRepo) Add(ctx context.Context, t *domain.Traveler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[t.UserName]; ok {
		return nil
	}
	r.byName[t.UserName] = t
	r.byID[t.ID] = t
	return nil
}

func (r *TravelerRepo) GetByUserName(ctx context.Context, userName string) (*domain.Traveler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[userName]
	if !ok {
		return nil, domain.ErrTravelerNotFound
	}
	return t, nil
}

func (r *TravelerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Traveler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTravelerNotFound
	}
	return t, nil
}

// List returns all travelers ordered by user name.
func (r *TravelerRepo) List(ctx context.Context) ([]*domain.Traveler, error) {
	r.mu.RLock()
	out := make([]*domain.Traveler, 0, len(r.byName))
	for _, t := range r.byName {
		out = append(out, t)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].UserName < out[j].UserName })
	return out, nil
}

// Len returns the number of registered travelers.
func (r *TravelerRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
