package profile

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]UserProfile
}

// NewMemoryRepository builds an in-memory profile store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{profiles: make(map[string]UserProfile)}
}

func (r *memoryRepository) Get(_ context.Context, userID string) (UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return UserProfile{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepository) CreateIfAbsent(_ context.Context, p UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.profiles[p.UserID]; exists {
		return ErrAlreadyExists
	}
	r.profiles[p.UserID] = p
	return nil
}

func (r *memoryRepository) UpdateRole(_ context.Context, userID, role string) (UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return UserProfile{}, ErrNotFound
	}
	p.Role = role
	p.UpdatedAt = time.Now().UTC()
	r.profiles[userID] = p
	return p, nil
}
