package admin

import (
	"context"
	"errors"
	"sync"
)

type memoryRepository struct {
	mu     sync.RWMutex
	admins map[string]Admin
}

// NewMemoryRepository builds an in-memory admin store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{admins: make(map[string]Admin)}
}

func (r *memoryRepository) Create(_ context.Context, a Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.admins[a.Email]; exists {
		return errors.New("admin exists")
	}
	r.admins[a.Email] = a
	return nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.admins[email]
	if !ok {
		return Admin{}, ErrNotFound
	}
	return a, nil
}
