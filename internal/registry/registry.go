// Package registry holds the user registry: a counter-keyed table of
// {name, identity} pairs that lives for the lifetime of the process.
package registry

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/mmynk/govledger/internal/models"
)

// ErrUserNotFound is the only error the registry returns.
var ErrUserNotFound = errors.New("user not found")

// Registry is safe for concurrent use. Create one per service instance.
type Registry struct {
	mu     sync.RWMutex
	users  map[uint64]models.User
	nextID uint64
}

// New returns an empty registry whose first user gets id 1.
func New() *Registry {
	return &Registry{
		users:  make(map[uint64]models.User),
		nextID: 1,
	}
}

// CreateUser adds a user and returns the assigned id.
func (r *Registry) CreateUser(name string, identity models.Identity) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.users[id] = models.User{ID: id, Name: name, Identity: identity}

	slog.Debug("User registered", "user_id", id, "identity", identity)
	return id
}

// GetUser returns a copy of the user stored under id.
func (r *Registry) GetUser(id uint64) (*models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, false
	}
	return &u, true
}

// UserCount returns the number of registered users.
func (r *Registry) UserCount() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return uint64(len(r.users))
}

// EditUser replaces name and identity. There is no ownership check: any
// caller may edit any user.
func (r *Registry) EditUser(id uint64, name string, identity models.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Name = name
	u.Identity = identity
	r.users[id] = u
	return nil
}
