package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/onecart/storefront-api/internal/domains/users/domain"
	"github.com/onecart/storefront-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory user persistence adapter with an email index.
type Repository struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string
}

func NewRepository() *Repository {
	return &Repository{users: map[string]*domain.User{}, byEmail: map[string]string{}}
}

func clone(user *domain.User) *domain.User {
	c := *user
	c.Providers = append([]domain.Provider(nil), user.Providers...)
	c.Cart = user.Cart.Clone()
	return &c
}

func (r *Repository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(user.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[email]; taken {
		return nil, ports.ErrDuplicateEmail
	}
	if _, exists := r.users[user.ID]; exists {
		return nil, errors.New("user already exists")
	}
	stored := clone(user)
	stored.Email = email
	r.users[stored.ID] = stored
	r.byEmail[email] = stored.ID
	return clone(stored), nil
}

func (r *Repository) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(user.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if owner, taken := r.byEmail[email]; taken && owner != user.ID {
		return nil, ports.ErrDuplicateEmail
	}
	stored := clone(user)
	stored.Email = email
	stored.CreatedAt = existing.CreatedAt
	delete(r.byEmail, existing.Email)
	r.users[stored.ID] = stored
	r.byEmail[email] = stored.ID
	return clone(stored), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(user), nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(r.users[id]), nil
}
