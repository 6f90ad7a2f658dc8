package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/onecart/storefront-api/internal/domains/orders/domain"
	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}}
}

func clone(order *domain.Order) *domain.Order {
	c := *order
	c.Items = append([]domain.LineItem(nil), order.Items...)
	return &c
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return nil, ports.ErrAlreadyExists
	}
	stored := clone(order)
	if stored.Version == 0 {
		stored.Version = 1
	}
	r.orders[stored.ID] = stored
	return clone(stored), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(order), nil
}

func (r *Repository) ListByOwner(_ context.Context, ownerID string) ([]*domain.Order, error) {
	return r.filter(func(o *domain.Order) bool { return o.OwnerID == ownerID }), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	return r.filter(func(*domain.Order) bool { return true }), nil
}

func (r *Repository) Update(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.Version != order.Version {
		return nil, ports.ErrVersionConflict
	}
	next := clone(order)
	next.CreatedAt = stored.CreatedAt
	next.Version = stored.Version + 1
	r.orders[next.ID] = next
	return clone(next), nil
}

func (r *Repository) ListUnpaid(_ context.Context, method domain.PaymentMethod, cutoff time.Time) ([]*domain.Order, error) {
	return r.filter(func(o *domain.Order) bool {
		return o.PaymentMethod == method && !o.Paid && o.CreatedAt.Before(cutoff)
	}), nil
}

func (r *Repository) filter(keep func(*domain.Order) bool) []*domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if keep(order) {
			list = append(list, clone(order))
		}
	}
	return list
}
