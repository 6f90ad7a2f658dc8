package ports

import (
	"context"
	"errors"
	"time"

	"github.com/onecart/storefront-api/internal/domains/orders/domain"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrAlreadyExists   = errors.New("order already exists")
	ErrVersionConflict = errors.New("order was modified concurrently")
)

// Repository persists orders.
type Repository interface {
	// Create inserts a new order; the returned copy carries stored timestamps.
	// An order whose id is already stored yields ErrAlreadyExists.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	// Update writes the order iff the stored version equals order.Version and
	// returns the copy with the incremented version. ErrVersionConflict otherwise.
	Update(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// ListUnpaid returns unpaid orders settled with method and created before cutoff.
	ListUnpaid(ctx context.Context, method domain.PaymentMethod, cutoff time.Time) ([]*domain.Order, error)
}
