package ports

import "context"

// CartClearer empties a customer's cart once an order no longer needs it.
type CartClearer interface {
	ClearCart(ctx context.Context, ownerID string) error
}
