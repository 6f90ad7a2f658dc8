package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the key was already used for a different checkout.
var ErrIdempotencyConflict = errors.New("idempotency key reused with a different checkout")

// CheckoutKey associates a client-supplied idempotency key with the order it produced.
// Keys are scoped to their owner.
type CheckoutKey struct {
	OwnerID     string
	Key         string
	RequestHash string
	OrderID     string
	CreatedAt   time.Time
}

// IdempotencyStore remembers checkout keys so client retries replay the first order.
type IdempotencyStore interface {
	// Get returns the stored key, or nil when unknown.
	Get(ctx context.Context, ownerID, key string) (*CheckoutKey, error)
	// Save stores the key. A key already stored with the same hash and order is
	// returned as is; any other existing key yields ErrIdempotencyConflict along
	// with the stored record.
	Save(ctx context.Context, record CheckoutKey) (*CheckoutKey, error)
}
