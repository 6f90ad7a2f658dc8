package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

func TestIdempotencyStore_SaveAndConflict(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()

	missing, err := store.Get(ctx, "u-1", "k")
	require.NoError(t, err)
	assert.Nil(t, missing)

	record := ports.CheckoutKey{OwnerID: "u-1", Key: "k", RequestHash: "h1", OrderID: "o-1"}
	_, err = store.Save(ctx, record)
	require.NoError(t, err)

	same, err := store.Save(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, "o-1", same.OrderID)

	record.RequestHash = "h2"
	existing, err := store.Save(ctx, record)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, "h1", existing.RequestHash)

	other, err := store.Get(ctx, "u-2", "k")
	require.NoError(t, err)
	assert.Nil(t, other)
}
