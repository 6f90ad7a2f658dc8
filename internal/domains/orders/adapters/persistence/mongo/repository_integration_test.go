//go:build integration

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/onecart/storefront-api/internal/domains/orders/domain"
	"github.com/onecart/storefront-api/internal/domains/orders/ports"
	platformmongo "github.com/onecart/storefront-api/internal/platform/mongo"
)

func setupOrdersMongoContainer(t *testing.T) (*mongo.Database, func()) {
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := platformmongo.Connect(ctx, uri)
	require.NoError(t, err)

	cleanup := func() {
		_ = client.Disconnect(ctx)
		container.Terminate(ctx)
	}
	return client.Database("storefront_test"), cleanup
}

func newDocOrder(t *testing.T, owner string, method domain.PaymentMethod, createdAt time.Time) *domain.Order {
	t.Helper()
	items := []domain.LineItem{{ProductID: "p-1", Name: "Kurta", Size: "S", Quantity: 3, Price: decimal.RequireFromString("333.33")}}
	order, err := domain.NewOrder(uuid.NewString(), owner, items, decimal.RequireFromString("999.99"), domain.Address{City: "Delhi"}, method, createdAt.UTC().Truncate(time.Millisecond))
	require.NoError(t, err)
	return order
}

func TestRepository_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.EnsureIndexes(ctx))

	order := newDocOrder(t, "u-1", domain.PaymentGateway, time.Now())
	saved, err := repo.Create(ctx, order)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("999.99").Equal(saved.Amount))
	assert.True(t, decimal.RequireFromString("333.33").Equal(saved.Items[0].Price))
	assert.Equal(t, "Delhi", saved.Address.City)
	assert.Equal(t, int64(1), saved.Version)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UpdateWithVersion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Create(ctx, newDocOrder(t, "u-1", domain.PaymentGateway, time.Now()))
	require.NoError(t, err)
	stale := *saved

	_, err = saved.Cancel()
	require.NoError(t, err)
	updated, err := repo.Update(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefundProcessing, updated.Status)
	assert.Equal(t, int64(2), updated.Version)

	stale.MarkPaid()
	_, err = repo.Update(ctx, &stale)
	assert.ErrorIs(t, err, ports.ErrVersionConflict)
}

func TestRepository_ListQueries(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	old := newDocOrder(t, "u-1", domain.PaymentGateway, now.Add(-2*time.Hour))
	for _, o := range []*domain.Order{
		old,
		newDocOrder(t, "u-1", domain.PaymentCashOnDelivery, now.Add(-time.Hour)),
		newDocOrder(t, "u-2", domain.PaymentGateway, now),
	} {
		_, err := repo.Create(ctx, o)
		require.NoError(t, err)
	}

	owned, err := repo.ListByOwner(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.True(t, owned[0].CreatedAt.After(owned[1].CreatedAt))

	unpaid, err := repo.ListUnpaid(ctx, domain.PaymentGateway, now.Add(-30*time.Minute))
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, old.ID, unpaid[0].ID)
}
