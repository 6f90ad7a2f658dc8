//go:build integration

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/onecart/storefront-api/internal/domains/users/domain"
	"github.com/onecart/storefront-api/internal/domains/users/ports"
	platformmongo "github.com/onecart/storefront-api/internal/platform/mongo"
)

func setupUsersMongoContainer(t *testing.T) (*mongo.Database, func()) {
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

func TestRepository_UniqueEmailAndCart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.EnsureIndexes(ctx))

	now := time.Now().UTC().Truncate(time.Millisecond)
	user, err := domain.NewUser("u-1", "Asha", "asha@example.com", now)
	require.NoError(t, err)
	require.NoError(t, user.SetPassword("sup3rsecret"))
	_, err = repo.Create(ctx, user)
	require.NoError(t, err)

	dup, err := domain.NewUser("u-2", "Other", "Asha@Example.com", now)
	require.NoError(t, err)
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, ports.ErrDuplicateEmail)

	require.NoError(t, user.Cart.Set("p-9", "S", 4))
	user.LinkProvider(domain.ProviderGoogle)
	_, err = repo.Update(ctx, user)
	require.NoError(t, err)

	fetched, err := repo.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, 4, fetched.Cart["p-9"]["S"])
	assert.True(t, fetched.HasProvider(domain.ProviderGoogle))
	assert.True(t, fetched.CheckPassword("sup3rsecret"))

	ghost, err := domain.NewUser("ghost", "Ghost", "ghost@example.com", now)
	require.NoError(t, err)
	_, err = repo.Update(ctx, ghost)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
