//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/onecart/storefront-api/internal/domains/users/ports"
	platformredis "github.com/onecart/storefront-api/internal/platform/redis"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	defer container.Terminate(ctx)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := platformredis.Connect(ctx, platformredis.Options{Addr: endpoint})
	require.NoError(t, err)
	defer client.Close()

	store := NewSessionStore(client)
	now := time.Now()

	require.NoError(t, store.Save(ctx, ports.Session{Token: "live", UserID: "u-1", Role: ports.RoleUser, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, ports.Session{Token: "stale", UserID: "u-1", Role: ports.RoleUser, ExpiresAt: now.Add(-time.Second)}))

	ok, err := store.Exists(ctx, "live")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := client.TTL(ctx, "session:live").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, store.Delete(ctx, "live"))
	ok, err = store.Exists(ctx, "live")
	require.NoError(t, err)
	assert.False(t, ok)
}
