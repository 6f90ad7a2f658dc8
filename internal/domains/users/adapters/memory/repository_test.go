package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onecart/storefront-api/internal/domains/users/domain"
	"github.com/onecart/storefront-api/internal/domains/users/ports"
)

func newUser(t *testing.T, id, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(id, "Asha", email, time.Now())
	require.NoError(t, err)
	return user
}

func TestRepository_CreateAndLookup(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	saved, err := repo.Create(ctx, newUser(t, "u-1", "asha@example.com"))
	require.NoError(t, err)

	require.NoError(t, saved.Cart.Add("p-1", "M"))
	fetched, err := repo.GetByEmail(ctx, "Asha@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", fetched.ID)
	assert.Empty(t, fetched.Cart)

	_, err = repo.Create(ctx, newUser(t, "u-2", "ASHA@example.com"))
	require.ErrorIs(t, err, ports.ErrDuplicateEmail)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_Update(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	_, err := repo.Create(ctx, newUser(t, "u-1", "asha@example.com"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newUser(t, "u-2", "ravi@example.com"))
	require.NoError(t, err)

	user, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	require.NoError(t, user.Cart.Set("p-1", "L", 2))
	user.Email = "asha.new@example.com"

	updated, err := repo.Update(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Cart["p-1"]["L"])

	_, err = repo.GetByEmail(ctx, "asha@example.com")
	require.ErrorIs(t, err, ports.ErrNotFound)

	user.Email = "ravi@example.com"
	_, err = repo.Update(ctx, user)
	require.ErrorIs(t, err, ports.ErrDuplicateEmail)

	_, err = repo.Update(ctx, newUser(t, "ghost", "ghost@example.com"))
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSessionStore_ExpiryAndPurge(t *testing.T) {
	store := NewSessionStore()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, ports.Session{Token: "live", UserID: "u-1", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, ports.Session{Token: "stale-1", UserID: "u-1", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, store.Save(ctx, ports.Session{Token: "stale-2", UserID: "u-2", ExpiresAt: now}))

	ok, err := store.Exists(ctx, "live")
	require.NoError(t, err)
	assert.True(t, ok)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	require.NoError(t, store.Delete(ctx, "live"))
	ok, err = store.Exists(ctx, "live")
	require.NoError(t, err)
	assert.False(t, ok)
}
