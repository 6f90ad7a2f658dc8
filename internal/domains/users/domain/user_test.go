package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_NormalizesEmail(t *testing.T) {
	user, err := NewUser("u-1", " Asha ", " Asha@Example.COM ", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.NotNil(t, user.Cart)

	_, err = NewUser("u-2", "", "a@b.c", time.Now())
	require.ErrorIs(t, err, ErrEmptyName)
	_, err = NewUser("u-2", "Bo", "not-an-email", time.Now())
	require.ErrorIs(t, err, ErrInvalidEmail)
}

func TestSetPassword(t *testing.T) {
	user, err := NewUser("u-1", "Asha", "asha@example.com", time.Now())
	require.NoError(t, err)

	require.ErrorIs(t, user.SetPassword("short"), ErrWeakPassword)
	require.ErrorIs(t, user.SetPassword("   "), ErrEmptyPassword)
	assert.False(t, user.HasProvider(ProviderPassword))

	require.NoError(t, user.SetPassword("correct-horse"))
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.True(t, user.CheckPassword("correct-horse"))
	assert.False(t, user.CheckPassword("wrong-horse"))
	assert.True(t, user.HasProvider(ProviderPassword))
}

func TestLinkProvider(t *testing.T) {
	user := &User{}
	assert.True(t, user.LinkProvider(ProviderGoogle))
	assert.False(t, user.LinkProvider(ProviderGoogle))
	assert.False(t, user.CheckPassword("anything"))
}

func TestCart(t *testing.T) {
	cart := Cart{}
	require.NoError(t, cart.Add("p-1", "M"))
	require.NoError(t, cart.Add("p-1", "M"))
	require.NoError(t, cart.Add("p-1", "L"))
	assert.Equal(t, 2, cart["p-1"]["M"])
	assert.Equal(t, 3, cart.Count())

	clone := cart.Clone()
	require.NoError(t, cart.Set("p-1", "M", 5))
	assert.Equal(t, 2, clone["p-1"]["M"])

	require.NoError(t, cart.Set("p-1", "M", 0))
	require.NoError(t, cart.Set("p-1", "L", 0))
	assert.Empty(t, cart)

	require.ErrorIs(t, cart.Add("", "M"), ErrEmptyProduct)
	require.ErrorIs(t, cart.Set("p-1", " ", 1), ErrEmptySize)
	require.ErrorIs(t, cart.Set("p-1", "M", -1), ErrNegativeQuantity)
}
