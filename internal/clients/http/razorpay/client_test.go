package razorpay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	created  map[string]interface{}
	fetchErr error
	body     map[string]interface{}
}

func (f *fakeOrders) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	f.created = data
	return map[string]interface{}{
		"id":       "order_Abc123",
		"entity":   "order",
		"amount":   float64(data["amount"].(int64)),
		"currency": data["currency"],
		"receipt":  data["receipt"],
		"status":   "created",
	}, nil
}

func (f *fakeOrders) Fetch(_ string, _ map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.body, nil
}

func TestNewClient_RequiresKeys(t *testing.T) {
	_, err := NewClient("", "secret")
	require.Error(t, err)

	client, err := NewClient("rzp_test_key", "secret")
	require.NoError(t, err)
	assert.NotNil(t, client.orders)
}

func TestCreateOrder_DecodesResponse(t *testing.T) {
	fake := &fakeOrders{}
	client := &Client{orders: fake}

	order, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 50000, Currency: "INR", Receipt: "o-1"})
	require.NoError(t, err)

	assert.Equal(t, "order_Abc123", order.ID)
	assert.Equal(t, int64(50000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "o-1", order.Receipt)
	assert.Equal(t, "o-1", fake.created["receipt"])
	assert.NotContains(t, fake.created, "notes")
}

func TestCreateOrder_RespectsCancelledContext(t *testing.T) {
	client := &Client{orders: &fakeOrders{}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CreateOrder(ctx, OrderRequest{Amount: 1, Currency: "INR"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestFetchOrder(t *testing.T) {
	fake := &fakeOrders{body: map[string]interface{}{
		"id":          "order_Abc123",
		"amount":      float64(1999),
		"amount_paid": float64(1999),
		"currency":    "INR",
		"receipt":     "o-9",
		"status":      "paid",
		"attempts":    float64(1),
	}}
	client := &Client{orders: fake}

	order, err := client.FetchOrder(context.Background(), "order_Abc123")
	require.NoError(t, err)
	assert.Equal(t, "paid", order.Status)
	assert.Equal(t, int64(1999), order.AmountPaid)
	assert.Equal(t, "o-9", order.Receipt)

	fake.fetchErr = errors.New("BAD_REQUEST_ERROR: The id provided does not exist")
	_, err = client.FetchOrder(context.Background(), "order_missing")
	require.ErrorIs(t, err, ErrOrderNotFound)

	fake.fetchErr = errors.New("SERVER_ERROR: gateway unavailable")
	_, err = client.FetchOrder(context.Background(), "order_Abc123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrOrderNotFound)

	_, err = client.FetchOrder(context.Background(), " ")
	require.ErrorIs(t, err, ErrOrderNotFound)
}
