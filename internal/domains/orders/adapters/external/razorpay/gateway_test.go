package razorpay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rzp "github.com/onecart/storefront-api/internal/clients/http/razorpay"
	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

type stubOrderAPI struct {
	lastRequest rzp.OrderRequest
	orders      map[string]*rzp.Order
	fetchErr    error
}

func (s *stubOrderAPI) CreateOrder(_ context.Context, req rzp.OrderRequest) (*rzp.Order, error) {
	s.lastRequest = req
	order := &rzp.Order{ID: "order_1", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrderAPI) FetchOrder(_ context.Context, id string) (*rzp.Order, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	order, ok := s.orders[id]
	if !ok {
		return nil, rzp.ErrOrderNotFound
	}
	return order, nil
}

func TestGateway_CreateAndFetch(t *testing.T) {
	api := &stubOrderAPI{orders: map[string]*rzp.Order{}}
	gw := NewGateway(api)
	ctx := context.Background()

	intent, err := gw.CreatePaymentIntent(ctx, 50000, "INR", "o-1")
	require.NoError(t, err)
	assert.Equal(t, rzp.OrderRequest{Amount: 50000, Currency: "INR", Receipt: "o-1"}, api.lastRequest)
	assert.False(t, intent.Paid())

	api.orders["order_1"].Status = "paid"
	fetched, err := gw.FetchPaymentIntent(ctx, "order_1")
	require.NoError(t, err)
	assert.True(t, fetched.Paid())
	assert.Equal(t, "o-1", fetched.Receipt)
}

func TestGateway_FetchErrors(t *testing.T) {
	api := &stubOrderAPI{orders: map[string]*rzp.Order{}}
	gw := NewGateway(api)

	_, err := gw.FetchPaymentIntent(context.Background(), "order_missing")
	require.ErrorIs(t, err, ports.ErrIntentNotFound)

	api.fetchErr = errors.New("connection reset")
	_, err = gw.FetchPaymentIntent(context.Background(), "order_1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrIntentNotFound)
}
