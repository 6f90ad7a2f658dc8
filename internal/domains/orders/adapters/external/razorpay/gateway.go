package razorpay

import (
	"context"
	"errors"
	"fmt"

	rzp "github.com/onecart/storefront-api/internal/clients/http/razorpay"
	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

// OrderAPI is the Razorpay client surface the gateway needs.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req rzp.OrderRequest) (*rzp.Order, error)
	FetchOrder(ctx context.Context, orderID string) (*rzp.Order, error)
}

var _ OrderAPI = (*rzp.Client)(nil)

// Gateway adapts Razorpay orders to the payment gateway port. A Razorpay order
// plays the role of the payment intent and its receipt carries our order id.
type Gateway struct {
	api OrderAPI
}

var _ ports.PaymentGateway = (*Gateway)(nil)

// NewGateway wires the gateway around a Razorpay client.
func NewGateway(api OrderAPI) *Gateway {
	return &Gateway{api: api}
}

func (g *Gateway) CreatePaymentIntent(ctx context.Context, amountMinorUnits int64, currency, receipt string) (*ports.PaymentIntent, error) {
	if g == nil || g.api == nil {
		return nil, errors.New("razorpay gateway not configured")
	}
	order, err := g.api.CreateOrder(ctx, rzp.OrderRequest{
		Amount:   amountMinorUnits,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, err
	}
	return toIntent(order), nil
}

func (g *Gateway) FetchPaymentIntent(ctx context.Context, intentID string) (*ports.PaymentIntent, error) {
	if g == nil || g.api == nil {
		return nil, errors.New("razorpay gateway not configured")
	}
	order, err := g.api.FetchOrder(ctx, intentID)
	if err != nil {
		if errors.Is(err, rzp.ErrOrderNotFound) {
			return nil, fmt.Errorf("%w: %w", ports.ErrIntentNotFound, err)
		}
		return nil, err
	}
	return toIntent(order), nil
}

func toIntent(order *rzp.Order) *ports.PaymentIntent {
	return &ports.PaymentIntent{
		ID:               order.ID,
		AmountMinorUnits: order.Amount,
		Currency:         order.Currency,
		Receipt:          order.Receipt,
		Status:           order.Status,
	}
}
