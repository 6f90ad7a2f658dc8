package ports

import (
	"context"

	"github.com/onecart/storefront-api/internal/domains/orders/application/types"
	"github.com/onecart/storefront-api/internal/domains/orders/domain"
)

// Service exposes order lifecycle use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error)
	PlaceGatewayOrder(ctx context.Context, input types.PlaceOrderInput) (*types.GatewayCheckout, error)
	ConfirmGatewayPayment(ctx context.Context, input types.ConfirmPaymentInput) (*types.PaymentConfirmation, error)
	ListOwnerOrders(ctx context.Context, ownerID string) ([]*domain.Order, error)
	ListAllOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*domain.Order, error)
	CancelOrder(ctx context.Context, input types.CancelOrderInput) (*domain.Order, error)
	ListUnpaidGatewayOrders(ctx context.Context, input types.UnpaidOrdersQuery) ([]*domain.Order, error)
}
