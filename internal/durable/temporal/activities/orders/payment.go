package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/onecart/storefront-api/internal/domains/orders/application"
	orderstypes "github.com/onecart/storefront-api/internal/domains/orders/application/types"
	ordersports "github.com/onecart/storefront-api/internal/domains/orders/ports"
)

const (
	// ConfirmPaymentActivityName reconciles a gateway intent with its order.
	ConfirmPaymentActivityName = "orders.activities.ConfirmPayment"
)

// Application error types carried across the workflow boundary.
const (
	ErrorTypeNotFound          = "OrderNotFound"
	ErrorTypePaymentIncomplete = "PaymentIncomplete"
	ErrorTypeInvalidInput      = "InvalidOrderInput"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// ConfirmPayment runs the payment confirmation use case. Outcomes that a retry
// cannot change are returned as non-retryable application errors.
func (a *Activities) ConfirmPayment(ctx context.Context, input orderstypes.ConfirmPaymentInput) (*orderstypes.PaymentConfirmation, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("confirm payment activity not initialized", "reference", input.GatewayReference)
		return nil, errors.New("confirm payment activity not initialized")
	}
	logger.Info("ConfirmPayment activity started", "reference", input.GatewayReference)
	result, err := a.service.ConfirmGatewayPayment(ctx, input)
	if err != nil {
		logger.Error("ConfirmPayment activity failed", "reference", input.GatewayReference, "error", err)
		return nil, classify(err)
	}
	logger.Info("ConfirmPayment activity completed", "orderId", result.OrderID, "alreadyPaid", result.AlreadyPaid)
	return result, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ordersapp.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeNotFound, err)
	case errors.Is(err, ordersapp.ErrPaymentIncomplete):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypePaymentIncomplete, err)
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeInvalidInput, err)
	}
	return err
}
