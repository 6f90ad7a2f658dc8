package workflows

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	ordersmemory "github.com/onecart/storefront-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/onecart/storefront-api/internal/domains/orders/application"
	orderstypes "github.com/onecart/storefront-api/internal/domains/orders/application/types"
	orderactivities "github.com/onecart/storefront-api/internal/durable/temporal/activities/orders"
)

func TestPaymentConfirmationWorkflowID_IsStable(t *testing.T) {
	first := PaymentConfirmationWorkflowID("u-1", "order_Abc")
	assert.Equal(t, first, PaymentConfirmationWorkflowID("u-1", "order_Abc"))
	assert.NotEqual(t, first, PaymentConfirmationWorkflowID("u-1", "order_Xyz"))
	assert.True(t, strings.HasPrefix(first, "payment-confirmation-"))
	assert.Len(t, strings.TrimPrefix(first, "payment-confirmation-"), 16)
}

func TestPaymentConfirmationWorkflowID_ScopedPerOwner(t *testing.T) {
	owner := PaymentConfirmationWorkflowID("u-1", "order_Abc")
	intruder := PaymentConfirmationWorkflowID("u-2", "order_Abc")
	assert.NotEqual(t, owner, intruder)
	assert.NotEqual(t, PaymentConfirmationWorkflowID("u-1x", "order"), PaymentConfirmationWorkflowID("u-1", "xorder"))
}

func TestRestoreError(t *testing.T) {
	notFound := temporal.NewNonRetryableApplicationError("gone", orderactivities.ErrorTypeNotFound, nil)
	assert.ErrorIs(t, restoreError(notFound), ordersapp.ErrNotFound)

	incomplete := temporal.NewNonRetryableApplicationError("pending", orderactivities.ErrorTypePaymentIncomplete, nil)
	assert.ErrorIs(t, restoreError(incomplete), ordersapp.ErrPaymentIncomplete)

	plain := errors.New("boom")
	assert.Equal(t, plain, restoreError(plain))
}

func TestInlinePaymentWorkflows_DelegatesToService(t *testing.T) {
	gateway := ordersmemory.NewPaymentGateway()
	service := ordersapp.NewService(ordersmemory.NewRepository(), gateway)
	ctx := context.Background()
	checkout, err := service.PlaceGatewayOrder(ctx, orderstypes.PlaceOrderInput{
		OwnerID: "u-1",
		Items:   []orderstypes.LineItemInput{{ProductID: "p-1", Quantity: 1, Price: decimal.NewFromInt(10)}},
		Amount:  decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	require.NoError(t, gateway.MarkPaid(checkout.Intent.ID))

	inline := NewInlinePaymentWorkflows(service)
	result, err := inline.ConfirmPayment(ctx, orderstypes.ConfirmPaymentInput{OwnerID: "u-1", GatewayReference: checkout.Intent.ID})
	require.NoError(t, err)
	assert.Equal(t, checkout.Order.ID, result.OrderID)

	var unset *InlinePaymentWorkflows
	_, err = unset.ConfirmPayment(ctx, orderstypes.ConfirmPaymentInput{})
	require.Error(t, err)
}
