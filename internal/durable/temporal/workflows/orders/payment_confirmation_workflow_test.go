package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	ordersmemory "github.com/onecart/storefront-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/onecart/storefront-api/internal/domains/orders/application"
	orderstypes "github.com/onecart/storefront-api/internal/domains/orders/application/types"
	orderactivities "github.com/onecart/storefront-api/internal/durable/temporal/activities/orders"
)

type harness struct {
	env     *testsuite.TestWorkflowEnvironment
	service *ordersapp.Service
	gateway *ordersmemory.PaymentGateway
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	gateway := ordersmemory.NewPaymentGateway()
	service := ordersapp.NewService(ordersmemory.NewRepository(), gateway)
	activities := orderactivities.NewActivities(service)

	env.RegisterWorkflowWithOptions(PaymentConfirmationWorkflow, workflow.RegisterOptions{Name: PaymentConfirmationWorkflowName})
	env.RegisterActivityWithOptions(activities.ConfirmPayment, activity.RegisterOptions{Name: orderactivities.ConfirmPaymentActivityName})
	return &harness{env: env, service: service, gateway: gateway}
}

func (h *harness) checkout(t *testing.T) *orderstypes.GatewayCheckout {
	t.Helper()
	checkout, err := h.service.PlaceGatewayOrder(context.Background(), orderstypes.PlaceOrderInput{
		OwnerID: "u-1",
		Items:   []orderstypes.LineItemInput{{ProductID: "p-1", Quantity: 1, Price: decimal.NewFromInt(750)}},
		Amount:  decimal.NewFromInt(750),
	})
	require.NoError(t, err)
	return checkout
}

func TestPaymentConfirmationWorkflow_MarksOrderPaid(t *testing.T) {
	h := newHarness(t)
	checkout := h.checkout(t)
	require.NoError(t, h.gateway.MarkPaid(checkout.Intent.ID))

	h.env.ExecuteWorkflow(PaymentConfirmationWorkflowName, PaymentConfirmationWorkflowInput{
		Command: orderstypes.ConfirmPaymentInput{OwnerID: "u-1", GatewayReference: checkout.Intent.ID},
	})

	require.True(t, h.env.IsWorkflowCompleted())
	require.NoError(t, h.env.GetWorkflowError())
	var result orderstypes.PaymentConfirmation
	require.NoError(t, h.env.GetWorkflowResult(&result))
	assert.Equal(t, checkout.Order.ID, result.OrderID)
	assert.True(t, result.Paid)

	stored, err := h.service.GetOrder(context.Background(), checkout.Order.ID)
	require.NoError(t, err)
	assert.True(t, stored.Paid)
}

func TestPaymentConfirmationWorkflow_UnpaidIsNotRetried(t *testing.T) {
	h := newHarness(t)
	checkout := h.checkout(t)

	h.env.ExecuteWorkflow(PaymentConfirmationWorkflowName, PaymentConfirmationWorkflowInput{
		Command: orderstypes.ConfirmPaymentInput{OwnerID: "u-1", GatewayReference: checkout.Intent.ID},
	})

	require.True(t, h.env.IsWorkflowCompleted())
	err := h.env.GetWorkflowError()
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, orderactivities.ErrorTypePaymentIncomplete, appErr.Type())
	assert.True(t, appErr.NonRetryable())

	stored, getErr := h.service.GetOrder(context.Background(), checkout.Order.ID)
	require.NoError(t, getErr)
	assert.False(t, stored.Paid)
}
