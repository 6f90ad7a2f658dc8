package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/onecart/storefront-api/internal/domains/orders/application/types"
	orderactivities "github.com/onecart/storefront-api/internal/durable/temporal/activities/orders"
)

// RunPaymentConfirmationSequence executes the activities that reconcile a gateway payment.
func RunPaymentConfirmationSequence(ctx workflow.Context, input orderstypes.ConfirmPaymentInput) (*orderstypes.PaymentConfirmation, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("payment confirmation sequence started", "reference", input.GatewayReference)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				orderactivities.ErrorTypeNotFound,
				orderactivities.ErrorTypePaymentIncomplete,
				orderactivities.ErrorTypeInvalidInput,
			},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var confirmation orderstypes.PaymentConfirmation
	err := workflow.ExecuteActivity(ctx, orderactivities.ConfirmPaymentActivityName, input).Get(ctx, &confirmation)
	if err != nil {
		logger.Error("payment confirmation sequence failed", "reference", input.GatewayReference, "error", err)
		return nil, err
	}
	logger.Info("payment confirmation sequence completed", "orderId", confirmation.OrderID)
	return &confirmation, nil
}
