package orders

import (
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/onecart/storefront-api/internal/domains/orders/application/types"
	"github.com/onecart/storefront-api/internal/durable/temporal/sequences"
)

const (
	// PaymentConfirmationWorkflowName is the public identifier for registering the workflow.
	PaymentConfirmationWorkflowName = "orders.workflows.PaymentConfirmation"
	// PaymentConfirmationTaskQueue is the queue consumed by the worker processing payment workflows.
	PaymentConfirmationTaskQueue = "ORDER_PAYMENTS"
)

// PaymentConfirmationWorkflowInput captures the reference to reconcile.
type PaymentConfirmationWorkflowInput struct {
	Command orderstypes.ConfirmPaymentInput
	TraceID string
}

// PaymentConfirmationWorkflow reconciles a gateway intent with its order.
func PaymentConfirmationWorkflow(ctx workflow.Context, input PaymentConfirmationWorkflowInput) (*orderstypes.PaymentConfirmation, error) {
	logger := workflow.GetLogger(ctx)
	reference := input.Command.GatewayReference
	logger.Info("PaymentConfirmationWorkflow started", withTraceID(input.TraceID, "reference", reference)...)
	confirmation, err := sequences.RunPaymentConfirmationSequence(ctx, input.Command)
	if err != nil {
		logger.Error("PaymentConfirmationWorkflow failed", withTraceID(input.TraceID, "reference", reference, "error", err)...)
		return nil, err
	}
	logger.Info("PaymentConfirmationWorkflow completed", withTraceID(input.TraceID, "orderId", confirmation.OrderID)...)
	return confirmation, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
