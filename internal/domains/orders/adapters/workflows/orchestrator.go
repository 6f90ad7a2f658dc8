package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/onecart/storefront-api/internal/domains/orders/application"
	orderstypes "github.com/onecart/storefront-api/internal/domains/orders/application/types"
	"github.com/onecart/storefront-api/internal/domains/orders/ports"
	orderactivities "github.com/onecart/storefront-api/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/onecart/storefront-api/internal/durable/temporal/workflows/orders"
)

var (
	_ ports.PaymentWorkflows = (*TemporalPaymentWorkflows)(nil)
	_ ports.PaymentWorkflows = (*InlinePaymentWorkflows)(nil)
)

// TemporalPaymentWorkflows runs payment confirmation on a Temporal cluster.
type TemporalPaymentWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalPaymentWorkflows wires a Temporal client into the orchestrator.
func NewTemporalPaymentWorkflows(c client.Client) *TemporalPaymentWorkflows {
	return &TemporalPaymentWorkflows{client: c, taskQueue: orderworkflows.PaymentConfirmationTaskQueue}
}

// ConfirmPayment starts (or joins) the confirmation workflow for the reference
// and waits for its outcome.
func (o *TemporalPaymentWorkflows) ConfirmPayment(ctx context.Context, input orderstypes.ConfirmPaymentInput) (*orderstypes.PaymentConfirmation, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal payment workflows not configured")
	}
	reference := strings.TrimSpace(input.GatewayReference)
	if reference == "" {
		return nil, fmt.Errorf("%w: gateway reference is required", ordersapp.ErrNotFound)
	}
	input.GatewayReference = reference
	workflowID := PaymentConfirmationWorkflowID(input.OwnerID, reference)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.PaymentConfirmationWorkflowName,
		orderworkflows.PaymentConfirmationWorkflowInput{Command: input, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var confirmation orderstypes.PaymentConfirmation
	if err := run.Get(ctx, &confirmation); err != nil {
		return nil, restoreError(err)
	}
	return &confirmation, nil
}

// InlinePaymentWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlinePaymentWorkflows struct {
	service ports.Service
}

// NewInlinePaymentWorkflows wraps the orders service for synchronous execution.
func NewInlinePaymentWorkflows(service ports.Service) *InlinePaymentWorkflows {
	return &InlinePaymentWorkflows{service: service}
}

// ConfirmPayment delegates to the application service without durable orchestration.
func (o *InlinePaymentWorkflows) ConfirmPayment(ctx context.Context, input orderstypes.ConfirmPaymentInput) (*orderstypes.PaymentConfirmation, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline payment workflows not configured")
	}
	return o.service.ConfirmGatewayPayment(ctx, input)
}

// PaymentConfirmationWorkflowID derives a stable workflow id so concurrent
// confirmations of one reference by one owner share a run. Other owners get
// their own run and the ownership check inside it.
func PaymentConfirmationWorkflowID(ownerID, reference string) string {
	sum := sha256.Sum256([]byte(ownerID + "\x00" + reference))
	return fmt.Sprintf("payment-confirmation-%s", hex.EncodeToString(sum[:8]))
}

// restoreError maps application error types raised by the activity back onto
// the orders sentinels so callers can classify them.
func restoreError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case orderactivities.ErrorTypeNotFound:
		return fmt.Errorf("%w: %s", ordersapp.ErrNotFound, appErr.Message())
	case orderactivities.ErrorTypePaymentIncomplete:
		return fmt.Errorf("%w: %s", ordersapp.ErrPaymentIncomplete, appErr.Message())
	case orderactivities.ErrorTypeInvalidInput:
		return fmt.Errorf("%w: %s", ordersapp.ErrInvalidInput, appErr.Message())
	}
	return err
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
