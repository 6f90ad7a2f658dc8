package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/onecart/storefront-api/internal/app/bootstrap"
	orderactivities "github.com/onecart/storefront-api/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/onecart/storefront-api/internal/durable/temporal/workflows/orders"
	platformobservability "github.com/onecart/storefront-api/internal/platform/observability"
)

const serviceName = "storefront-worker"

// Run polls the payment confirmation task queue until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()
	if stores.Backend == bootstrap.BackendMemory {
		logger.Warn("worker is using in-memory stores; confirmations will not be visible to the API")
	}
	services, err := bootstrap.BuildServices(cfg, stores, instruments)
	if err != nil {
		return err
	}

	temporalClient, err := bootstrap.DialTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := newWorker(temporalClient, orderactivities.NewActivities(services.Orders))
	if err := w.Start(); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	logger.Info("worker listening",
		slog.String("taskQueue", orderworkflows.PaymentConfirmationTaskQueue),
		slog.String("namespace", cfg.TemporalNamespace))
	<-ctx.Done()
	w.Stop()
	logger.Info("Temporal worker stopped")
	return nil
}

// registrar is the subset of sdkworker.Worker used for registration.
type registrar interface {
	RegisterWorkflowWithOptions(w interface{}, options workflow.RegisterOptions)
	RegisterActivityWithOptions(a interface{}, options activity.RegisterOptions)
}

func newWorker(c client.Client, activities *orderactivities.Activities) sdkworker.Worker {
	w := sdkworker.New(c, orderworkflows.PaymentConfirmationTaskQueue, sdkworker.Options{})
	register(w, activities)
	return w
}

func register(r registrar, activities *orderactivities.Activities) {
	r.RegisterWorkflowWithOptions(orderworkflows.PaymentConfirmationWorkflow, workflow.RegisterOptions{Name: orderworkflows.PaymentConfirmationWorkflowName})
	r.RegisterActivityWithOptions(activities.ConfirmPayment, activity.RegisterOptions{Name: orderactivities.ConfirmPaymentActivityName})
}
