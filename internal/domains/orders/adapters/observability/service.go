package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/onecart/storefront-api/internal/domains/orders/application/types"
	"github.com/onecart/storefront-api/internal/domains/orders/domain"
	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

const tracerName = "github.com/onecart/storefront-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder",
		trace.WithAttributes(attribute.String("order.owner_id", input.OwnerID), attribute.Int("order.items", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("order.owner_id", input.OwnerID), slog.String("order.amount", input.Amount.String()))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("order.owner_id", input.OwnerID))
	}
	span.SetAttributes(attribute.String("order.id", result.ID))
	s.metrics.recordPlaced(ctx, result.PaymentMethod)
	s.logInfo(ctx, "order placed", slog.String("order.id", result.ID), slog.String("order.payment_method", string(result.PaymentMethod)))
	return result, nil
}

func (s *Service) PlaceGatewayOrder(ctx context.Context, input types.PlaceOrderInput) (*types.GatewayCheckout, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceGatewayOrder",
		trace.WithAttributes(attribute.String("order.owner_id", input.OwnerID), attribute.Int("order.items", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "placing gateway order", slog.String("order.owner_id", input.OwnerID), slog.String("order.amount", input.Amount.String()))
	result, err := s.inner.PlaceGatewayOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place gateway order", slog.String("order.owner_id", input.OwnerID))
	}
	span.SetAttributes(attribute.String("order.id", result.Order.ID), attribute.String("payment.intent_id", result.Intent.ID))
	s.metrics.recordPlaced(ctx, result.Order.PaymentMethod)
	s.logInfo(ctx, "gateway order placed",
		slog.String("order.id", result.Order.ID),
		slog.String("payment.intent_id", result.Intent.ID),
		slog.Int64("payment.amount_minor", result.Intent.AmountMinorUnits))
	return result, nil
}

func (s *Service) ConfirmGatewayPayment(ctx context.Context, input types.ConfirmPaymentInput) (*types.PaymentConfirmation, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ConfirmGatewayPayment",
		trace.WithAttributes(attribute.String("payment.reference", input.GatewayReference)))
	defer span.End()

	s.logInfo(ctx, "confirming gateway payment", slog.String("payment.reference", input.GatewayReference))
	result, err := s.inner.ConfirmGatewayPayment(ctx, input)
	if err != nil {
		s.metrics.recordConfirmation(ctx, "failed")
		return nil, s.handleError(ctx, span, err, "failed to confirm payment", slog.String("payment.reference", input.GatewayReference))
	}
	outcome := "paid"
	if result.AlreadyPaid {
		outcome = "already_paid"
	}
	s.metrics.recordConfirmation(ctx, outcome)
	s.logInfo(ctx, "payment confirmed", slog.String("order.id", result.OrderID), slog.String("payment.outcome", outcome))
	return result, nil
}

func (s *Service) ListOwnerOrders(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOwnerOrders", trace.WithAttributes(attribute.String("order.owner_id", ownerID)))
	defer span.End()

	result, err := s.inner.ListOwnerOrders(ctx, ownerID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list owner orders", slog.String("order.owner_id", ownerID))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListAllOrders")
	defer span.End()

	result, err := s.inner.ListAllOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", orderID))
	}
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateStatus",
		trace.WithAttributes(attribute.String("order.id", input.OrderID), attribute.String("order.status", input.Status)))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.String("order.id", input.OrderID), slog.String("order.status", input.Status))
	result, err := s.inner.UpdateStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "order status updated", slog.String("order.id", result.ID), slog.String("order.status", string(result.Status)))
	return result, nil
}

func (s *Service) CancelOrder(ctx context.Context, input types.CancelOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.CancelOrder", trace.WithAttributes(attribute.String("order.id", input.OrderID)))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.String("order.id", input.OrderID), slog.String("order.owner_id", input.OwnerID))
	result, err := s.inner.CancelOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "order cancelled", slog.String("order.id", result.ID), slog.String("order.status", string(result.Status)))
	return result, nil
}

func (s *Service) ListUnpaidGatewayOrders(ctx context.Context, input types.UnpaidOrdersQuery) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListUnpaidGatewayOrders",
		trace.WithAttributes(attribute.String("query.older_than", input.OlderThan.String())))
	defer span.End()

	result, err := s.inner.ListUnpaidGatewayOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list unpaid orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	s.logInfo(ctx, "unpaid gateway orders listed", slog.Int("order.count", len(result)), slog.Duration("query.older_than", input.OlderThan))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced         metric.Int64Counter
	paymentConfirmations metric.Int64Counter
	statusTransitions    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	confirmations, _ := m.Int64Counter("orders.service.payment_confirmations", metric.WithDescription("Gateway payment confirmations by outcome"))
	transitions, _ := m.Int64Counter("orders.service.status_transitions", metric.WithDescription("Order status writes by target status"))
	return serviceMetrics{ordersPlaced: ordersPlaced, paymentConfirmations: confirmations, statusTransitions: transitions}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, method domain.PaymentMethod) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.payment_method", string(method))))
	}
}

func (m serviceMetrics) recordConfirmation(ctx context.Context, outcome string) {
	if m.paymentConfirmations != nil {
		m.paymentConfirmations.Add(ctx, 1, metric.WithAttributes(attribute.String("payment.outcome", outcome)))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status domain.Status) {
	if m.statusTransitions != nil {
		m.statusTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

var _ ports.Service = (*Service)(nil)
