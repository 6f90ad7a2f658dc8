package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/onecart/storefront-api/internal/domains/users/application/types"
	userdomain "github.com/onecart/storefront-api/internal/domains/users/domain"
	userports "github.com/onecart/storefront-api/internal/domains/users/ports"
)

const tracerName = "github.com/onecart/storefront-api/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Register(ctx context.Context, input types.RegisterInput) (*types.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register")
	defer span.End()
	result, err := s.inner.Register(ctx, input)
	if err != nil {
		s.metrics.recordLogin(ctx, "register", false)
		return nil, s.handleError(ctx, span, err, "registration failed")
	}
	span.SetAttributes(attribute.String("user.id", result.User.ID))
	s.metrics.recordRegistered(ctx)
	s.metrics.recordLogin(ctx, "register", true)
	s.logInfo(ctx, "user registered", slog.String("user.id", result.User.ID))
	return result, nil
}

func (s *Service) Login(ctx context.Context, input types.LoginInput) (*types.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login")
	defer span.End()
	result, err := s.inner.Login(ctx, input)
	if err != nil {
		s.metrics.recordLogin(ctx, "password", false)
		return nil, s.handleError(ctx, span, err, "login failed")
	}
	span.SetAttributes(attribute.String("user.id", result.User.ID))
	s.metrics.recordLogin(ctx, "password", true)
	return result, nil
}

func (s *Service) GoogleLogin(ctx context.Context, input types.GoogleLoginInput) (*types.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GoogleLogin")
	defer span.End()
	result, err := s.inner.GoogleLogin(ctx, input)
	if err != nil {
		s.metrics.recordLogin(ctx, "google", false)
		return nil, s.handleError(ctx, span, err, "google login failed")
	}
	span.SetAttributes(attribute.String("user.id", result.User.ID))
	s.metrics.recordLogin(ctx, "google", true)
	return result, nil
}

func (s *Service) AdminLogin(ctx context.Context, input types.LoginInput) (*types.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.AdminLogin")
	defer span.End()
	result, err := s.inner.AdminLogin(ctx, input)
	if err != nil {
		s.metrics.recordLogin(ctx, "admin", false)
		return nil, s.handleError(ctx, span, err, "admin login failed")
	}
	s.metrics.recordLogin(ctx, "admin", true)
	s.logInfo(ctx, "admin signed in")
	return result, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout")
	defer span.End()
	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "logout failed")
	}
	return nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetCurrentUser", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	user, err := s.inner.GetCurrentUser(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load user", slog.String("user.id", userID))
	}
	return user, nil
}

func (s *Service) AddToCart(ctx context.Context, input types.CartItemInput) (userdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.AddToCart", trace.WithAttributes(
		attribute.String("user.id", input.UserID),
		attribute.String("cart.product_id", input.ProductID),
		attribute.String("cart.size", input.Size)))
	defer span.End()
	cart, err := s.inner.AddToCart(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add to cart", slog.String("user.id", input.UserID))
	}
	s.metrics.recordCartWrite(ctx, "add")
	return cart, nil
}

func (s *Service) UpdateCart(ctx context.Context, input types.CartItemInput) (userdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateCart", trace.WithAttributes(
		attribute.String("user.id", input.UserID),
		attribute.String("cart.product_id", input.ProductID),
		attribute.Int("cart.quantity", input.Quantity)))
	defer span.End()
	cart, err := s.inner.UpdateCart(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update cart", slog.String("user.id", input.UserID))
	}
	s.metrics.recordCartWrite(ctx, "update")
	return cart, nil
}

func (s *Service) GetCart(ctx context.Context, userID string) (userdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetCart", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	cart, err := s.inner.GetCart(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load cart", slog.String("user.id", userID))
	}
	return cart, nil
}

func (s *Service) ClearCart(ctx context.Context, userID string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.ClearCart", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	if err := s.inner.ClearCart(ctx, userID); err != nil {
		return s.handleError(ctx, span, err, "failed to clear cart", slog.String("user.id", userID))
	}
	s.metrics.recordCartWrite(ctx, "clear")
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
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

type serviceMetrics struct {
	registrations metric.Int64Counter
	logins        metric.Int64Counter
	cartWrites    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registrations, _ := m.Int64Counter("users.service.registrations", metric.WithDescription("Number of accounts registered"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Sign-in attempts by method and outcome"))
	cartWrites, _ := m.Int64Counter("users.service.cart_writes", metric.WithDescription("Cart mutations by operation"))
	return serviceMetrics{registrations: registrations, logins: logins, cartWrites: cartWrites}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registrations != nil {
		m.registrations.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context, method string, ok bool) {
	if m.logins != nil {
		m.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("auth.method", method), attribute.Bool("auth.success", ok)))
	}
}

func (m serviceMetrics) recordCartWrite(ctx context.Context, op string) {
	if m.cartWrites != nil {
		m.cartWrites.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.operation", op)))
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
