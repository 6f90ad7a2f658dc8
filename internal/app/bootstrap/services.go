package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/onecart/storefront-api/internal/clients/http/razorpay"
	ordersrazorpay "github.com/onecart/storefront-api/internal/domains/orders/adapters/external/razorpay"
	ordersmemory "github.com/onecart/storefront-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/onecart/storefront-api/internal/domains/orders/adapters/observability"
	ordersapp "github.com/onecart/storefront-api/internal/domains/orders/application"
	ordersports "github.com/onecart/storefront-api/internal/domains/orders/ports"
	usersobs "github.com/onecart/storefront-api/internal/domains/users/adapters/observability"
	usersapp "github.com/onecart/storefront-api/internal/domains/users/application"
	usersports "github.com/onecart/storefront-api/internal/domains/users/ports"
	platformobservability "github.com/onecart/storefront-api/internal/platform/observability"
	"github.com/onecart/storefront-api/internal/shared/auth"
)

// Services holds the decorated application services.
type Services struct {
	Orders ordersports.Service
	Users  usersports.Service
	Issuer *auth.Issuer
}

// BuildServices wires the core services over stores and wraps them with
// tracing, logging and metrics.
func BuildServices(cfg Config, stores *Stores, instruments *platformobservability.Instruments) (*Services, error) {
	logger := instruments.Logger
	issuer, err := auth.NewIssuer(cfg.JWTSecret, auth.WithTTL(time.Duration(cfg.SessionTTLHours)*time.Hour, auth.DefaultAdminTTL))
	if err != nil {
		return nil, err
	}

	coreUsers := usersapp.NewService(stores.Users, stores.Sessions, issuer,
		usersapp.WithAdminCredentials(cfg.AdminEmail, cfg.AdminPassword))
	users := usersobs.New(coreUsers,
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.users.application")),
	)

	gateway, err := buildPaymentGateway(cfg, logger)
	if err != nil {
		return nil, err
	}
	coreOrders := ordersapp.NewService(stores.Orders, gateway,
		ordersapp.WithCartClearer(users),
		ordersapp.WithCurrency(cfg.Currency),
		ordersapp.WithIdempotencyStore(stores.Idempotency),
	)
	orders := ordersobs.New(coreOrders,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return &Services{Orders: orders, Users: users, Issuer: issuer}, nil
}

func buildPaymentGateway(cfg Config, logger *slog.Logger) (ordersports.PaymentGateway, error) {
	if cfg.RazorpayKeyID == "" {
		logger.Warn("RAZORPAY_KEY_ID not set, using the in-memory sandbox gateway")
		return ordersmemory.NewPaymentGateway(), nil
	}
	client, err := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	if err != nil {
		return nil, fmt.Errorf("configure razorpay: %w", err)
	}
	logger.Info("payment gateway configured with razorpay")
	return ordersrazorpay.NewGateway(client), nil
}
