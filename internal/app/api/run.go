package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	storefrontserver "github.com/onecart/storefront-api/go"
	"github.com/onecart/storefront-api/internal/app/bootstrap"
	ordersworkflows "github.com/onecart/storefront-api/internal/domains/orders/adapters/workflows"
	ordersports "github.com/onecart/storefront-api/internal/domains/orders/ports"
	userports "github.com/onecart/storefront-api/internal/domains/users/ports"
	"github.com/onecart/storefront-api/internal/platform/metrics"
	platformobservability "github.com/onecart/storefront-api/internal/platform/observability"
	"github.com/onecart/storefront-api/internal/shared/auth"
)

const serviceName = "storefront-api"

// Run boots the storefront HTTP API with observability, stores, and workflows
// wired, and serves until ctx is cancelled.
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
	services, err := bootstrap.BuildServices(cfg, stores, instruments)
	if err != nil {
		return err
	}

	var payments ordersports.PaymentWorkflows = ordersworkflows.NewInlinePaymentWorkflows(services.Orders)
	if temporalClient, err := bootstrap.DialTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, confirming payments inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		payments = ordersworkflows.NewTemporalPaymentWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	if cfg.SessionPurgeIntervalMinutes > 0 {
		go purgeSessionsEvery(ctx, stores.Sessions, time.Duration(cfg.SessionPurgeIntervalMinutes)*time.Minute, logger)
	}

	httpMetrics := metrics.NewHTTP("storefront")
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName), httpMetrics.Middleware())
	router.GET("/metrics", httpMetrics.Handler())
	storefrontserver.NewRouterWithGinEngine(router, storefrontserver.ApiHandleFunctions{
		AuthAPI:      storefrontserver.NewAuthAPI(services.Users, cfg.CookieSecure),
		UserAPI:      storefrontserver.NewUserAPI(services.Users, cfg.AdminEmail),
		CartAPI:      storefrontserver.NewCartAPI(services.Users),
		OrderAPI:     storefrontserver.NewOrderAPI(services.Orders, payments),
		Authenticate: auth.Middleware(services.Issuer, stores.Sessions, logger),
		RequireAdmin: auth.RequireRole(userports.RoleAdmin),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront API listening", slog.String("addr", server.Addr), slog.String("store.backend", stores.Backend))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("storefront API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("storefront API stopped")
	return nil
}

type sessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func purgeSessionsEvery(ctx context.Context, sessions sessionPurger, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := sessions.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("session purge failed", slog.String("error", err.Error()))
				continue
			}
			if purged > 0 {
				logger.Info("expired sessions purged", slog.Int64("sessions.purged", purged))
			}
		}
	}
}
