package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/onecart/storefront-api/internal/app/bootstrap"
)

// session-purger is the one-shot form of the API's purge loop, meant for cron.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open stores: %v", err)
	}
	defer stores.Close()
	if stores.Postgres == nil && stores.Redis == nil {
		stores.Close()
		log.Fatal("sessions live in process memory; configure POSTGRES_DSN or REDIS_ADDR to purge them")
	}

	purged, err := stores.Sessions.PurgeExpired(ctx)
	if err != nil {
		stores.Close()
		log.Fatalf("failed to purge sessions: %v", err)
	}
	logger.Info("session purge completed", slog.Int64("sessions.purged", purged))
}
