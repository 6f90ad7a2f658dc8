package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/onecart/storefront-api/internal/app/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := worker.Run(ctx); err != nil {
		log.Fatalf("storefront worker failed: %v", err)
	}
}
