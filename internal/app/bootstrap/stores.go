package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	ordersmemory "github.com/onecart/storefront-api/internal/domains/orders/adapters/memory"
	ordersmongo "github.com/onecart/storefront-api/internal/domains/orders/adapters/persistence/mongo"
	orderspostgres "github.com/onecart/storefront-api/internal/domains/orders/adapters/persistence/postgres"
	ordersports "github.com/onecart/storefront-api/internal/domains/orders/ports"
	usersmemory "github.com/onecart/storefront-api/internal/domains/users/adapters/memory"
	usersmongo "github.com/onecart/storefront-api/internal/domains/users/adapters/persistence/mongo"
	userspostgres "github.com/onecart/storefront-api/internal/domains/users/adapters/persistence/postgres"
	usersredis "github.com/onecart/storefront-api/internal/domains/users/adapters/persistence/redis"
	usersports "github.com/onecart/storefront-api/internal/domains/users/ports"
	"github.com/onecart/storefront-api/internal/platform/migrations"
	platformmongo "github.com/onecart/storefront-api/internal/platform/mongo"
	platformpostgres "github.com/onecart/storefront-api/internal/platform/postgres"
	platformredis "github.com/onecart/storefront-api/internal/platform/redis"
)

// SessionStore is a session store that can also drop expired entries.
type SessionStore interface {
	usersports.SessionStore
	PurgeExpired(ctx context.Context) (int64, error)
}

// Stores bundles the repositories selected by configuration.
type Stores struct {
	Backend     string
	Orders      ordersports.Repository
	Idempotency ordersports.IdempotencyStore
	Users       usersports.Repository
	Sessions    SessionStore
	// Postgres is set when the relational backend is in use.
	Postgres *gorm.DB
	// Redis is set when sessions live in Redis.
	Redis   *goredis.Client
	closers []func()
}

// Close releases every connection opened by OpenStores, newest first.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// OpenStores connects the configured backend. With STORE_BACKEND=auto an
// unreachable database degrades to the in-memory adapters; an explicit
// backend that cannot be reached is an error.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, error) {
	stores := &Stores{}
	backend := cfg.Backend()
	strict := cfg.StoreBackend == backend

	switch backend {
	case BackendPostgres:
		db, cleanup := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
		if db == nil {
			if strict {
				return nil, fmt.Errorf("postgres backend unavailable")
			}
			logger.Warn("postgres unavailable, falling back to in-memory repositories")
			break
		}
		stores.closers = append(stores.closers, cleanup)
		if err := migrations.Run(db); err != nil {
			stores.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		stores.Backend = BackendPostgres
		stores.Postgres = db
		stores.Orders = orderspostgres.NewRepository(db)
		stores.Idempotency = orderspostgres.NewIdempotencyStore(db)
		stores.Users = userspostgres.NewRepository(db)
		stores.Sessions = userspostgres.NewSessionStore(db)
	case BackendMongo:
		db, cleanup := platformmongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if db == nil {
			if strict {
				return nil, fmt.Errorf("mongo backend unavailable")
			}
			logger.Warn("mongo unavailable, falling back to in-memory repositories")
			break
		}
		stores.closers = append(stores.closers, cleanup)
		orderRepo := ordersmongo.NewRepository(db)
		userRepo := usersmongo.NewRepository(db)
		if err := orderRepo.EnsureIndexes(ctx); err != nil {
			stores.Close()
			return nil, fmt.Errorf("ensure order indexes: %w", err)
		}
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			stores.Close()
			return nil, fmt.Errorf("ensure user indexes: %w", err)
		}
		stores.Backend = BackendMongo
		stores.Orders = orderRepo
		stores.Idempotency = ordersmongo.NewIdempotencyStore(db)
		stores.Users = userRepo
	}

	if stores.Orders == nil {
		stores.Backend = BackendMemory
		stores.Orders = ordersmemory.NewRepository()
		stores.Idempotency = ordersmemory.NewIdempotencyStore()
		stores.Users = usersmemory.NewRepository()
	}

	if client, cleanup := platformredis.Open(ctx, platformredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger); client != nil {
		stores.closers = append(stores.closers, cleanup)
		stores.Redis = client
		stores.Sessions = usersredis.NewSessionStore(client)
	}
	if stores.Sessions == nil {
		stores.Sessions = usersmemory.NewSessionStore()
	}

	logger.Info("stores configured", slog.String("store.backend", stores.Backend), slog.Bool("sessions.redis", stores.Redis != nil))
	return stores, nil
}
