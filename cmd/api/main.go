package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sirpyerre/storefront-api/docs"
	"github.com/sirpyerre/storefront-api/internal/api"
	"github.com/sirpyerre/storefront-api/internal/core/ports"
	"github.com/sirpyerre/storefront-api/internal/core/security"
	"github.com/sirpyerre/storefront-api/internal/core/service"
	"github.com/sirpyerre/storefront-api/internal/infrastructure/db/memory"
	mongodb "github.com/sirpyerre/storefront-api/internal/infrastructure/db/mongo"
	redisdb "github.com/sirpyerre/storefront-api/internal/infrastructure/db/redis"
	"github.com/sirpyerre/storefront-api/internal/infrastructure/http/handlers"
	"github.com/sirpyerre/storefront-api/internal/infrastructure/queue"
	"github.com/sirpyerre/storefront-api/internal/pkg/config"
	"github.com/sirpyerre/storefront-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type stores struct {
	users     ports.UserRepository
	products  ports.ProductRepository
	audit     ports.AuditRepository
	readiness []handlers.Dependency
	close     func(context.Context)
}

// @title                      Storefront API
// @version                    1.0
// @description                Product catalog with role- and ownership-based access control.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront-api",
		Env:     cfg.Env,
		Version: docs.SwaggerInfo.Version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	defer st.close(context.Background())

	var cache ports.CatalogCache
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()

		cache = redisdb.NewCatalogCache(rdb, cfg.Redis.CacheTTL)
		st.readiness = append(st.readiness, handlers.Dependency{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("catalog cache enabled")
	}

	tokens, err := security.NewTokenManager(security.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.JWTTTL,
		Issuer: cfg.Auth.JWTIssuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid token configuration")
	}
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)

	// Audit workers outlive in-flight requests; they stop after the server.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(st.audit, log), log)
	dispatcher.Start(auditCtx)

	e := api.NewRouter(api.Dependencies{
		Auth:      service.NewAuthService(st.users, hasher, tokens, dispatcher, log),
		Users:     service.NewUserService(st.users, dispatcher, log),
		Products:  service.NewProductService(st.products, cache, dispatcher, log),
		Readiness: st.readiness,
		Logger:    log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	dispatcher.Close()
	log.Info().Msg("server stopped")
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return &stores{
			users:    memory.NewUserRepository(),
			products: memory.NewProductRepository(),
			audit:    memory.NewAuditRepository(),
			close:    func(context.Context) {},
		}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	return &stores{
		users:    mongodb.NewUserRepository(db),
		products: mongodb.NewProductRepository(db),
		audit:    mongodb.NewAuditRepository(db),
		readiness: []handlers.Dependency{{
			Name: "mongodb",
			Ping: func(ctx context.Context) error { return mongodb.Ping(ctx, db) },
		}},
		close: func(ctx context.Context) { disconnect(ctx, client, log) },
	}, nil
}

func disconnect(ctx context.Context, client *mongo.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect failed")
	}
}
