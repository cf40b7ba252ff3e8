package app

import (
	"context"
	"fmt"

	"github.com/nvarley/querycache/internal/gateway"
	"github.com/nvarley/querycache/internal/storage"
	"github.com/nvarley/querycache/internal/upstream"
	"github.com/nvarley/querycache/pkg/cache"
	"github.com/nvarley/querycache/pkg/config"
	"github.com/nvarley/querycache/pkg/healthprobe"
	"github.com/nvarley/querycache/pkg/httpserver"
	"go.uber.org/zap"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	responseCache, err := setupCache(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	lookupStorage, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	gatewayService := setupGateway(cfg, logger, responseCache, lookupStorage)
	httpServer := setupHTTPServer(cfg, logger, healthChecker, gatewayService)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		responseCache: responseCache,
		gateway:       gatewayService,
		storage:       lookupStorage,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupCache(cfg *config.Config, logger *zap.Logger) (*cache.ResponseCache, error) {
	var (
		store cache.Store
		err   error
	)

	if cfg.CacheBackend == "ristretto" {
		store, err = cache.NewRistrettoStore(&cache.RistrettoConfig{
			TTL:      cfg.CacheTTL,
			MaxItems: cfg.CacheMaxItems,
			Logger:   logger,
		})
	} else {
		store, err = cache.NewMemoryStore(&cache.MemoryConfig{
			TTL:    cfg.CacheTTL,
			Logger: logger,
		})
	}
	if err != nil {
		return nil, err
	}

	logger.Info("cache-initialized",
		zap.String("backend", cfg.CacheBackend),
		zap.Duration("ttl", cfg.CacheTTL))

	return cache.NewResponseCache(store, logger), nil
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}

func setupGateway(cfg *config.Config, logger *zap.Logger, responseCache *cache.ResponseCache, lookupStorage storage.Storage) *gateway.Service {
	upstreamClient := upstream.NewClient(&upstream.Config{
		URL:        cfg.UpstreamURL,
		Timeout:    cfg.UpstreamTimeout,
		Retries:    cfg.UpstreamRetries,
		RetryDelay: cfg.UpstreamRetryDelay,
		Logger:     logger,
	})

	return gateway.New(&gateway.Config{
		Cache:    responseCache,
		Upstream: upstreamClient,
		Storage:  lookupStorage,
		Logger:   logger,
	})
}

func setupHTTPServer(cfg *config.Config, logger *zap.Logger, healthChecker *healthprobe.HealthChecker, gatewayService *gateway.Service) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Gateway:       gatewayService,
	})
}
