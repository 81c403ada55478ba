// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tomtom215/thebox/internal/api"
	"github.com/tomtom215/thebox/internal/auth"
	"github.com/tomtom215/thebox/internal/cache"
	"github.com/tomtom215/thebox/internal/config"
	"github.com/tomtom215/thebox/internal/events"
	"github.com/tomtom215/thebox/internal/interaction"
	"github.com/tomtom215/thebox/internal/logging"
	"github.com/tomtom215/thebox/internal/recommend"
	"github.com/tomtom215/thebox/internal/signature"
	"github.com/tomtom215/thebox/internal/store"
	"github.com/tomtom215/thebox/internal/stories"
	"github.com/tomtom215/thebox/internal/supervisor"
	"github.com/tomtom215/thebox/internal/supervisor/services"
	"github.com/tomtom215/thebox/internal/taxonomy"
	"github.com/tomtom215/thebox/internal/users"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging.ToLoggingConfig())
	logger := logging.Logger()

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("events_enabled", cfg.Events.Enabled).
		Msg("Starting TheBox with supervisor tree")

	db, err := store.Open(store.Config{
		Path:        cfg.Store.Path,
		InMemory:    cfg.Store.InMemory,
		SyncWrites:  cfg.Store.SyncWrites,
		Compression: true,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()
	if cfg.Store.InMemory {
		logging.Warn().Msg("Store is in-memory (STORE_IN_MEMORY=true); all data is lost on restart")
	}
	repos := store.NewRepositories(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cacheStore, breaker, cacheCloser := openCache(ctx, &cfg.Cache)
	defer func() {
		if err := cacheCloser.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache")
		}
	}()

	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token manager")
	}
	hasher := auth.NewHasher(cfg.Security.BcryptCost)

	media, err := stories.NewLocalMedia(&cfg.Media, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize media storage")
	}

	engine := signature.New(taxonomy.Default())

	// Events are optional. The recorder must see a nil interface, not a
	// typed nil, when the bus is disabled.
	var (
		bus       *events.Bus
		publisher interaction.Publisher
	)
	eventsBackend := "disabled"
	if cfg.Events.Enabled {
		bus, err = events.NewBus(&cfg.Events, logger)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize event bus")
		}
		defer func() {
			if err := bus.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event bus")
			}
		}()
		pub := events.NewPublisher(bus.Publisher(), cfg.Events.Topic, logger)
		defer func() {
			if err := pub.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event publisher")
			}
		}()
		publisher = pub
		eventsBackend = bus.Backend()
		logging.Info().
			Str("backend", eventsBackend).
			Str("topic", cfg.Events.Topic).
			Msg("Event bus initialized")
	}

	recorder := interaction.NewRecorder(interaction.Dependencies{
		Users:   repos.Users,
		Stories: repos.Stories,
		History: repos.WatchHistory,
		Viewers: repos.ViewerLogs,
		Cache:   cacheStore,
		Events:  publisher,
	}, logger)

	userSvc, err := users.NewService(users.Dependencies{
		Users:    repos.Users,
		Stories:  repos.Stories,
		History:  repos.WatchHistory,
		Viewers:  repos.ViewerLogs,
		Media:    media,
		Cache:    cacheStore,
		Tokens:   tokens,
		Hasher:   hasher,
		Engine:   engine,
		Security: logging.NewSecurityLogger(),
		UserTTL:  cfg.Cache.UserTTL,
	}, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize users service")
	}

	storySvc, err := stories.NewService(stories.Dependencies{
		Stories:    repos.Stories,
		Users:      repos.Users,
		Media:      media,
		Views:      recorder,
		Cache:      cacheStore,
		StoriesTTL: cfg.Cache.StoriesTTL,
	}, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize stories service")
	}

	builder, err := recommend.NewBuilder(recommend.ConfigFrom(&cfg.Recommend, &cfg.Cache), recommend.Dependencies{
		Users:   repos.Users,
		Stories: repos.Stories,
		History: repos.WatchHistory,
		Cache:   cacheStore,
		Engine:  engine,
	}, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation builder")
	}

	deps := api.Dependencies{
		Users:          userSvc,
		Stories:        storySvc,
		Interaction:    recorder,
		Recommend:      builder,
		Store:          db,
		EventsBackend:  eventsBackend,
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
		Version:        version,
	}
	if breaker != nil {
		deps.Cache = breaker
	}
	handler, err := api.NewHandler(deps)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize API handler")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	router := api.NewRouter(handler, auth.NewMiddleware(tokens), api.RouterOptions{
		Middleware: api.ChiMiddlewareConfigFrom(&cfg.Security),
		MediaDir:   media.Dir(),
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if !cfg.Store.InMemory {
		tree.AddStorageService(services.NewStoreGCService(db, cfg.Store.GCInterval, cfg.Store.GCDiscardRatio))
		logging.Info().Dur("interval", cfg.Store.GCInterval).Msg("Store GC service added")
	}

	if bus != nil {
		tree.AddMessagingService(services.NewEventRouterService(newRouterFactory(bus, cfg.Events.Topic, logger)))
		logging.Info().Msg("Event router service added")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// openCache builds the configured cache backend. An unreachable Redis at
// startup falls back to the in-process store so the API still serves. The
// returned breaker is nil when the circuit breaker is disabled.
func openCache(ctx context.Context, cfg *config.CacheConfig) (cache.Store, *cache.ResilientStore, io.Closer) {
	var (
		backend cache.Store
		closer  io.Closer
	)
	if cfg.Backend == "redis" {
		redisStore, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			DB:          cfg.RedisDB,
			DialTimeout: cfg.RedisDialTimeout,
		})
		if err != nil {
			logging.Warn().Err(err).Str("addr", cfg.RedisAddr).
				Msg("Redis unavailable, falling back to in-memory cache")
		} else {
			backend, closer = redisStore, redisStore
			logging.Info().Str("addr", cfg.RedisAddr).Msg("Redis cache connected")
		}
	}
	if backend == nil {
		mem := cache.NewMemoryStore(cfg.CleanupInterval)
		backend, closer = mem, mem
	}

	if !cfg.BreakerEnabled {
		return backend, nil, closer
	}
	breakerCfg := cache.DefaultBreakerConfig("cache-" + cfg.Backend)
	if cfg.BreakerMaxRequests > 0 {
		breakerCfg.MaxRequests = cfg.BreakerMaxRequests
	}
	if cfg.BreakerInterval > 0 {
		breakerCfg.Interval = cfg.BreakerInterval
	}
	if cfg.BreakerTimeout > 0 {
		breakerCfg.Timeout = cfg.BreakerTimeout
	}
	if cfg.BreakerMinRequests > 0 {
		breakerCfg.MinRequests = cfg.BreakerMinRequests
	}
	if cfg.BreakerFailureRatio > 0 {
		breakerCfg.FailureRatio = cfg.BreakerFailureRatio
	}
	resilient := cache.NewResilientStore(backend, breakerCfg)
	return resilient, resilient, closer
}

// newRouterFactory returns a factory that builds the interaction event
// router. The supervisor calls it again after every router failure.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newRouterFactory(bus *events.Bus, topic string, logger zerolog.Logger) services.RouterFactory {
	return func() (services.EventRouter, error) {
		router, err := events.NewRouter(events.DefaultRouterConfig(), bus.WatermillLogger())
		if err != nil {
			return nil, err
		}
		router.AddConsumerHandler("interaction-logger", topic, bus.Subscriber(), events.NewLogger(topic, logger).Handle)
		return router, nil
	}
}
