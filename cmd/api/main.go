package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"feedreader/internal/adapter"
	"feedreader/internal/authz"
	"feedreader/internal/http/handlers"
	httpapi "feedreader/internal/http/httpapi"
	"feedreader/internal/infra"
	"feedreader/internal/limiter"
	"feedreader/internal/session"
	"feedreader/internal/telemetry"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stopJanitors := context.WithCancel(context.Background())
	defer stopJanitors()

	repos, err := adapter.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open database")
	}
	defer repos.Close()

	apiStore, pingStore, closeStore := newRateStore(ctx, cfg, logger)
	defer closeStore()

	pipeline := authz.NewPipeline(authz.Config{
		Users:     repos.Users,
		Resources: repos.Resources,
		Settings:  repos.Settings,
		RateLimiter: authz.NewRateLimiter(apiStore,
			authz.FailClosed(cfg.RateLimitFailClose),
			authz.WithRateLogger(logger),
		),
		Reporter:         telemetry.NewZerologReporter(logger),
		DetachedTimeout:  cfg.DetachedTimeout,
		Logger:           logger,
		LastSeenInterval: cfg.LastSeenInterval,
		BypassRateLimit:  cfg.RateLimitBypass,
	})

	// Anonymous traffic is limited per process.
	publicStore := limiter.NewMemoryStore()
	publicStore.StartJanitor(ctx)

	app := handlers.NewApp(repos.Resources, repos.Blocklist, logger)
	app.Checks["database"] = repos.Ping
	if pingStore != nil {
		app.Checks["rate_limit"] = pingStore
	}
	router := httpapi.NewRouter(httpapi.Deps{
		App:              app,
		Pipeline:         pipeline,
		Sessions:         session.NewJWTResolver(cfg.JWTSecret, session.WithIssuer(cfg.JWTIssuer)),
		PublicLimiter:    publicStore,
		PublicRatePerMin: cfg.PublicRatePerMin,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		Logger:           logger,
	})

	server := infra.NewHTTPServer(cfg, router, logger)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("db_driver", cfg.DBDriver).
			Str("rate_limit_backend", cfg.RateLimitBackend).Msg("API listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	// Pending last-seen writes still hold repository handles.
	if err := pipeline.Detached().WaitContext(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("detached tasks still running at shutdown")
	}
	logger.Info().Msg("server stopped")
}

// newRateStore returns the plan limiter store, a health probe (nil for the
// in-process store) and a close func.
func newRateStore(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (limiter.Store, handlers.HealthCheck, func()) {
	if cfg.RateLimitBackend == infra.RateLimitBackendRedis {
		client, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect rate limit store")
		}
		store := limiter.NewRedisStore(client, limiter.WithTimeout(cfg.RateLimitTimeout))
		ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return store, ping, func() { _ = client.Close() }
	}

	store := limiter.NewMemoryStore()
	store.StartJanitor(ctx)
	return store, nil, func() {}
}
