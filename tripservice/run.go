// Package tripservice boots the itinerary HTTP service: configuration,
// dependency wiring, background health probing, and graceful shutdown.
package tripservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/api"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/config"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/directions"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/health"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/logger"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/optimizer"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/pois"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/services"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/store"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/store/postgres"
)

// Run starts the trip service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("trip-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("http_port", cfg.HTTPPort).
		Str("optimizer_url", cfg.OptimizerURL).
		Str("directions_url", cfg.DirectionsURL).
		Str("mongo_database", cfg.MongoDatabase).
		Msg("Trip service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	deps, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}

	gen := services.NewGenerationService(deps.store, deps.filter, deps.optimizer, deps.directions,
		services.Defaults{POIPerDay: cfg.DefaultPOIPerDay, TravelMode: cfg.DefaultTravelMode}, log)
	its := services.NewItineraryService(deps.store, log)
	router := api.NewRouter(gen, its)

	svcHealth := startHealthCheckers(ctx, cfg, log, deps)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// dependencies holds everything initDependencies builds.
type dependencies struct {
	store      store.Store
	catalog    *pois.Catalog
	filter     pois.Filter
	optimizer  *optimizer.Client
	directions *directions.Client
}

// initDependencies constructs required components and fails fast when a
// hard dependency is unreachable.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*dependencies, error) {
	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Itinerary store unavailable")
		return nil, err
	}
	st := postgres.NewWithDB(db)

	mongoClient, err := pois.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Error().Stack().Err(err).Msg("POI catalog unavailable")
		return nil, err
	}
	catalog := pois.NewCatalog(mongoClient, cfg.MongoDatabase, log)

	// The cache is optional: without REDIS_ADDR every lookup hits Mongo.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	filter := pois.NewCached(catalog, rdb, time.Duration(cfg.POICacheTTL)*time.Second, log)

	return &dependencies{
		store:      st,
		catalog:    catalog,
		filter:     filter,
		optimizer:  optimizer.New(cfg.OptimizerURL, time.Duration(cfg.OptimizerTimeoutSeconds)*time.Second, log),
		directions: directions.New(cfg.DirectionsURL, time.Duration(cfg.DirectionsTimeoutSeconds)*time.Second, log),
	}, nil
}

// startHealthCheckers starts component checkers and the service-level
// aggregator, then binds the /api/health handler to it.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, deps *dependencies) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(deps.store, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	catalogChecker := health.NewPingChecker("poi-catalog", deps.catalog, log, probeTimeout)
	go catalogChecker.Start(ctx, interval)

	optimizerChecker := health.NewPingChecker("optimizer", deps.optimizer, log, probeTimeout)
	go optimizerChecker.Start(ctx, interval)

	directionsChecker := health.NewPingChecker("directions", deps.directions, log, probeTimeout)
	go directionsChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log,
		storeChecker, catalogChecker, optimizerChecker, directionsChecker)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in
// seconds: interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	// Checkers start unhealthy and need one probe cycle to flip.
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
