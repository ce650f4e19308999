// Package main provides the entrypoint for the Mumbai transit API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mumbaitransit/mumbaitransit/internal/alert"
	"github.com/mumbaitransit/mumbaitransit/internal/alert/gtfsrt"
	"github.com/mumbaitransit/mumbaitransit/internal/api"
	"github.com/mumbaitransit/mumbaitransit/internal/api/handler"
	"github.com/mumbaitransit/mumbaitransit/internal/api/middleware"
	"github.com/mumbaitransit/mumbaitransit/internal/auth"
	"github.com/mumbaitransit/mumbaitransit/internal/config"
	"github.com/mumbaitransit/mumbaitransit/internal/crowd"
	"github.com/mumbaitransit/mumbaitransit/internal/database"
	"github.com/mumbaitransit/mumbaitransit/internal/fare"
	"github.com/mumbaitransit/mumbaitransit/internal/featureflags"
	"github.com/mumbaitransit/mumbaitransit/internal/provider/resilience"
	"github.com/mumbaitransit/mumbaitransit/internal/route"
	"github.com/mumbaitransit/mumbaitransit/internal/station"
	"github.com/mumbaitransit/mumbaitransit/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "mumbaitransit-api"

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	flag.Parse()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Mumbai transit API")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Server.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SampleRatio:    cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.Telemetry.Enabled {
		log.Info().
			Str("otlp_endpoint", cfg.Telemetry.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}
	queryMetrics, err := telemetry.NewQueryMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize query metrics")
		os.Exit(1)
	}

	// Connect to database when a component is backed by Postgres
	var pool *pgxpool.Pool
	if cfg.UsesDatabase() {
		pool, err = database.Connect(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", cfg.Database.Host).
			Int("port", cfg.Database.Port).
			Str("database", cfg.Database.Database).
			Msg("database connected")

		if err := database.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
	}

	// Load the route catalogue
	routeRepo, err := routeRepository(cfg, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to select route source")
	}
	routes, err := route.Load(ctx, routeRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load routes")
	}
	log.Info().
		Str("source", cfg.Data.Source).
		Int("routes", routes.Len()).
		Msg("route catalogue loaded")

	planner := route.NewPlanner(routes, route.PlannerConfig{
		FallbackEnabled: cfg.Search.FallbackRoutes,
		MaxResults:      cfg.Search.MaxJourneys,
	})

	fares := fare.NewDefaultCalculator()
	stations := station.NewDefaultRegistry()
	estimator := crowd.NewEstimator(crowd.EstimatorConfig{
		Location: crowd.LoadLocation(cfg.Crowd.TimeZone),
		Stations: stations,
	})

	// Initialize alerts
	feeds := resilience.NewRegistry()
	var alertService *alert.Service
	if cfg.Alerts.Enabled {
		provider, err := alertProvider(cfg, pool, feeds, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to select alert source")
		}
		alertService = alert.NewService(alert.ServiceConfig{
			Provider:        provider,
			Logger:          log,
			CacheTTL:        cfg.Alerts.CacheTTL,
			StaleIfErrorTTL: cfg.Alerts.StaleTTL,
			ErrorRetryTTL:   cfg.Alerts.RetryTTL,
			Recorder:        queryMetrics,
		})
		log.Info().
			Str("source", cfg.Alerts.Source).
			Str("provider", provider.Name()).
			Msg("alert service initialized")
	}

	// Initialize feature flags repository and service
	var ffRepo featureflags.Repository = featureflags.NewInMemoryRepository()
	if cfg.Flags.Store == config.FlagStorePostgres {
		ffRepo = featureflags.NewPostgresRepository(pool)
	}
	ffService := featureflags.NewService(featureflags.ServiceConfig{
		Repository: ffRepo,
		Logger:     log,
		CacheTTL:   cfg.Flags.CacheTTL,
	})
	log.Info().Str("store", cfg.Flags.Store).Msg("feature flags service initialized")

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: cfg.Auth.SigningKey,
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
	})
	if cfg.Auth.SigningKey == config.Default().Auth.SigningKey {
		log.Warn().Msg("using default admin JWT signing key - not secure for production")
	}

	// A nil pool must stay a nil Pinger.
	var db handler.Pinger
	if pool != nil {
		db = pool
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		Metrics:            metrics,
		Routes:             routes,
		Planner:            planner,
		Fares:              fares,
		Stations:           stations,
		Estimator:          estimator,
		AlertService:       alertService,
		Feeds:              feeds,
		FeatureFlagService: ffService,
		JWTService:         jwtService,
		QueryMetrics:       queryMetrics,
		Database:           db,
		SearchPageSize:     cfg.Search.PageSize,
		ForecastHours:      cfg.Crowd.ForecastHours,
		RequireTLS:         cfg.Server.RequireTLS,
		RateLimits: middleware.RateLimits{
			Query:     middleware.PerMinute(cfg.Server.RateLimits.QueryPerMinute),
			Expensive: middleware.PerMinute(cfg.Server.RateLimits.ExpensivePerMinute),
			Admin:     middleware.PerMinute(cfg.Server.RateLimits.AdminPerMinute),
		},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func routeRepository(cfg *config.Config, pool *pgxpool.Pool) (route.Repository, error) {
	switch cfg.Data.Source {
	case config.SourceStatic:
		return route.NewStaticRepository(route.DefaultRoutes()), nil
	case config.SourceFile:
		return route.NewFileRepository(cfg.Data.RoutesFile), nil
	case config.SourcePostgres:
		return route.NewPostgresRepository(pool), nil
	default:
		return nil, fmt.Errorf("unknown route source %q", cfg.Data.Source)
	}
}

func alertProvider(cfg *config.Config, pool *pgxpool.Pool, registry *resilience.Registry, log zerolog.Logger) (alert.Provider, error) {
	switch cfg.Alerts.Source {
	case config.AlertSourceStatic:
		return alert.NewStaticProvider("static", alert.DevelopmentAlerts(time.Now())), nil
	case config.AlertSourceFeeds:
		specs := make([]gtfsrt.FeedSpec, 0, len(cfg.Alerts.Feeds))
		for _, f := range cfg.Alerts.Feeds {
			specs = append(specs, gtfsrt.FeedSpec{Name: f.Name, URL: f.URL, Language: f.Language})
		}
		return alert.NewMultiProvider(gtfsrt.NewFeeds(specs, cfg.Alerts.FetchTimeout, registry, log)...), nil
	case config.AlertSourcePostgres:
		return alert.NewPostgresRepository(pool), nil
	default:
		return nil, fmt.Errorf("unknown alert source %q", cfg.Alerts.Source)
	}
}
