// Package main provides the entrypoint for the alert refresh worker.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mumbaitransit/mumbaitransit/internal/alert"
	"github.com/mumbaitransit/mumbaitransit/internal/alert/gtfsrt"
	"github.com/mumbaitransit/mumbaitransit/internal/config"
	"github.com/mumbaitransit/mumbaitransit/internal/database"
	"github.com/mumbaitransit/mumbaitransit/internal/events"
	"github.com/mumbaitransit/mumbaitransit/internal/provider/resilience"
	"github.com/mumbaitransit/mumbaitransit/internal/telemetry"
	"github.com/mumbaitransit/mumbaitransit/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "mumbaitransit-worker"

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	flag.Parse()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting alert refresh worker")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	queryMetrics, err := telemetry.NewQueryMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Alert store: Postgres when configured, else memory (useful only for checks)
	var store alert.Store
	if cfg.UsesDatabase() {
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
		store = alert.NewPostgresRepository(pool)
		log.Info().Str("host", cfg.Database.Host).Msg("writing alerts to postgres")
	} else {
		store = alert.NewInMemoryRepository()
		log.Warn().Msg("no database configured - refreshed alerts are kept in memory")
	}

	// Feeds
	registry := resilience.NewRegistry()
	var feeds []alert.Provider
	if len(cfg.Alerts.Feeds) > 0 {
		specs := make([]gtfsrt.FeedSpec, 0, len(cfg.Alerts.Feeds))
		for _, f := range cfg.Alerts.Feeds {
			specs = append(specs, gtfsrt.FeedSpec{Name: f.Name, URL: f.URL, Language: f.Language})
		}
		feeds = gtfsrt.NewFeeds(specs, cfg.Alerts.FetchTimeout, registry, log)
	} else {
		feeds = []alert.Provider{alert.NewStaticProvider("static", alert.DevelopmentAlerts(time.Now()))}
		log.Warn().Msg("no alert feeds configured - refreshing development alerts")
	}

	// Events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(events.AMQPConfig{
			URL:      cfg.Events.AMQPURL,
			Exchange: cfg.Events.Exchange,
			AppID:    serviceName,
			Logger:   log,
		})
		if err != nil {
			log.Error().Err(err).Msg("broker unavailable - events disabled")
		} else {
			publisher = amqpPublisher
			defer func() { _ = amqpPublisher.Close() }()
		}
	}

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: worker.RefreshConfig{
			Concurrency: cfg.Worker.Concurrency,
			Timeout:     cfg.Worker.Timeout,
			EventSource: serviceName,
		},
		Logger:    log,
		Feeds:     feeds,
		Store:     store,
		Publisher: publisher,
		Registry:  registry,
		Metrics:   queryMetrics,
	})

	// Worker also exposes health endpoint for Cloud Run
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  registry.Overall(),
			"version": Version,
			"metrics": job.MetricsSnapshot(),
		})
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Triggered by Pub/Sub when a subscription is configured, otherwise by ticker
	if cfg.Worker.PubSubProject != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        cfg.Worker.PubSubProject,
			SubscriptionName: cfg.Worker.PubSubSubscription,
			RefreshJob:       job,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer func() { _ = handler.Close() }()

		go func() {
			if err := handler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		go job.Schedule(ctx, cfg.Worker.Interval)
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
