// Package api provides the HTTP API for the Mumbai transit query service.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mumbaitransit/mumbaitransit/internal/alert"
	"github.com/mumbaitransit/mumbaitransit/internal/api/handler"
	"github.com/mumbaitransit/mumbaitransit/internal/api/middleware"
	"github.com/mumbaitransit/mumbaitransit/internal/api/response"
	"github.com/mumbaitransit/mumbaitransit/internal/auth"
	"github.com/mumbaitransit/mumbaitransit/internal/crowd"
	"github.com/mumbaitransit/mumbaitransit/internal/fare"
	"github.com/mumbaitransit/mumbaitransit/internal/featureflags"
	"github.com/mumbaitransit/mumbaitransit/internal/provider/resilience"
	"github.com/mumbaitransit/mumbaitransit/internal/route"
	"github.com/mumbaitransit/mumbaitransit/internal/station"
	"github.com/mumbaitransit/mumbaitransit/internal/telemetry"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	Routes    *route.Store
	Planner   *route.Planner
	Fares     *fare.Calculator
	Stations  *station.Registry
	Estimator *crowd.Estimator

	// AlertService is optional; alert endpoints answer 404 without it.
	AlertService *alert.Service
	Feeds        *resilience.Registry

	FeatureFlagService *featureflags.Service
	JWTService         *auth.JWTService
	QueryMetrics       *telemetry.QueryMetrics

	// Database is pinged by the readiness check. Optional.
	Database handler.Pinger

	SearchPageSize int
	ForecastHours  int

	// RequireTLS rejects plain HTTP seen through X-Forwarded-Proto.
	RequireTLS bool

	// RateLimits overrides the per-category request budgets.
	RateLimits middleware.RateLimits
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "mumbaitransit-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))
	r.Use(middleware.ContentTypeJSON) // JSON content type

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, "no such endpoint")
	})

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(handler.OpsHandlerConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Routes:    cfg.Routes,
		Database:  cfg.Database,
		Alerts:    cfg.AlertService,
		Feeds:     cfg.Feeds,
		Flags:     cfg.FeatureFlagService,
	})
	routeHandler := handler.NewRouteHandler(handler.RouteHandlerConfig{
		Store:    cfg.Routes,
		Planner:  cfg.Planner,
		Alerts:   cfg.AlertService,
		Flags:    cfg.FeatureFlagService,
		PageSize: cfg.SearchPageSize,
		Metrics:  cfg.QueryMetrics,
		Logger:   cfg.Logger,
	})
	fareHandler := handler.NewFareHandler(cfg.Fares, cfg.Stations, cfg.QueryMetrics)
	stationHandler := handler.NewStationHandler(handler.StationHandlerConfig{
		Stations:      cfg.Stations,
		Estimator:     cfg.Estimator,
		Alerts:        cfg.AlertService,
		Flags:         cfg.FeatureFlagService,
		ForecastHours: cfg.ForecastHours,
		Metrics:       cfg.QueryMetrics,
		Logger:        cfg.Logger,
	})
	alertHandler := handler.NewAlertHandler(cfg.AlertService, cfg.FeatureFlagService, cfg.Logger)
	featureFlagsHandler := handler.NewFeatureFlagsHandler(cfg.FeatureFlagService, cfg.Logger)

	limits := cfg.RateLimits.WithDefaults()
	queryRateLimit := middleware.RateLimitByIP(limits.Query)
	expensiveRateLimit := middleware.RateLimitByIP(limits.Expensive)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Route catalogue, search and journeys
		r.Route("/routes", func(r chi.Router) {
			r.With(queryRateLimit).Get("/", routeHandler.ListRoutes)
			r.With(expensiveRateLimit).Get("/search", routeHandler.SearchRoutes)
			r.With(queryRateLimit).Get("/{mode}/{routeId}", routeHandler.GetRoute)
		})
		r.With(expensiveRateLimit).Get("/journeys", routeHandler.PlanJourneys)

		// Lines and fares
		r.Group(func(r chi.Router) {
			r.Use(queryRateLimit)
			r.Get("/lines", fareHandler.ListLines)
			r.Get("/fares", fareHandler.GetFare)
			r.Get("/fares/stations", fareHandler.GetStationFare)
		})

		// Stations and crowd estimates
		r.Route("/stations", func(r chi.Router) {
			r.Use(queryRateLimit)
			r.Get("/", stationHandler.ListStations)
			r.Route("/{stationId}", func(r chi.Router) {
				r.Get("/", stationHandler.GetStation)
				r.Get("/crowd", stationHandler.GetCrowd)
				r.With(expensiveRateLimit).Get("/crowd/forecast", stationHandler.GetCrowdForecast)
			})
		})

		// Service alerts
		r.Route("/alerts", func(r chi.Router) {
			r.Use(queryRateLimit)
			r.Get("/", alertHandler.ListAlerts)
			r.Get("/summary", alertHandler.GetSummary)
			r.Get("/{alertId}", alertHandler.GetAlert)
		})

		// Admin endpoints (authenticated) - for internal operations
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.JWTService, auth.RoleOperator))
			r.Use(middleware.RateLimitBySubject(limits.Admin))

			// Feature flags management
			r.Route("/feature-flags", func(r chi.Router) {
				r.Get("/", featureFlagsHandler.ListFeatureFlags)
				r.With(
					middleware.AdminAuth(cfg.JWTService, auth.RoleAdmin),
					middleware.RequireJSON,
				).Put("/", featureFlagsHandler.UpsertFeatureFlags)
				r.With(middleware.AdminAuth(cfg.JWTService, auth.RoleAdmin)).
					Delete("/{flagKey}", featureFlagsHandler.ResetFeatureFlag)
				r.Post("/invalidate", featureFlagsHandler.InvalidateCache)
			})

			// Alert cache
			r.Route("/alerts", func(r chi.Router) {
				r.Get("/cache", alertHandler.GetCacheStats)
				r.Post("/invalidate", alertHandler.InvalidateCache)
			})
		})
	})

	return r
}
