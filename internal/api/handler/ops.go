// Package handler provides HTTP handlers for the Mumbai transit API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/mumbaitransit/mumbaitransit/internal/alert"
	"github.com/mumbaitransit/mumbaitransit/internal/api/models"
	"github.com/mumbaitransit/mumbaitransit/internal/api/response"
	"github.com/mumbaitransit/mumbaitransit/internal/featureflags"
	"github.com/mumbaitransit/mumbaitransit/internal/provider/resilience"
	"github.com/mumbaitransit/mumbaitransit/internal/route"
)

// Pinger checks a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandlerConfig holds the dependencies of OpsHandler. Everything except
// Version and BuildTime is optional.
type OpsHandlerConfig struct {
	Version   string
	BuildTime string

	Routes   *route.Store
	Database Pinger
	Alerts   *alert.Service
	Feeds    *resilience.Registry
	Flags    *featureflags.Service

	// PingTimeout bounds the database check (default: 2 seconds).
	PingTimeout time.Duration
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version     string
	buildTime   string
	routes      *route.Store
	db          Pinger
	alerts      *alert.Service
	feeds       *resilience.Registry
	flags       *featureflags.Service
	pingTimeout time.Duration
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsHandlerConfig) *OpsHandler {
	timeout := cfg.PingTimeout
	if timeout == 0 {
		timeout = 2 * time.Second
	}
	return &OpsHandler{
		version:     cfg.Version,
		buildTime:   cfg.BuildTime,
		routes:      cfg.Routes,
		db:          cfg.Database,
		alerts:      cfg.Alerts,
		feeds:       cfg.Feeds,
		flags:       cfg.Flags,
		pingTimeout: timeout,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - the route catalogue is loaded and
// the database, when configured, answers.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	subsystems := []models.SubsystemStatus{h.routeStoreStatus()}
	if h.db != nil {
		subsystems = append(subsystems, h.databaseStatus(r.Context()))
	}

	details := make(map[string]interface{}, len(subsystems))
	status := models.HealthStatusOK
	for _, s := range subsystems {
		details[s.Name] = s.Status
		if s.Status == models.HealthStatusFail {
			status = models.HealthStatusFail
		}
	}

	code := http.StatusOK
	if status == models.HealthStatusFail {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, models.Health{
		Status:  status,
		Time:    models.Timestamp(time.Now()),
		Details: details,
	})
}

// SystemStatus handles GET /v1/ops/status - subsystem and alert feed status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	subsystems := []models.SubsystemStatus{h.routeStoreStatus()}
	if h.db != nil {
		subsystems = append(subsystems, h.databaseStatus(r.Context()))
	}
	if h.alerts != nil {
		subsystems = append(subsystems, h.alertCacheStatus())
	}

	feeds := h.feedStatuses()

	status := models.HealthStatusOK
	for _, s := range subsystems {
		status = worst(status, s.Status)
	}
	for _, f := range feeds {
		// A failing feed degrades the service; routes and fares still work.
		if f.Status != models.HealthStatusOK {
			status = worst(status, models.HealthStatusDegraded)
		}
	}

	response.JSON(w, r, http.StatusOK, models.SystemStatus{
		Status:                 status,
		Time:                   models.Timestamp(time.Now()),
		Subsystems:             subsystems,
		Feeds:                  feeds,
		Catalogue:              h.catalogue(),
		ActiveDegradationFlags: h.activeDegradationFlags(r.Context()),
	})
}

func (h *OpsHandler) routeStoreStatus() models.SubsystemStatus {
	if h.routes == nil || h.routes.Len() == 0 {
		detail := "route catalogue not loaded"
		return models.SubsystemStatus{Name: "route-store", Status: models.HealthStatusFail, Detail: &detail}
	}
	return models.SubsystemStatus{Name: "route-store", Status: models.HealthStatusOK}
}

func (h *OpsHandler) databaseStatus(ctx context.Context) models.SubsystemStatus {
	ctx, cancel := context.WithTimeout(ctx, h.pingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		detail := err.Error()
		return models.SubsystemStatus{Name: "postgres", Status: models.HealthStatusFail, Detail: &detail}
	}
	return models.SubsystemStatus{Name: "postgres", Status: models.HealthStatusOK}
}

func (h *OpsHandler) alertCacheStatus() models.SubsystemStatus {
	stats := h.alerts.CacheStats()
	if stats.HasCache && !stats.Fresh {
		detail := "serving stale alerts"
		return models.SubsystemStatus{Name: "alert-cache", Status: models.HealthStatusDegraded, Detail: &detail}
	}
	return models.SubsystemStatus{Name: "alert-cache", Status: models.HealthStatusOK}
}

func (h *OpsHandler) feedStatuses() []models.FeedStatus {
	if h.feeds == nil {
		return []models.FeedStatus{}
	}

	feeds := h.feeds.All()
	out := make([]models.FeedStatus, 0, len(feeds))
	for _, f := range feeds {
		p := models.FeedStatus{
			Feed:         f.Name,
			Status:       feedStatus(f.Status()),
			CircuitState: f.CircuitState.String(),
		}
		if f.LastSuccessAt != nil {
			ts := models.Timestamp(*f.LastSuccessAt)
			p.LastSuccessAt = &ts
		}
		if f.LastFailureAt != nil {
			ts := models.Timestamp(*f.LastFailureAt)
			p.LastFailureAt = &ts
		}
		if f.LastError != "" {
			msg := f.LastError
			p.Message = &msg
		}
		out = append(out, p)
	}
	return out
}

func (h *OpsHandler) catalogue() map[string]int {
	if h.routes == nil {
		return nil
	}
	counts := h.routes.CountByMode()
	out := make(map[string]int, len(counts))
	for mode, n := range counts {
		out[string(mode)] = n
	}
	return out
}

func (h *OpsHandler) activeDegradationFlags(ctx context.Context) []string {
	var active []string
	for _, key := range []string{
		featureflags.FlagDisableCrowdEstimates,
		featureflags.FlagDisableAlerts,
		featureflags.FlagDisableFallbackRoutes,
	} {
		if h.flags.IsEnabled(ctx, key) {
			active = append(active, key)
		}
	}
	return active
}

func feedStatus(s string) models.HealthStatus {
	switch s {
	case resilience.StatusUnhealthy:
		return models.HealthStatusFail
	case resilience.StatusDegraded:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}

var statusRank = map[models.HealthStatus]int{
	models.HealthStatusOK:       0,
	models.HealthStatusDegraded: 1,
	models.HealthStatusFail:     2,
}

func worst(a, b models.HealthStatus) models.HealthStatus {
	if statusRank[b] > statusRank[a] {
		return b
	}
	return a
}
