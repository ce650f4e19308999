package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mumbaitransit/mumbaitransit/internal/alert"
	"github.com/mumbaitransit/mumbaitransit/internal/api/models"
	"github.com/mumbaitransit/mumbaitransit/internal/api/response"
	"github.com/mumbaitransit/mumbaitransit/internal/featureflags"
	"github.com/mumbaitransit/mumbaitransit/internal/route"
)

// AlertHandler handles service alert endpoints.
type AlertHandler struct {
	service *alert.Service
	flags   *featureflags.Service
	logger  zerolog.Logger
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(service *alert.Service, flags *featureflags.Service, logger zerolog.Logger) *AlertHandler {
	return &AlertHandler{service: service, flags: flags, logger: logger}
}

// ListAlerts handles GET /v1/alerts - active alerts filtered by route, mode or station.
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	filter := alert.Filter{
		RouteID:   r.URL.Query().Get("routeId"),
		Mode:      route.Mode(r.URL.Query().Get("mode")),
		StationID: r.URL.Query().Get("stationId"),
	}
	if filter.Mode != "" && !filter.Mode.Valid() {
		badParam(w, r, "mode", "must be one of bus train metro monorail ferry")
		return
	}

	alerts, err := h.service.Find(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if alerts == nil {
		alerts = []*alert.Alert{}
	}

	response.Cached(w, r, response.LiveMaxAge, models.AlertList{Items: alerts, Total: len(alerts)})
}

// GetAlert handles GET /v1/alerts/{alertId} - one alert, active or not.
func (h *AlertHandler) GetAlert(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	a, err := h.service.Get(r.Context(), chi.URLParam(r, "alertId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, a)
}

// GetSummary handles GET /v1/alerts/summary - counts of active alerts.
func (h *AlertHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Cached(w, r, response.LiveMaxAge, summary)
}

// GetCacheStats handles GET /v1/admin/alerts/cache - alert cache statistics.
func (h *AlertHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		response.NotFound(w, r, "alerts are not configured")
		return
	}
	response.JSON(w, r, http.StatusOK, h.service.CacheStats())
}

// InvalidateCache handles POST /v1/admin/alerts/invalidate - drop cached alerts.
func (h *AlertHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		response.NotFound(w, r, "alerts are not configured")
		return
	}

	h.service.InvalidateCache()
	h.logger.Info().
		Str("subject", GetSubject(r.Context())).
		Str("request_id", GetRequestID(r.Context())).
		Msg("alert cache invalidated")

	response.NoContent(w, r)
}

// available writes a problem and returns false when alerts cannot be served.
func (h *AlertHandler) available(w http.ResponseWriter, r *http.Request) bool {
	if h.service == nil {
		response.NotFound(w, r, "alerts are not configured")
		return false
	}
	if h.flags.AlertsDisabled(r.Context()) {
		response.Disabled(w, r, "alerts are temporarily disabled")
		return false
	}
	return true
}
