package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mumbaitransit/mumbaitransit/internal/alert"
	"github.com/mumbaitransit/mumbaitransit/internal/api/models"
	"github.com/mumbaitransit/mumbaitransit/internal/api/response"
	"github.com/mumbaitransit/mumbaitransit/internal/crowd"
	"github.com/mumbaitransit/mumbaitransit/internal/fare"
	"github.com/mumbaitransit/mumbaitransit/internal/featureflags"
	"github.com/mumbaitransit/mumbaitransit/internal/station"
	"github.com/mumbaitransit/mumbaitransit/internal/telemetry"
)

// DefaultForecastHours is the forecast length when the request names none.
const DefaultForecastHours = 12

// StationHandlerConfig holds the dependencies of StationHandler.
type StationHandlerConfig struct {
	Stations  *station.Registry
	Estimator *crowd.Estimator

	// Alerts is merged into station responses. Optional.
	Alerts *alert.Service

	// Flags gates crowd estimates and alerts. Optional.
	Flags *featureflags.Service

	// ForecastHours is the default forecast length.
	ForecastHours int

	Metrics *telemetry.QueryMetrics
	Logger  zerolog.Logger
}

// StationHandler handles station and crowd endpoints.
type StationHandler struct {
	stations      *station.Registry
	estimator     *crowd.Estimator
	alerts        *alert.Service
	flags         *featureflags.Service
	forecastHours int
	metrics       *telemetry.QueryMetrics
	logger        zerolog.Logger
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(cfg StationHandlerConfig) *StationHandler {
	hours := cfg.ForecastHours
	if hours <= 0 {
		hours = DefaultForecastHours
	}
	return &StationHandler{
		stations:      cfg.Stations,
		estimator:     cfg.Estimator,
		alerts:        cfg.Alerts,
		flags:         cfg.Flags,
		forecastHours: hours,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
	}
}

// ListStations handles GET /v1/stations - all stations, one line, or a name search.
func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	var stations []*station.Station
	switch {
	case r.URL.Query().Get("q") != "":
		stations = h.stations.Search(r.URL.Query().Get("q"))
	case r.URL.Query().Get("line") != "":
		stations = h.stations.ByLine(fare.LineID(r.URL.Query().Get("line")))
	default:
		stations = h.stations.All()
	}

	response.Cached(w, r, response.ReferenceMaxAge, models.StationList{
		Items: stations,
		Total: len(stations),
	})
}

// GetStation handles GET /v1/stations/{stationId} - one station with its alerts.
func (h *StationHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	s, err := h.stations.Get(chi.URLParam(r, "stationId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	detail := models.StationDetail{Station: s, Alerts: []*alert.Alert{}}
	if h.alerts != nil && !h.flags.AlertsDisabled(r.Context()) {
		alerts, err := h.alerts.ForStation(r.Context(), s.ID)
		if err != nil {
			h.logger.Warn().Err(err).
				Str("request_id", GetRequestID(r.Context())).
				Msg("serving station without alerts")
		} else if len(alerts) > 0 {
			detail.Alerts = alerts
		}
	}

	response.Cached(w, r, response.LiveMaxAge, detail)
}

// GetCrowd handles GET /v1/stations/{stationId}/crowd - the occupancy estimate
// now or at the RFC 3339 time in ?at=.
func (h *StationHandler) GetCrowd(w http.ResponseWriter, r *http.Request) {
	if h.flags.CrowdEstimatesDisabled(r.Context()) {
		response.Disabled(w, r, "crowd estimates are temporarily disabled")
		return
	}

	var at time.Time
	if raw := r.URL.Query().Get("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badParam(w, r, "at", "must be an RFC 3339 timestamp")
			return
		}
		at = parsed
	}

	estimate, err := h.estimator.EstimateStation(chi.URLParam(r, "stationId"), at)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.metrics.RecordCrowd(r.Context(), string(estimate.Level), 1)

	response.JSON(w, r, http.StatusOK, estimate)
}

// GetCrowdForecast handles GET /v1/stations/{stationId}/crowd/forecast - hourly
// estimates from the current hour.
func (h *StationHandler) GetCrowdForecast(w http.ResponseWriter, r *http.Request) {
	if h.flags.CrowdEstimatesDisabled(r.Context()) {
		response.Disabled(w, r, "crowd estimates are temporarily disabled")
		return
	}

	hours, ok := queryInt(r, "hours", h.forecastHours)
	if !ok {
		badParam(w, r, "hours", "must be an integer")
		return
	}

	stationID := chi.URLParam(r, "stationId")
	estimates, err := h.estimator.Forecast(stationID, time.Time{}, hours)
	if err != nil {
		writeError(w, r, err)
		return
	}
	for _, e := range estimates {
		h.metrics.RecordCrowd(r.Context(), string(e.Level), 1)
	}

	response.JSON(w, r, http.StatusOK, models.CrowdForecast{
		StationID: stationID,
		TimeZone:  h.estimator.Location().String(),
		Items:     estimates,
	})
}
