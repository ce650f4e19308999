package handler

import (
	"net/http"
	"strconv"

	"github.com/mumbaitransit/mumbaitransit/internal/api/models"
	"github.com/mumbaitransit/mumbaitransit/internal/api/response"
	"github.com/mumbaitransit/mumbaitransit/internal/fare"
	"github.com/mumbaitransit/mumbaitransit/internal/station"
	"github.com/mumbaitransit/mumbaitransit/internal/telemetry"
)

// FareHandler handles line and fare endpoints.
type FareHandler struct {
	calc     *fare.Calculator
	stations *station.Registry
	metrics  *telemetry.QueryMetrics
}

// NewFareHandler creates a new FareHandler.
func NewFareHandler(calc *fare.Calculator, stations *station.Registry, metrics *telemetry.QueryMetrics) *FareHandler {
	return &FareHandler{calc: calc, stations: stations, metrics: metrics}
}

// ListLines handles GET /v1/lines - the line catalogue with fare tables.
func (h *FareHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	response.Cached(w, r, response.ReferenceMaxAge, models.LineList{Items: h.calc.Lines()})
}

// GetFare handles GET /v1/fares - fares for a distance on a line.
func (h *FareHandler) GetFare(w http.ResponseWriter, r *http.Request) {
	q := models.FareQuery{Line: fare.LineID(r.URL.Query().Get("line"))}

	raw := r.URL.Query().Get("distanceKm")
	if raw == "" {
		badParam(w, r, "distanceKm", "is required")
		return
	}
	distance, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		badParam(w, r, "distanceKm", "must be a number")
		return
	}
	q.DistanceKm = distance

	if !validateQuery(w, r, q) {
		return
	}

	f, err := h.calc.CalculateFare(q.Line, q.DistanceKm)
	h.metrics.RecordFare(r.Context(), string(q.Line), err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, f)
}

// GetStationFare handles GET /v1/fares/stations - fares between two stations
// on the same line.
func (h *FareHandler) GetStationFare(w http.ResponseWriter, r *http.Request) {
	fromID := r.URL.Query().Get("from")
	toID := r.URL.Query().Get("to")
	if fromID == "" || toID == "" {
		response.BadRequest(w, r, "from and to are required", []models.FieldError{
			{Field: "from", Message: "is required", Code: "required"},
			{Field: "to", Message: "is required", Code: "required"},
		})
		return
	}

	from, err := h.stations.Get(fromID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := h.stations.Get(toID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	f, err := h.stations.FareBetween(h.calc, fromID, toID)
	h.metrics.RecordFare(r.Context(), string(from.Line), err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.StationFare{From: from, To: to, Fare: f})
}
