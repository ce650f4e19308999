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
	"github.com/mumbaitransit/mumbaitransit/internal/telemetry"
)

// RouteHandlerConfig holds the dependencies of RouteHandler.
type RouteHandlerConfig struct {
	Store   *route.Store
	Planner *route.Planner

	// Alerts is merged into route responses. Optional.
	Alerts *alert.Service

	// Flags gates alerts, fallback routes and the page size. Optional.
	Flags *featureflags.Service

	// PageSize is the search page size when no flag overrides it.
	PageSize int

	Metrics *telemetry.QueryMetrics
	Logger  zerolog.Logger
}

// RouteHandler handles route catalogue, search and journey endpoints.
type RouteHandler struct {
	store    *route.Store
	planner  *route.Planner
	alerts   *alert.Service
	flags    *featureflags.Service
	pageSize int
	metrics  *telemetry.QueryMetrics
	logger   zerolog.Logger
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(cfg RouteHandlerConfig) *RouteHandler {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = route.DefaultPageSize
	}
	return &RouteHandler{
		store:    cfg.Store,
		planner:  cfg.Planner,
		alerts:   cfg.Alerts,
		flags:    cfg.Flags,
		pageSize: pageSize,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

// ListRoutes handles GET /v1/routes - list routes, optionally by mode.
func (h *RouteHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	mode := route.Mode(r.URL.Query().Get("mode"))
	if mode != "" && !mode.Valid() {
		badParam(w, r, "mode", "must be one of bus train metro monorail ferry")
		return
	}

	routes := h.store.GetAllRoutes(mode)
	response.Cached(w, r, response.ReferenceMaxAge, models.RouteList{
		Mode:  mode,
		Items: routes,
		Total: len(routes),
	})
}

// GetRoute handles GET /v1/routes/{mode}/{routeId} - get one route with its alerts.
func (h *RouteHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	mode := route.Mode(chi.URLParam(r, "mode"))
	if !mode.Valid() {
		badParam(w, r, "mode", "must be one of bus train metro monorail ferry")
		return
	}

	rt, err := h.store.Get(mode, chi.URLParam(r, "routeId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	details := h.withAlerts(r, []*route.Route{rt})
	response.Cached(w, r, response.LiveMaxAge, details[0])
}

// SearchRoutes handles GET /v1/routes/search - substring search over the catalogue.
func (h *RouteHandler) SearchRoutes(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		badParam(w, r, "limit", "must be an integer")
		return
	}

	q := models.RouteSearchQuery{
		Query: r.URL.Query().Get("q"),
		Mode:  route.Mode(r.URL.Query().Get("mode")),
		Limit: limit,
	}
	if !validateQuery(w, r, q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = h.flags.SearchPageSize(r.Context(), h.pageSize)
	}

	matches := route.Search(q.Query, h.store.GetAllRoutes(q.Mode))
	page := route.Page(matches, q.Limit)
	h.metrics.RecordSearch(r.Context(), string(q.Mode), len(matches))

	response.JSON(w, r, http.StatusOK, models.RouteSearchResult{
		Query: q.Query,
		Mode:  q.Mode,
		Items: h.withAlerts(r, page),
		Meta:  models.NewPagedResponseMeta(q.Limit, len(page), len(matches)),
	})
}

// PlanJourneys handles GET /v1/journeys - direct, one-change or fallback journeys.
func (h *RouteHandler) PlanJourneys(w http.ResponseWriter, r *http.Request) {
	q := models.JourneyQuery{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if !validateQuery(w, r, q) {
		return
	}

	journeys := h.planner.Plan(q.From, q.To, route.PlanOptions{
		DisableFallback: h.flags.FallbackRoutesDisabled(r.Context()),
	})
	if len(journeys) > 0 {
		h.metrics.RecordJourney(r.Context(), journeys[0].Fallback)
	}

	response.JSON(w, r, http.StatusOK, models.JourneyList{
		From:  q.From,
		To:    q.To,
		Items: journeys,
	})
}

// withAlerts pairs routes with their active alerts. Alert failures degrade
// to routes without alerts.
func (h *RouteHandler) withAlerts(r *http.Request, routes []*route.Route) []models.RouteDetail {
	out := make([]models.RouteDetail, len(routes))
	for i, rt := range routes {
		out[i] = models.RouteDetail{Route: rt, Alerts: []*alert.Alert{}}
	}
	if h.alerts == nil || h.flags.AlertsDisabled(r.Context()) || len(routes) == 0 {
		return out
	}

	merged, err := h.alerts.ForRoutes(r.Context(), routes)
	if err != nil {
		h.logger.Warn().Err(err).
			Str("request_id", GetRequestID(r.Context())).
			Msg("serving routes without alerts")
		return out
	}
	for i, m := range merged {
		if len(m.Alerts) > 0 {
			out[i].Alerts = m.Alerts
		}
	}
	return out
}
