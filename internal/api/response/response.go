// Package response writes JSON and problem responses for the API handlers.
package response

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mumbaitransit/mumbaitransit/internal/api/middleware"
	"github.com/mumbaitransit/mumbaitransit/internal/api/models"
)

// Cache lifetimes advertised to clients. Reference data (lines, routes,
// stations) only changes on deploy; alerts change with every feed refresh.
const (
	ReferenceMaxAge = time.Hour
	LiveMaxAge      = 30 * time.Second
)

// JSON writes data as JSON with the given status code and echoes the
// request id for correlation.
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	setRequestID(w, r)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Cached writes a 200 JSON response that shared caches may keep for maxAge.
func Cached(w http.ResponseWriter, r *http.Request, maxAge time.Duration, data interface{}) {
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(maxAge/time.Second)))
	JSON(w, r, http.StatusOK, data)
}

// NoContent writes a 204 with the request id header.
func NoContent(w http.ResponseWriter, r *http.Request) {
	setRequestID(w, r)
	w.WriteHeader(http.StatusNoContent)
}

// Error writes problem as application/problem+json for the request path.
func Error(w http.ResponseWriter, r *http.Request, problem *models.Problem) {
	problem.Instance = r.URL.Path
	problem.Write(w)
}

// Problem writes a problem of a registered type.
func Problem(w http.ResponseWriter, r *http.Request, problemType, detail string) {
	Error(w, r, models.Known(problemType, middleware.GetRequestID(r.Context()), detail))
}

// Disabled writes a 503 for a subsystem switched off by a feature flag.
func Disabled(w http.ResponseWriter, r *http.Request, detail string) {
	Problem(w, r, models.ProblemTypeFeatureDisabled, detail)
}

// BadRequest writes a 400 listing the offending fields.
func BadRequest(w http.ResponseWriter, r *http.Request, detail string, fields []models.FieldError) {
	Error(w, r, models.NewBadRequest(middleware.GetRequestID(r.Context()), detail, fields))
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter, r *http.Request, detail string) {
	Error(w, r, models.NewNotFound(middleware.GetRequestID(r.Context()), detail))
}

// InternalError writes a 500.
func InternalError(w http.ResponseWriter, r *http.Request, detail string) {
	Error(w, r, models.NewInternalError(middleware.GetRequestID(r.Context()), detail))
}

func setRequestID(w http.ResponseWriter, r *http.Request) {
	if id := middleware.GetRequestID(r.Context()); id != "" {
		w.Header().Set(middleware.RequestIDHeader, id)
	}
}
