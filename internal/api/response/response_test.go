package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mumbaitransit/mumbaitransit/internal/api/middleware"
	"github.com/mumbaitransit/mumbaitransit/internal/api/models"
	"github.com/mumbaitransit/mumbaitransit/internal/api/response"
)

// serve runs write behind the RequestID middleware so the request carries
// an id, as it does in the router.
func serve(method, path, inboundID string, write func(http.ResponseWriter, *http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	if inboundID != "" {
		req.Header.Set(middleware.RequestIDHeader, inboundID)
	}
	rec := httptest.NewRecorder()
	middleware.RequestID(http.HandlerFunc(write)).ServeHTTP(rec, req)
	return rec
}

func TestJSON(t *testing.T) {
	rec := serve(http.MethodGet, "/v1/lines", "kiosk-42", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"line": "western"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "kiosk-42", rec.Header().Get(middleware.RequestIDHeader))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"line":"western"}`, rec.Body.String())
}

func TestJSON_WithoutRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	response.JSON(rec, httptest.NewRequest(http.MethodGet, "/v1/lines", http.NoBody), http.StatusCreated, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Zero(t, rec.Body.Len())
}

func TestCached(t *testing.T) {
	tests := []struct {
		name   string
		maxAge time.Duration
		want   string
	}{
		{"reference", response.ReferenceMaxAge, "public, max-age=3600"},
		{"live", response.LiveMaxAge, "public, max-age=30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(http.MethodGet, "/v1/alerts", "", func(w http.ResponseWriter, r *http.Request) {
				response.Cached(w, r, tt.maxAge, []string{})
			})

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Cache-Control"))
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestNoContent(t *testing.T) {
	rec := serve(http.MethodPost, "/v1/admin/alerts/invalidate", "", response.NoContent)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Zero(t, rec.Body.Len())
}

func TestProblems(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		write       func(http.ResponseWriter, *http.Request)
		status      int
		problemType string
	}{
		{
			name: "bad request",
			path: "/v1/fares",
			write: func(w http.ResponseWriter, r *http.Request) {
				response.BadRequest(w, r, "invalid request parameters", []models.FieldError{
					{Field: "distanceKm", Message: "must be at least 0", Code: "gte"},
				})
			},
			status:      http.StatusBadRequest,
			problemType: models.ProblemTypeValidation,
		},
		{
			name:        "not found",
			path:        "/v1/stations/XYZ",
			write:       func(w http.ResponseWriter, r *http.Request) { response.NotFound(w, r, "station not found") },
			status:      http.StatusNotFound,
			problemType: models.ProblemTypeNotFound,
		},
		{
			name: "internal",
			path: "/v1/journeys",
			write: func(w http.ResponseWriter, r *http.Request) {
				response.InternalError(w, r, "an unexpected error occurred")
			},
			status:      http.StatusInternalServerError,
			problemType: models.ProblemTypeInternal,
		},
		{
			name: "unknown station",
			path: "/v1/stations/XYZ/crowd",
			write: func(w http.ResponseWriter, r *http.Request) {
				response.Problem(w, r, models.ProblemTypeUnknownStation, "unknown station: XYZ")
			},
			status:      http.StatusNotFound,
			problemType: models.ProblemTypeUnknownStation,
		},
		{
			name: "disabled",
			path: "/v1/stations/BA/crowd",
			write: func(w http.ResponseWriter, r *http.Request) {
				response.Disabled(w, r, "crowd estimates are disabled")
			},
			status:      http.StatusServiceUnavailable,
			problemType: models.ProblemTypeFeatureDisabled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(http.MethodGet, tt.path, "", tt.write)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			var problem models.Problem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tt.status, problem.Status)
			assert.Equal(t, tt.problemType, problem.Type)
			assert.Equal(t, tt.path, problem.Instance)
			assert.Equal(t, rec.Header().Get(middleware.RequestIDHeader), problem.TraceID)
		})
	}
}

func TestBadRequest_ListsFields(t *testing.T) {
	rec := serve(http.MethodGet, "/v1/fares", "", func(w http.ResponseWriter, r *http.Request) {
		response.BadRequest(w, r, "invalid request parameters", []models.FieldError{
			{Field: "line", Message: "is required", Code: "required"},
		})
	})

	var problem models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "line", problem.Errors[0].Field)
}
