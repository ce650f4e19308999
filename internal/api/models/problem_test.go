package models_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mumbaitransit/mumbaitransit/internal/api/models"
)

func TestKnown(t *testing.T) {
	tests := []struct {
		problemType string
		title       string
		status      int
	}{
		{models.ProblemTypeValidation, "Validation error", http.StatusBadRequest},
		{models.ProblemTypeUnauthorized, "Unauthorized", http.StatusUnauthorized},
		{models.ProblemTypeForbidden, "Forbidden", http.StatusForbidden},
		{models.ProblemTypeTLSRequired, "TLS required", http.StatusForbidden},
		{models.ProblemTypeUnsupportedMedia, "Unsupported media type", http.StatusUnsupportedMediaType},
		{models.ProblemTypeUnknownLine, "Unknown line", http.StatusNotFound},
		{models.ProblemTypeUnknownStation, "Unknown station", http.StatusNotFound},
		{models.ProblemTypeRouteNotFound, "Route not found", http.StatusNotFound},
		{models.ProblemTypeAlertNotFound, "Alert not found", http.StatusNotFound},
		{models.ProblemTypeDifferentLines, "Stations on different lines", http.StatusBadRequest},
		{models.ProblemTypeFeatureDisabled, "Feature disabled", http.StatusServiceUnavailable},
		{models.ProblemTypeFeedsUnavailable, "Alert feeds unavailable", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			p := models.Known(tt.problemType, "mt_abc", "detail")

			assert.Equal(t, tt.problemType, p.Type)
			assert.Equal(t, tt.title, p.Title)
			assert.Equal(t, tt.status, p.Status)
			assert.Equal(t, "mt_abc", p.TraceID)
			assert.Equal(t, "detail", p.Detail)
		})
	}
}

func TestKnown_UnregisteredTypeIsInternal(t *testing.T) {
	p := models.Known("https://example.invalid/problems/nope", "mt_abc", "boom")

	assert.Equal(t, models.ProblemTypeInternal, p.Type)
	assert.Equal(t, http.StatusInternalServerError, p.Status)
	assert.Equal(t, "boom", p.Detail)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name        string
		problem     *models.Problem
		problemType string
		status      int
	}{
		{"unauthorized", models.NewUnauthorized("mt_1", "token expired"), models.ProblemTypeUnauthorized, http.StatusUnauthorized},
		{"forbidden", models.NewForbidden("mt_1", "admin role required"), models.ProblemTypeForbidden, http.StatusForbidden},
		{"not found", models.NewNotFound("mt_1", "no such endpoint"), models.ProblemTypeNotFound, http.StatusNotFound},
		{"too many", models.NewTooManyRequests("mt_1", "slow down"), models.ProblemTypeTooManyRequests, http.StatusTooManyRequests},
		{"internal", models.NewInternalError("mt_1", "database error"), models.ProblemTypeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.problemType, tt.problem.Type)
			assert.Equal(t, tt.status, tt.problem.Status)
			assert.Equal(t, "mt_1", tt.problem.TraceID)
			assert.NotEmpty(t, tt.problem.Detail)
		})
	}
}

func TestNewBadRequest_CarriesFields(t *testing.T) {
	p := models.NewBadRequest("mt_1", "invalid request parameters", []models.FieldError{
		{Field: "distanceKm", Message: "must be at least 0", Code: "gte"},
		{Field: "line", Message: "is required", Code: "required"},
	})

	assert.Equal(t, models.ProblemTypeValidation, p.Type)
	require.Len(t, p.Errors, 2)
	assert.Equal(t, "distanceKm", p.Errors[0].Field)
	assert.Equal(t, "required", p.Errors[1].Code)
}

func TestProblem_Write(t *testing.T) {
	p := models.Known(models.ProblemTypeUnknownStation, "mt_abc", "unknown station: XYZ").
		WithInstance("/v1/stations/XYZ")

	w := httptest.NewRecorder()
	p.Write(w)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Equal(t, "mt_abc", w.Header().Get("X-Request-Id"))

	var got models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.ProblemTypeUnknownStation, got.Type)
	assert.Equal(t, "Unknown station", got.Title)
	assert.Equal(t, "/v1/stations/XYZ", got.Instance)
	assert.Empty(t, got.Errors)
}
