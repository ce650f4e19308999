package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mumbaitransit/mumbaitransit/internal/alert"
	"github.com/mumbaitransit/mumbaitransit/internal/api"
	"github.com/mumbaitransit/mumbaitransit/internal/api/models"
	"github.com/mumbaitransit/mumbaitransit/internal/auth"
	"github.com/mumbaitransit/mumbaitransit/internal/crowd"
	"github.com/mumbaitransit/mumbaitransit/internal/fare"
	"github.com/mumbaitransit/mumbaitransit/internal/featureflags"
	"github.com/mumbaitransit/mumbaitransit/internal/route"
	"github.com/mumbaitransit/mumbaitransit/internal/station"
)

const testSigningKey = "test-secret-key-for-testing-only"

type testEnv struct {
	router http.Handler
	flags  *featureflags.Service
	jwt    *auth.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := route.NewStore(route.DefaultRoutes())
	require.NoError(t, err)

	stations := station.NewDefaultRegistry()
	now := time.Now()

	alerts := alert.NewService(alert.ServiceConfig{
		Provider: alert.NewStaticProvider("static", alert.DevelopmentAlerts(now)),
		Logger:   zerolog.Nop(),
	})

	flags := featureflags.NewService(featureflags.ServiceConfig{
		Repository: featureflags.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})

	jwt := auth.NewJWTService(auth.JWTConfig{
		SigningKey: testSigningKey,
		Issuer:     "mumbaitransit",
		Audience:   "mumbaitransit-admin",
	})

	router := api.NewRouter(api.RouterConfig{
		Version:            "test",
		BuildTime:          "now",
		Logger:             zerolog.Nop(),
		Routes:             store,
		Planner:            route.NewPlanner(store, route.PlannerConfig{FallbackEnabled: true}),
		Fares:              fare.NewDefaultCalculator(),
		Stations:           stations,
		Estimator:          crowd.NewEstimator(crowd.EstimatorConfig{Stations: stations}),
		AlertService:       alerts,
		FeatureFlagService: flags,
		JWTService:         jwt,
		SearchPageSize:     5,
	})

	return &testEnv{router: router, flags: flags, jwt: jwt}
}

func (e *testEnv) token(t *testing.T, role auth.Role) string {
	t.Helper()
	token, _, err := e.jwt.GenerateAccessToken("ops@mumbaitransit", role, time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, body []byte, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestRouter_OpsEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("health", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/ops/health", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var health models.Health
		decode(t, rec, &health)
		assert.Equal(t, models.HealthStatusOK, health.Status)
		assert.Equal(t, "test", health.Details["version"])
	})

	t.Run("ready", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/ops/ready", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("status", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/ops/status", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var status models.SystemStatus
		decode(t, rec, &status)
		assert.Equal(t, models.HealthStatusOK, status.Status)
		assert.NotEmpty(t, status.Subsystems)
		assert.Positive(t, status.Catalogue["bus"])
		assert.Positive(t, status.Catalogue["train"])
	})
}

func problemType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var p models.Problem
	decode(t, rec, &p)
	return p.Type
}

func TestRouter_UnknownEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/nowhere", nil, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestRouter_Routes(t *testing.T) {
	env := newTestEnv(t)

	t.Run("list by mode", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/routes?mode=metro", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list models.RouteList
		decode(t, rec, &list)
		assert.Equal(t, route.ModeMetro, list.Mode)
		assert.Equal(t, len(list.Items), list.Total)
		for _, r := range list.Items {
			assert.Equal(t, route.ModeMetro, r.Mode)
		}
	})

	t.Run("invalid mode", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/routes?mode=rickshaw", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get with alerts", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/routes/bus/242", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var detail models.RouteDetail
		decode(t, rec, &detail)
		assert.Equal(t, "242", detail.ID)
		require.Len(t, detail.Alerts, 1)
		assert.Equal(t, "dev-242-diversion", detail.Alerts[0].ID)
	})

	t.Run("get unknown", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/routes/bus/9999", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_SearchRoutes(t *testing.T) {
	env := newTestEnv(t)

	t.Run("uses configured page size", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/routes/search?q=an", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var result models.RouteSearchResult
		decode(t, rec, &result)
		assert.Equal(t, 5, result.Meta.Limit)
		assert.Len(t, result.Items, 5)
		assert.True(t, result.Meta.Truncated)
		assert.Greater(t, result.Meta.Total, 5)
	})

	t.Run("explicit limit", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/routes/search?q=churchgate&mode=train&limit=2", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var result models.RouteSearchResult
		decode(t, rec, &result)
		assert.Len(t, result.Items, 2)
		for _, item := range result.Items {
			assert.Equal(t, route.ModeTrain, item.Mode)
		}
	})

	for name, path := range map[string]string{
		"missing query":    "/v1/routes/search",
		"one-letter query": "/v1/routes/search?q=a",
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, path, nil, "")
			require.Equal(t, http.StatusOK, rec.Code)

			var result models.RouteSearchResult
			decode(t, rec, &result)
			assert.Empty(t, result.Items)
			assert.Equal(t, 0, result.Meta.Total)
		})
	}

	t.Run("flag overrides configured page size", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.flags.SetFlag(t.Context(), &featureflags.Flag{
			Key:   featureflags.FlagSearchPageSize,
			Value: float64(7),
		}))

		rec := env.do(t, http.MethodGet, "/v1/routes/search?q=an", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var result models.RouteSearchResult
		decode(t, rec, &result)
		assert.Equal(t, 7, result.Meta.Limit)
		assert.Len(t, result.Items, 7)
	})

	t.Run("limit out of range", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/routes/search?q=an&limit=500", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-numeric limit", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/routes/search?q=an&limit=ten", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_PlanJourneys(t *testing.T) {
	env := newTestEnv(t)

	t.Run("direct", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/journeys?from=Versova&to=Ghatkopar", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list models.JourneyList
		decode(t, rec, &list)
		require.NotEmpty(t, list.Items)
		assert.False(t, list.Items[0].Fallback)
	})

	t.Run("fallback", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/journeys?from=Nowhere&to=Elsewhere", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list models.JourneyList
		decode(t, rec, &list)
		require.Len(t, list.Items, 1)
		assert.True(t, list.Items[0].Fallback)
	})

	t.Run("fallback disabled by flag", func(t *testing.T) {
		require.NoError(t, env.flags.SetFlag(t.Context(), &featureflags.Flag{
			Key:   featureflags.FlagDisableFallbackRoutes,
			Value: true,
		}))
		t.Cleanup(func() {
			_ = env.flags.SetFlag(t.Context(), &featureflags.Flag{
				Key:   featureflags.FlagDisableFallbackRoutes,
				Value: false,
			})
		})

		rec := env.do(t, http.MethodGet, "/v1/journeys?from=Nowhere&to=Elsewhere", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list models.JourneyList
		decode(t, rec, &list)
		assert.Empty(t, list.Items)
	})

	t.Run("missing to", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/journeys?from=Versova", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_Fares(t *testing.T) {
	env := newTestEnv(t)

	t.Run("lines", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/lines", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list models.LineList
		decode(t, rec, &list)
		assert.NotEmpty(t, list.Items)
	})

	t.Run("fare by distance", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/fares?line=western&distanceKm=12", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var f fare.Fare
		decode(t, rec, &f)
		assert.Equal(t, fare.LineWestern, f.Line)
		assert.Positive(t, f.SecondClass)
		assert.Greater(t, f.FirstClass, f.SecondClass)
	})

	t.Run("unknown line", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/fares?line=hyperloop&distanceKm=12", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, models.ProblemTypeUnknownLine, problemType(t, rec))
	})

	t.Run("line catalogue is cacheable", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/lines", nil, "")
		assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	})

	t.Run("negative distance", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/fares?line=western&distanceKm=-1", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("between stations", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/fares/stations?from=CCG&to=ADH", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var sf models.StationFare
		decode(t, rec, &sf)
		assert.Equal(t, "CCG", sf.From.ID)
		assert.Equal(t, "ADH", sf.To.ID)
		assert.Positive(t, sf.Fare.SecondClass)
	})

	t.Run("stations on different lines", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/fares/stations?from=CCG&to=M1-GKP", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, models.ProblemTypeDifferentLines, problemType(t, rec))
	})
}

func TestRouter_Stations(t *testing.T) {
	env := newTestEnv(t)

	t.Run("get with alerts", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/stations/BA", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var detail models.StationDetail
		decode(t, rec, &detail)
		assert.Equal(t, "BA", detail.ID)
		assert.NotEmpty(t, detail.Alerts)
	})

	t.Run("unknown station", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/stations/XYZ", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, models.ProblemTypeUnknownStation, problemType(t, rec))
	})

	t.Run("crowd at time", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/stations/DDR/crowd?at=2026-03-02T09:00:00%2B05:30", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var est crowd.Estimate
		decode(t, rec, &est)
		assert.Equal(t, "DDR", est.StationID)
		assert.NotEmpty(t, est.Level)
	})

	t.Run("crowd bad time", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/stations/DDR/crowd?at=morning", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("forecast", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/stations/DDR/crowd/forecast?hours=3", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var forecast models.CrowdForecast
		decode(t, rec, &forecast)
		assert.Len(t, forecast.Items, 3)
		assert.Equal(t, "Asia/Kolkata", forecast.TimeZone)
	})

	t.Run("forecast too long", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/stations/DDR/crowd/forecast?hours=100", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("crowd disabled by flag", func(t *testing.T) {
		require.NoError(t, env.flags.SetFlag(t.Context(), &featureflags.Flag{
			Key:   featureflags.FlagDisableCrowdEstimates,
			Value: true,
		}))

		rec := env.do(t, http.MethodGet, "/v1/stations/DDR/crowd", nil, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, models.ProblemTypeFeatureDisabled, problemType(t, rec))
	})
}

func TestRouter_Alerts(t *testing.T) {
	env := newTestEnv(t)

	t.Run("filter by route", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/alerts?routeId=242&mode=bus", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list models.AlertList
		decode(t, rec, &list)
		require.Equal(t, 1, list.Total)
		assert.Equal(t, "dev-242-diversion", list.Items[0].ID)
	})

	t.Run("summary", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/alerts/summary", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("get", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/alerts/dev-wr-block", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var a alert.Alert
		decode(t, rec, &a)
		assert.Equal(t, alert.SeverityWarning, a.Severity)
	})

	t.Run("get unknown", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/alerts/nope", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("disabled by flag", func(t *testing.T) {
		require.NoError(t, env.flags.SetFlag(t.Context(), &featureflags.Flag{
			Key:   featureflags.FlagDisableAlerts,
			Value: true,
		}))

		rec := env.do(t, http.MethodGet, "/v1/alerts", nil, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		// Routes are still served, without alerts.
		rec = env.do(t, http.MethodGet, "/v1/routes/bus/242", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var detail models.RouteDetail
		decode(t, rec, &detail)
		assert.Empty(t, detail.Alerts)
	})
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/admin/feature-flags", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/admin/feature-flags", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_AdminFeatureFlags(t *testing.T) {
	env := newTestEnv(t)

	t.Run("operator can list", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/admin/feature-flags", nil, env.token(t, auth.RoleOperator))
		require.Equal(t, http.StatusOK, rec.Code)

		var list featureflags.FlagList
		decode(t, rec, &list)
		require.GreaterOrEqual(t, len(list.Items), len(featureflags.KnownFlags))
		assert.Equal(t, featureflags.KnownFlags[0], list.Items[0].Key)
	})

	body := []byte(`{"updates":[{"key":"disable_alerts","value":true}],"reason":"provider outage"}`)

	t.Run("operator cannot update", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/v1/admin/feature-flags", body, env.token(t, auth.RoleOperator))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin updates", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/v1/admin/feature-flags", body, env.token(t, auth.RoleAdmin))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.True(t, env.flags.AlertsDisabled(t.Context()))

		var list featureflags.FlagList
		decode(t, rec, &list)
		for _, f := range list.Items {
			if f.Key == featureflags.FlagDisableAlerts {
				assert.Equal(t, "ops@mumbaitransit", f.UpdatedBy)
				assert.Equal(t, "provider outage", f.Reason)
			}
		}
	})

	t.Run("update needs json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/v1/admin/feature-flags", bytes.NewReader(body))
		req.Header.Set("Content-Type", "text/plain")
		req.Header.Set("Authorization", "Bearer "+env.token(t, auth.RoleAdmin))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("unknown flag", func(t *testing.T) {
		bad := []byte(`{"updates":[{"key":"warp_drive","value":true}],"reason":"test"}`)
		rec := env.do(t, http.MethodPut, "/v1/admin/feature-flags", bad, env.token(t, auth.RoleAdmin))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing reason", func(t *testing.T) {
		bad := []byte(`{"updates":[{"key":"disable_alerts","value":false}]}`)
		rec := env.do(t, http.MethodPut, "/v1/admin/feature-flags", bad, env.token(t, auth.RoleAdmin))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("admin resets to default", func(t *testing.T) {
		require.True(t, env.flags.AlertsDisabled(t.Context()))

		rec := env.do(t, http.MethodDelete, "/v1/admin/feature-flags/disable_alerts", nil, env.token(t, auth.RoleAdmin))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.False(t, env.flags.AlertsDisabled(t.Context()))

		var flag featureflags.Flag
		decode(t, rec, &flag)
		assert.Equal(t, featureflags.FlagDisableAlerts, flag.Key)
		assert.Equal(t, false, flag.Value)
	})

	t.Run("operator cannot reset", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/v1/admin/feature-flags/disable_alerts", nil, env.token(t, auth.RoleOperator))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("reset unknown flag", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/v1/admin/feature-flags/warp_drive", nil, env.token(t, auth.RoleAdmin))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalidate", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/admin/feature-flags/invalidate", nil, env.token(t, auth.RoleOperator))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRouter_AdminAlertCache(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, auth.RoleOperator)

	// Warm the cache.
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/v1/alerts", nil, "").Code)

	rec := env.do(t, http.MethodGet, "/v1/admin/alerts/cache", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats alert.CacheStats
	decode(t, rec, &stats)
	assert.True(t, stats.HasCache)
	assert.Equal(t, int64(1), stats.Fetches)

	rec = env.do(t, http.MethodPost, "/v1/admin/alerts/invalidate", nil, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/admin/alerts/cache", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &stats)
	assert.False(t, stats.HasCache)
}

func TestRouter_WithoutAlertService(t *testing.T) {
	store, err := route.NewStore(route.DefaultRoutes())
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:   zerolog.Nop(),
		Routes:   store,
		Planner:  route.NewPlanner(store, route.PlannerConfig{}),
		Fares:    fare.NewDefaultCalculator(),
		Stations: station.NewDefaultRegistry(),
		Estimator: crowd.NewEstimator(crowd.EstimatorConfig{
			Stations: station.NewDefaultRegistry(),
		}),
		JWTService: auth.NewJWTService(auth.JWTConfig{SigningKey: testSigningKey}),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/alerts", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/routes/bus/242", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var detail models.RouteDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Empty(t, detail.Alerts)
}
