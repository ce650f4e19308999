package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/mumbaitransit/mumbaitransit/internal/api/middleware"
)

func TestNewMetrics(t *testing.T) {
	metrics, err := middleware.NewMetrics()
	require.NoError(t, err)
	assert.NotNil(t, metrics)
}

func meteredRouter(t *testing.T) (chi.Router, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := middleware.NewMetricsWithMeter(provider.Meter("test"))
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	return r, reader
}

// requestPoints returns the request counter data points.
func requestPoints(t *testing.T, reader *sdkmetric.ManualReader) []metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var points []metricdata.DataPoint[int64]
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != middleware.MetricRequestTotal {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			points = append(points, sum.DataPoints...)
		}
	}
	return points
}

func attr(dp metricdata.DataPoint[int64], key string) (attribute.Value, bool) {
	return dp.Attributes.Value(attribute.Key(key))
}

func TestMetrics_StatusAndErrorType(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		errorType string
	}{
		{"ok", http.StatusOK, ""},
		{"bad request", http.StatusBadRequest, "400"},
		{"unavailable", http.StatusServiceUnavailable, "503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, reader := meteredRouter(t)
			r.Get("/v1/lines", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/lines", http.NoBody))

			points := requestPoints(t, reader)
			require.Len(t, points, 1)
			dp := points[0]
			assert.Equal(t, int64(1), dp.Value)

			status, ok := attr(dp, "http.response.status_code")
			require.True(t, ok)
			assert.Equal(t, int64(tt.status), status.AsInt64())

			errType, ok := attr(dp, "error.type")
			if tt.errorType == "" {
				assert.False(t, ok)
			} else {
				assert.Equal(t, tt.errorType, errType.AsString())
			}
		})
	}
}

func TestMetrics_DefaultStatusIsOK(t *testing.T) {
	r, reader := meteredRouter(t)
	r.Get("/v1/alerts", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/alerts", http.NoBody))

	points := requestPoints(t, reader)
	require.Len(t, points, 1)
	status, _ := attr(points[0], "http.response.status_code")
	assert.Equal(t, int64(http.StatusOK), status.AsInt64())
}

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	r, reader := meteredRouter(t)
	r.Get("/v1/stations/{stationId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"CCG", "BA", "ADH"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/stations/"+id, http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", http.NoBody))

	routes := map[string]int64{}
	for _, dp := range requestPoints(t, reader) {
		route, _ := attr(dp, "http.route")
		routes[route.AsString()] += dp.Value

		_, hasStation := attr(dp, "transit.station.id")
		assert.False(t, hasStation, "station ids must not become metric attributes")
	}

	assert.Equal(t, int64(3), routes["/v1/stations/{stationId}"])
	assert.Equal(t, int64(1), routes["unmatched"])
}

func TestMetrics_RecordsMode(t *testing.T) {
	r, reader := meteredRouter(t)
	r.Get("/v1/routes/{mode}/{routeId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/routes/bus/A-1", http.NoBody))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/routes/bus/83", http.NoBody))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/routes/train/WR-1", http.NoBody))

	modes := map[string]int64{}
	for _, dp := range requestPoints(t, reader) {
		mode, ok := attr(dp, "transit.route.mode")
		require.True(t, ok)
		modes[mode.AsString()] += dp.Value
	}

	assert.Equal(t, map[string]int64{"bus": 2, "train": 1}, modes)
}
