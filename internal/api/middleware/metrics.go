package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/mumbaitransit/mumbaitransit/internal/api/middleware"

// Instrument names.
const (
	MetricRequestDuration  = "http.server.request.duration"
	MetricRequestTotal     = "http.server.request.total"
	MetricRequestsInFlight = "http.server.requests_in_flight"
	MetricResponseSize     = "http.server.response.size"
)

// Path parameters low-cardinality enough to become metric attributes.
// Station and route ids stay on spans only.
var metricParams = []string{"mode"}

// Metrics records per-request HTTP server instruments.
type Metrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
	bodySize metric.Int64Histogram
}

// NewMetrics creates a new Metrics instance on the global meter provider.
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithMeter(otel.Meter(meterName))
}

// NewMetricsWithMeter creates a new Metrics instance with instruments from meter.
func NewMetricsWithMeter(meter metric.Meter) (*Metrics, error) {
	duration, errDuration := meter.Float64Histogram(MetricRequestDuration,
		metric.WithDescription("Duration of HTTP server requests"),
		metric.WithUnit("s"))
	requests, errRequests := meter.Int64Counter(MetricRequestTotal,
		metric.WithDescription("HTTP server requests by route and status"),
		metric.WithUnit("{request}"))
	inFlight, errInFlight := meter.Int64UpDownCounter(MetricRequestsInFlight,
		metric.WithDescription("HTTP requests currently being served"),
		metric.WithUnit("{request}"))
	bodySize, errBodySize := meter.Int64Histogram(MetricResponseSize,
		metric.WithDescription("Size of HTTP server response bodies"),
		metric.WithUnit("By"))

	if err := errors.Join(errDuration, errRequests, errInFlight, errBodySize); err != nil {
		return nil, fmt.Errorf("creating http metrics: %w", err)
	}
	return &Metrics{
		duration: duration,
		requests: requests,
		inFlight: inFlight,
		bodySize: bodySize,
	}, nil
}

// Middleware returns an HTTP middleware that records metrics for each request.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			method := attribute.String("http.request.method", r.Method)
			m.inFlight.Add(r.Context(), 1, metric.WithAttributes(method))
			defer m.inFlight.Add(r.Context(), -1, metric.WithAttributes(method))

			wrapped := newStatusRecorder(w)
			next.ServeHTTP(wrapped, r)

			opt := metric.WithAttributes(requestAttributes(r, wrapped.statusCode)...)
			m.duration.Record(r.Context(), time.Since(start).Seconds(), opt)
			m.requests.Add(r.Context(), 1, opt)
			m.bodySize.Record(r.Context(), wrapped.written, opt)
		})
	}
}

// requestAttributes must run after chi has routed r, since the pattern and
// path parameters are only known then.
func requestAttributes(r *http.Request, status int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", r.Method),
		attribute.String("http.route", routePattern(r)),
		attribute.Int("http.response.status_code", status),
	}
	if status >= http.StatusBadRequest {
		attrs = append(attrs, attribute.String("error.type", strconv.Itoa(status)))
	}

	params := routeParams(r)
	for _, name := range metricParams {
		if value, ok := params[name]; ok {
			attrs = append(attrs, paramAttributes[name].String(value))
		}
	}
	return attrs
}
