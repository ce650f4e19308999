package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const queryMeterName = "github.com/mumbaitransit/mumbaitransit/internal/telemetry"

// QueryMetrics holds instruments for the transit query operations. A nil
// *QueryMetrics records nothing.
type QueryMetrics struct {
	searches        metric.Int64Counter
	searchResults   metric.Int64Histogram
	journeys        metric.Int64Counter
	fareLookups     metric.Int64Counter
	crowdEstimates  metric.Int64Counter
	alertCacheHit   metric.Int64Counter
	alertCacheMiss  metric.Int64Counter
	feedRefreshTime metric.Float64Histogram
	feedRefreshes   metric.Int64Counter
}

// NewQueryMetrics creates instruments on the global meter provider.
func NewQueryMetrics() (*QueryMetrics, error) {
	return NewQueryMetricsWithMeter(otel.Meter(queryMeterName))
}

// NewQueryMetricsWithMeter creates instruments on meter.
func NewQueryMetricsWithMeter(meter metric.Meter) (*QueryMetrics, error) {
	var (
		m   QueryMetrics
		err error
	)

	if m.searches, err = meter.Int64Counter(
		"transit.search.total",
		metric.WithDescription("Number of route searches"),
		metric.WithUnit("{search}"),
	); err != nil {
		return nil, err
	}

	if m.searchResults, err = meter.Int64Histogram(
		"transit.search.results",
		metric.WithDescription("Number of routes matched per search"),
		metric.WithUnit("{route}"),
	); err != nil {
		return nil, err
	}

	if m.journeys, err = meter.Int64Counter(
		"transit.journey.total",
		metric.WithDescription("Number of journey plans"),
		metric.WithUnit("{plan}"),
	); err != nil {
		return nil, err
	}

	if m.fareLookups, err = meter.Int64Counter(
		"transit.fare.total",
		metric.WithDescription("Number of fare calculations"),
		metric.WithUnit("{lookup}"),
	); err != nil {
		return nil, err
	}

	if m.crowdEstimates, err = meter.Int64Counter(
		"transit.crowd.total",
		metric.WithDescription("Number of crowd estimates"),
		metric.WithUnit("{estimate}"),
	); err != nil {
		return nil, err
	}

	if m.alertCacheHit, err = meter.Int64Counter(
		"transit.alerts.cache.hit",
		metric.WithDescription("Alert cache hits"),
		metric.WithUnit("{hit}"),
	); err != nil {
		return nil, err
	}

	if m.alertCacheMiss, err = meter.Int64Counter(
		"transit.alerts.cache.miss",
		metric.WithDescription("Alert cache misses"),
		metric.WithUnit("{miss}"),
	); err != nil {
		return nil, err
	}

	if m.feedRefreshTime, err = meter.Float64Histogram(
		"transit.alerts.feed.duration",
		metric.WithDescription("Duration of alert feed refreshes in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.feedRefreshes, err = meter.Int64Counter(
		"transit.alerts.feed.total",
		metric.WithDescription("Number of alert feed refreshes"),
		metric.WithUnit("{refresh}"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// RecordSearch records one search and the size of its match set.
func (m *QueryMetrics) RecordSearch(ctx context.Context, mode string, results int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("transit.mode", mode))
	m.searches.Add(ctx, 1, attrs)
	m.searchResults.Record(ctx, int64(results), attrs)
}

// RecordJourney records a journey plan and whether it fell back.
func (m *QueryMetrics) RecordJourney(ctx context.Context, fallback bool) {
	if m == nil {
		return
	}
	m.journeys.Add(ctx, 1, metric.WithAttributes(attribute.Bool("transit.fallback", fallback)))
}

// RecordFare records a fare calculation.
func (m *QueryMetrics) RecordFare(ctx context.Context, line string, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("transit.line", line)}
	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}
	m.fareLookups.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCrowd records crowd estimates by level.
func (m *QueryMetrics) RecordCrowd(ctx context.Context, level string, n int) {
	if m == nil {
		return
	}
	m.crowdEstimates.Add(ctx, int64(n), metric.WithAttributes(attribute.String("crowd.level", level)))
}

// RecordAlertCache records an alert cache lookup.
func (m *QueryMetrics) RecordAlertCache(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.alertCacheHit.Add(ctx, 1)
		return
	}
	m.alertCacheMiss.Add(ctx, 1)
}

// RecordFeedRefresh records one alert feed refresh.
func (m *QueryMetrics) RecordFeedRefresh(ctx context.Context, feed string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("feed.name", feed)}
	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}
	m.feedRefreshTime.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.feedRefreshes.Add(ctx, 1, metric.WithAttributes(attrs...))
}
