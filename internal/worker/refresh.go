package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mumbaitransit/mumbaitransit/internal/alert"
	"github.com/mumbaitransit/mumbaitransit/internal/events"
	"github.com/mumbaitransit/mumbaitransit/internal/provider/resilience"
	"github.com/mumbaitransit/mumbaitransit/internal/telemetry"
)

var (
	// ErrNoStore is reported for each feed when Run has nowhere to write.
	ErrNoStore = errors.New("worker: no alert store configured")

	// ErrUnknownFeed is returned by RunFeeds for a name that is not configured.
	ErrUnknownFeed = errors.New("worker: unknown alert feed")
)

// RefreshJob fetches every configured alert feed and writes the results to
// the alert store.
type RefreshJob struct {
	config    RefreshConfig
	logger    zerolog.Logger
	feeds     []alert.Provider
	store     alert.Store
	publisher events.Publisher
	registry  *resilience.Registry
	telemetry *telemetry.QueryMetrics
	now       func() time.Time

	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns       int64
	FeedsRefreshed  int64
	FeedsFailed     int64
	AlertsWritten   int64
	EventsPublished int64
	PublishFailures int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config RefreshConfig
	Logger zerolog.Logger

	// Feeds are the alert sources to refresh.
	Feeds []alert.Provider

	// Store receives each feed's alerts. Required for Run.
	Store alert.Store

	// Publisher receives an alerts.refreshed event after each run.
	// Defaults to events.NopPublisher.
	Publisher events.Publisher

	// Registry records per-feed outcomes for the status endpoint. Optional.
	Registry *resilience.Registry

	// Metrics records feed refresh durations. Optional.
	Metrics *telemetry.QueryMetrics

	// Now supplies event timestamps. Defaults to time.Now.
	Now func() time.Time
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &RefreshJob{
		config:    cfg.Config.withDefaults(),
		logger:    cfg.Logger,
		feeds:     cfg.Feeds,
		store:     cfg.Store,
		publisher: publisher,
		registry:  cfg.Registry,
		telemetry: cfg.Metrics,
		now:       now,
		metrics:   &RefreshMetrics{},
	}
}

// RefreshResult contains the result of a refresh operation.
type RefreshResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	TotalFeeds  int
	Successful  int
	Failed      int
	TotalAlerts int
	Feeds       []events.FeedRefresh
	Errors      []RefreshError
}

// RefreshError represents an error during refresh.
type RefreshError struct {
	Feed  string
	Error string
}

// Run fetches every feed, writes the alerts to the store and publishes an
// alerts.refreshed event.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	result := j.run(ctx, j.feeds, true)
	j.publish(ctx, result)
	return result
}

// RunFeeds is Run restricted to the named feeds. An empty list means every
// feed. Nothing is fetched if any name is unknown.
func (j *RefreshJob) RunFeeds(ctx context.Context, names []string) (*RefreshResult, error) {
	if len(names) == 0 {
		return j.Run(ctx), nil
	}

	byName := make(map[string]alert.Provider, len(j.feeds))
	for _, f := range j.feeds {
		byName[f.Name()] = f
	}
	selected := make([]alert.Provider, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		f, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFeed, name)
		}
		if !seen[name] {
			seen[name] = true
			selected = append(selected, f)
		}
	}

	result := j.run(ctx, selected, true)
	j.publish(ctx, result)
	return result, nil
}

// Check fetches every feed without writing or publishing anything.
func (j *RefreshJob) Check(ctx context.Context) *RefreshResult {
	return j.run(ctx, j.feeds, false)
}

// Schedule runs the job now and then every interval until ctx is done.
func (j *RefreshJob) Schedule(ctx context.Context, interval time.Duration) {
	j.logger.Info().Dur("interval", interval).Msg("starting scheduled alert refresh")

	j.Run(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("scheduled alert refresh stopped")
			return
		case <-ticker.C:
			j.Run(ctx)
		}
	}
}

func (j *RefreshJob) run(ctx context.Context, feeds []alert.Provider, write bool) *RefreshResult {
	startTime := time.Now()
	result := &RefreshResult{
		StartTime:  startTime,
		TotalFeeds: len(feeds),
	}

	j.logger.Info().
		Int("total_feeds", result.TotalFeeds).
		Int("concurrency", j.config.Concurrency).
		Bool("write", write).
		Msg("starting alert refresh job")

	feedsChan := make(chan alert.Provider, len(feeds))
	resultsChan := make(chan feedResult, len(feeds))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.refreshWorker(ctx, write, feedsChan, resultsChan)
		}()
	}

	for _, f := range feeds {
		feedsChan <- f
	}
	close(feedsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	byName := make(map[string]feedResult, len(feeds))
	for fr := range resultsChan {
		byName[fr.name] = fr
	}

	// Report in configuration order; feeds skipped on cancellation count as failed.
	for _, f := range feeds {
		fr, ok := byName[f.Name()]
		if !ok {
			fr = feedResult{name: f.Name(), err: ctx.Err()}
			if fr.err == nil {
				fr.err = fmt.Errorf("feed %s not refreshed", f.Name())
			}
		}

		entry := events.FeedRefresh{
			Feed:       fr.name,
			Alerts:     fr.alerts,
			DurationMs: fr.duration.Milliseconds(),
		}
		if fr.err != nil {
			entry.Error = fr.err.Error()
			result.Failed++
			result.Errors = append(result.Errors, RefreshError{Feed: fr.name, Error: fr.err.Error()})
		} else {
			result.Successful++
			result.TotalAlerts += fr.alerts
		}
		result.Feeds = append(result.Feeds, entry)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	if write {
		j.updateMetrics(result)
	}

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Int("alerts", result.TotalAlerts).
		Msg("alert refresh job completed")

	return result
}

type feedResult struct {
	name     string
	alerts   int
	duration time.Duration
	err      error
}

func (j *RefreshJob) refreshWorker(ctx context.Context, write bool, feeds <-chan alert.Provider, results chan<- feedResult) {
	for feed := range feeds {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.refreshFeed(ctx, feed, write)
		}
	}
}

func (j *RefreshJob) refreshFeed(ctx context.Context, feed alert.Provider, write bool) feedResult {
	name := feed.Name()
	start := time.Now()

	feedCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	alerts, err := feed.FetchAlerts(feedCtx)
	if err == nil && write {
		if j.store == nil {
			err = ErrNoStore
		} else if werr := j.store.ReplaceAlerts(feedCtx, name, alerts); werr != nil {
			err = fmt.Errorf("storing alerts: %w", werr)
		}
	}

	res := feedResult{name: name, alerts: len(alerts), duration: time.Since(start), err: err}
	j.telemetry.RecordFeedRefresh(ctx, name, res.duration, err)

	if err != nil {
		j.logger.Warn().Err(err).Str("feed", name).Msg("alert feed refresh failed")
		if j.registry != nil {
			j.registry.RecordFailure(name, err)
		}
		return res
	}

	j.logger.Debug().
		Str("feed", name).
		Int("alerts", res.alerts).
		Dur("duration", res.duration).
		Msg("alert feed refreshed")
	if j.registry != nil {
		j.registry.RecordSuccess(name)
	}
	return res
}

func (j *RefreshJob) publish(ctx context.Context, result *RefreshResult) {
	event, err := events.New(events.TypeAlertsRefreshed, j.config.EventSource, events.AlertsRefreshed{
		Feeds:       result.Feeds,
		TotalAlerts: result.TotalAlerts,
		Failed:      result.Failed,
	}, j.now())
	if err == nil {
		err = j.publisher.Publish(ctx, event)
	}

	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()
	if err != nil {
		j.metrics.PublishFailures++
		j.logger.Error().Err(err).Msg("failed to publish alerts refreshed event")
		return
	}
	j.metrics.EventsPublished++
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.FeedsRefreshed += int64(result.Successful)
	j.metrics.FeedsFailed += int64(result.Failed)
	j.metrics.AlertsWritten += int64(result.TotalAlerts)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		FeedsRefreshed:  j.metrics.FeedsRefreshed,
		FeedsFailed:     j.metrics.FeedsFailed,
		AlertsWritten:   j.metrics.AlertsWritten,
		EventsPublished: j.metrics.EventsPublished,
		PublishFailures: j.metrics.PublishFailures,
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
		TotalDuration:   j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"feeds_refreshed":   m.FeedsRefreshed,
		"feeds_failed":      m.FeedsFailed,
		"alerts_written":    m.AlertsWritten,
		"events_published":  m.EventsPublished,
		"publish_failures":  m.PublishFailures,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
