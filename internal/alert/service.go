package alert

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/mumbaitransit/mumbaitransit/internal/route"
)

const refreshKey = "alerts"

// CacheRecorder observes cache lookups.
type CacheRecorder interface {
	RecordAlertCache(ctx context.Context, hit bool)
}

// ServiceConfig holds configuration for the alert service.
type ServiceConfig struct {
	// Provider is the alert source.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long fetched alerts are served without refetching
	// (default: 2 minutes).
	CacheTTL time.Duration

	// StaleIfErrorTTL is how long after a fetch its alerts may still be served
	// when the provider fails (default: 30 minutes).
	StaleIfErrorTTL time.Duration

	// ErrorRetryTTL is how long stale alerts served after a provider failure
	// are reused before the provider is tried again (default: 30 seconds).
	ErrorRetryTTL time.Duration

	// Recorder observes cache hits and misses. Optional.
	Recorder CacheRecorder

	// Now supplies the current time. Defaults to time.Now.
	Now func() time.Time
}

// Service serves alerts from a TTL cache over a Provider. Concurrent
// refreshes collapse into a single provider call.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration
	errorRetryTTL   time.Duration
	recorder        CacheRecorder
	now             func() time.Time

	mu    sync.RWMutex
	cache *cachedAlerts
	group singleflight.Group

	hits    atomic.Int64
	misses  atomic.Int64
	fetches atomic.Int64
}

type cachedAlerts struct {
	alerts    []*Alert
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new alert service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 2 * time.Minute
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 30 * time.Minute
	}

	errorRetryTTL := cfg.ErrorRetryTTL
	if errorRetryTTL == 0 {
		errorRetryTTL = 30 * time.Second
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		errorRetryTTL:   errorRetryTTL,
		recorder:        cfg.Recorder,
		now:             now,
	}
}

// GetAlerts returns every cached alert, refreshing from the provider when the
// cache has expired.
func (s *Service) GetAlerts(ctx context.Context) ([]*Alert, error) {
	if alerts, ok := s.fresh(); ok {
		s.record(ctx, true)
		return alerts, nil
	}
	s.record(ctx, false)

	v, err, _ := s.group.Do(refreshKey, func() (interface{}, error) {
		// Another caller may have refreshed while we waited.
		if alerts, ok := s.fresh(); ok {
			return alerts, nil
		}
		return s.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Alert), nil
}

// Refresh fetches from the provider regardless of cache state.
func (s *Service) Refresh(ctx context.Context) ([]*Alert, error) {
	v, err, _ := s.group.Do(refreshKey, func() (interface{}, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Alert), nil
}

// GetActiveAlerts returns the alerts in effect now.
func (s *Service) GetActiveAlerts(ctx context.Context) ([]*Alert, error) {
	all, err := s.GetAlerts(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	active := make([]*Alert, 0, len(all))
	for _, a := range all {
		if a.IsActiveAt(now) {
			active = append(active, a)
		}
	}
	return active, nil
}

// Filter selects alerts. Empty fields match everything.
type Filter struct {
	RouteID   string
	Mode      route.Mode
	StationID string
}

// Find returns the active alerts matching f.
func (s *Service) Find(ctx context.Context, f Filter) ([]*Alert, error) {
	active, err := s.GetActiveAlerts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*Alert, 0, len(active))
	for _, a := range active {
		if f.StationID != "" && !a.AffectsStation(f.StationID) {
			continue
		}
		if (f.RouteID != "" || f.Mode != "") && !matchesRouteFilter(a, f) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func matchesRouteFilter(a *Alert, f Filter) bool {
	for _, ref := range a.Routes {
		if f.RouteID != "" && ref.ID != f.RouteID {
			continue
		}
		if f.Mode != "" && ref.Mode != "" && ref.Mode != f.Mode {
			continue
		}
		return true
	}
	return false
}

// ForRoute returns the active alerts affecting r.
func (s *Service) ForRoute(ctx context.Context, r *route.Route) ([]*Alert, error) {
	active, err := s.GetActiveAlerts(ctx)
	if err != nil {
		return nil, err
	}
	return alertsForRoute(active, r), nil
}

// ForRoutes pairs each route with its active alerts, keeping route order.
func (s *Service) ForRoutes(ctx context.Context, routes []*route.Route) ([]RouteAlerts, error) {
	active, err := s.GetActiveAlerts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RouteAlerts, 0, len(routes))
	for _, r := range routes {
		out = append(out, RouteAlerts{Route: r, Alerts: alertsForRoute(active, r)})
	}
	return out, nil
}

func alertsForRoute(alerts []*Alert, r *route.Route) []*Alert {
	out := make([]*Alert, 0)
	for _, a := range alerts {
		if a.AffectsRoute(r) {
			out = append(out, a)
		}
	}
	return out
}

// ForStation returns the active alerts affecting a station.
func (s *Service) ForStation(ctx context.Context, stationID string) ([]*Alert, error) {
	return s.Find(ctx, Filter{StationID: stationID})
}

// Get returns a single alert by id.
func (s *Service) Get(ctx context.Context, id string) (*Alert, error) {
	all, err := s.GetAlerts(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range all {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAlertNotFound, id)
}

// Summary counts the active alerts.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	active, err := s.GetActiveAlerts(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Total:      len(active),
		BySeverity: make(map[Severity]int),
		ByEffect:   make(map[Effect]int),
		MostSevere: MostSevere(active),
		FetchedAt:  s.now(),
		Provider:   s.provider.Name(),
	}
	for _, a := range active {
		summary.BySeverity[a.Severity]++
		summary.ByEffect[a.Effect]++
	}
	return summary, nil
}

func (s *Service) fresh() ([]*Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cache != nil && s.now().Before(s.cache.expiresAt) {
		return s.cache.alerts, true
	}
	return nil, false
}

func (s *Service) fetch(ctx context.Context) ([]*Alert, error) {
	s.fetches.Add(1)
	s.logger.Debug().
		Str("provider", s.provider.Name()).
		Msg("fetching alerts from provider")

	alerts, err := s.provider.FetchAlerts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("provider", s.provider.Name()).Msg("failed to fetch alerts")

		if alerts, ok := s.stale(); ok {
			return alerts, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	now := s.now()
	s.mu.Lock()
	s.cache = &cachedAlerts{
		alerts:    alerts,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}
	s.mu.Unlock()

	s.logger.Info().
		Int("alerts", len(alerts)).
		Str("provider", s.provider.Name()).
		Msg("alerts cache refreshed")

	return alerts, nil
}

// stale returns the cached alerts while they are inside the stale window and
// holds them as fresh for errorRetryTTL, never past that window.
func (s *Service) stale() ([]*Alert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.cache == nil {
		return nil, false
	}
	staleUntil := s.cache.fetchedAt.Add(s.staleIfErrorTTL)
	if !now.Before(staleUntil) {
		return nil, false
	}

	retryAt := now.Add(s.errorRetryTTL)
	if retryAt.After(staleUntil) {
		retryAt = staleUntil
	}
	s.cache = &cachedAlerts{
		alerts:    s.cache.alerts,
		fetchedAt: s.cache.fetchedAt,
		expiresAt: retryAt,
	}

	s.logger.Warn().
		Time("fetched_at", s.cache.fetchedAt).
		Time("retry_at", retryAt).
		Msg("serving stale alerts due to provider error")
	return s.cache.alerts, true
}

func (s *Service) record(ctx context.Context, hit bool) {
	if hit {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	if s.recorder != nil {
		s.recorder.RecordAlertCache(ctx, hit)
	}
}

// InvalidateCache drops cached alerts. The stale copy goes with them.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = nil
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Provider   string     `json:"provider"`
	HasCache   bool       `json:"hasCache"`
	Fresh      bool       `json:"fresh"`
	AlertCount int        `json:"alertCount"`
	FetchedAt  *time.Time `json:"fetchedAt,omitempty"`
	Hits       int64      `json:"hits"`
	Misses     int64      `json:"misses"`
	Fetches    int64      `json:"fetches"`
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := CacheStats{
		Provider: s.provider.Name(),
		Hits:     s.hits.Load(),
		Misses:   s.misses.Load(),
		Fetches:  s.fetches.Load(),
	}
	if s.cache != nil {
		fetchedAt := s.cache.fetchedAt
		stats.HasCache = true
		stats.Fresh = s.now().Before(fetchedAt.Add(s.cacheTTL))
		stats.AlertCount = len(s.cache.alerts)
		stats.FetchedAt = &fetchedAt
	}
	return stats
}
