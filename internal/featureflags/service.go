package featureflags

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the feature flag service.
type ServiceConfig struct {
	Repository   Repository
	Logger       zerolog.Logger
	CacheTTL     time.Duration // How long to cache flags in memory
	DefaultFlags map[string]*Flag

	// Now is the clock used for cache expiry. Defaults to time.Now.
	Now func() time.Time
}

// Service provides feature flag evaluation with caching and fallback.
type Service struct {
	repo         Repository
	logger       zerolog.Logger
	cacheTTL     time.Duration
	defaultFlags map[string]*Flag
	now          func() time.Time

	mu          sync.RWMutex
	cache       map[string]*Flag
	cacheExpiry time.Time
}

// NewService creates a new feature flag service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 1 * time.Minute // Default cache TTL
	}

	defaultFlags := cfg.DefaultFlags
	if defaultFlags == nil {
		defaultFlags = DefaultFlags()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		repo:         cfg.Repository,
		logger:       cfg.Logger,
		cacheTTL:     cacheTTL,
		defaultFlags: defaultFlags,
		now:          now,
		cache:        make(map[string]*Flag),
	}
}

// GetFlag retrieves a feature flag by key.
// Uses cached value if available and not expired, with fallback to defaults.
func (s *Service) GetFlag(ctx context.Context, key string) *Flag {
	if s == nil {
		return nil
	}

	// Try cache first
	if flag := s.getCached(key); flag != nil {
		return flag
	}

	if s.repo == nil {
		return s.defaultFlags[key]
	}

	// Try repository
	flag, err := s.repo.GetFlag(ctx, key)
	if err == nil {
		s.setCached(key, flag)
		return flag
	}

	// Log error if not just "not found"
	if !errors.Is(err, ErrFlagNotFound) {
		s.logger.Warn().Err(err).Str("flag", key).Msg("failed to get feature flag from repository")
	}

	// Fallback to default
	if defaultFlag, ok := s.defaultFlags[key]; ok {
		return defaultFlag
	}

	return nil
}

// GetAllFlags retrieves all feature flags.
// Returns cached values merged with defaults.
func (s *Service) GetAllFlags(ctx context.Context) map[string]*Flag {
	// Start with defaults
	result := make(map[string]*Flag, len(s.defaultFlags))
	for k, v := range s.defaultFlags {
		result[k] = v
	}

	if s.repo == nil {
		return result
	}

	// Try to get from repository
	flags, err := s.repo.GetAllFlags(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to get feature flags from repository, using defaults")
		return result
	}

	// Merge repository flags over defaults
	for k, v := range flags {
		result[k] = v
	}

	// Update cache
	s.mu.Lock()
	s.cache = flags
	s.cacheExpiry = s.now().Add(s.cacheTTL)
	s.mu.Unlock()

	return result
}

// SetFlag updates a feature flag.
func (s *Service) SetFlag(ctx context.Context, flag *Flag) error {
	flag.UpdatedAt = s.now()
	if err := s.repo.SetFlag(ctx, flag); err != nil {
		return err
	}

	// Update cache
	s.setCached(flag.Key, flag)
	return nil
}

// SetFlags updates multiple feature flags atomically.
func (s *Service) SetFlags(ctx context.Context, flags []*Flag) error {
	now := s.now()
	for _, flag := range flags {
		flag.UpdatedAt = now
	}

	if err := s.repo.SetFlags(ctx, flags); err != nil {
		return err
	}

	// Update cache
	s.mu.Lock()
	for _, flag := range flags {
		s.cache[flag.Key] = flag
	}
	s.mu.Unlock()

	return nil
}

// InvalidateCache clears the cached flags, forcing a refresh on next access.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*Flag)
	s.cacheExpiry = time.Time{}
}

// IsEnabled returns true if the flag with the given key is enabled (truthy).
// This is a convenience method for boolean flags.
func (s *Service) IsEnabled(ctx context.Context, key string) bool {
	flag := s.GetFlag(ctx, key)
	return flag.BoolValue(false)
}

// IsDisabled returns true if the flag with the given key is disabled.
// This is the inverse of IsEnabled.
func (s *Service) IsDisabled(ctx context.Context, key string) bool {
	return !s.IsEnabled(ctx, key)
}

// getCached retrieves a flag from cache if valid.
func (s *Service) getCached(key string) *Flag {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.now().After(s.cacheExpiry) {
		return nil
	}

	flag, ok := s.cache[key]
	if !ok {
		return nil
	}
	return flag
}

// setCached stores a flag in the cache.
func (s *Service) setCached(key string, flag *Flag) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[key] = flag
	// Extend cache expiry if setting individual flags
	if now := s.now(); s.cacheExpiry.Before(now) {
		s.cacheExpiry = now.Add(s.cacheTTL)
	}
}

// Update validates and applies an admin update request.
func (s *Service) Update(ctx context.Context, req FlagUpdateRequest) ([]*Flag, error) {
	flags := make([]*Flag, 0, len(req.Updates))
	for _, u := range req.Updates {
		if err := ValidateUpdate(u); err != nil {
			return nil, err
		}
		flags = append(flags, &Flag{
			Key:       u.Key,
			Value:     u.Value,
			UpdatedAt: s.now(),
			UpdatedBy: req.Actor,
			Reason:    req.Reason,
		})
	}

	if err := s.SetFlags(ctx, flags); err != nil {
		return nil, err
	}

	for _, f := range flags {
		s.logger.Info().
			Str("flag", f.Key).
			Interface("value", f.Value).
			Str("actor", req.Actor).
			Str("reason", req.Reason).
			Msg("feature flag updated")
	}
	return flags, nil
}

// Reset removes the stored override for key so its default applies again,
// and returns that default. Resetting a flag with no override is a no-op.
func (s *Service) Reset(ctx context.Context, key, actor string) (*Flag, error) {
	if !IsKnown(key) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFlag, key)
	}

	if s.repo != nil {
		if err := s.repo.DeleteFlag(ctx, key); err != nil && !errors.Is(err, ErrFlagNotFound) {
			return nil, fmt.Errorf("resetting %s: %w", key, err)
		}
	}

	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	s.logger.Info().
		Str("flag", key).
		Str("actor", actor).
		Msg("feature flag reset to default")

	return s.defaultFlags[key], nil
}

// Convenience methods for well-known flags.

// CrowdEstimatesDisabled reports whether crowd endpoints are switched off.
func (s *Service) CrowdEstimatesDisabled(ctx context.Context) bool {
	return s.IsEnabled(ctx, FlagDisableCrowdEstimates)
}

// AlertsDisabled reports whether alerts are switched off.
func (s *Service) AlertsDisabled(ctx context.Context) bool {
	return s.IsEnabled(ctx, FlagDisableAlerts)
}

// FallbackRoutesDisabled reports whether the planner may not synthesize routes.
func (s *Service) FallbackRoutesDisabled(ctx context.Context) bool {
	return s.IsEnabled(ctx, FlagDisableFallbackRoutes)
}

// SearchPageSize returns the configured page size, or defaultSize when
// unset or out of range.
func (s *Service) SearchPageSize(ctx context.Context, defaultSize int) int {
	n := s.GetFlag(ctx, FlagSearchPageSize).IntValue(defaultSize)
	if n < 1 || n > 100 {
		return defaultSize
	}
	return n
}
