// Package resilience wraps upstream feed calls in a circuit breaker with
// bounded retries.
package resilience

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds configuration for a feed's circuit breaker.
type BreakerConfig struct {
	// Name identifies the breaker in logs and health output.
	Name string

	// MaxRequests is the number of probe requests allowed while half-open.
	// Default: 1
	MaxRequests uint32

	// Interval clears the closed-state counts periodically. Zero never clears.
	Interval time.Duration

	// OpenTimeout is how long the breaker stays open before probing.
	// Default: 60 seconds
	OpenTimeout time.Duration

	// MinRequests and FailureRatio decide when to trip: at least MinRequests
	// observed and a failure ratio at or above FailureRatio.
	// Defaults: 5 and 0.5
	MinRequests  uint32
	FailureRatio float64

	// Logger receives state transitions.
	Logger zerolog.Logger
}

// DefaultBreakerConfig returns the breaker settings used for alert feeds.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		OpenTimeout:  60 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.5,
		Logger:       zerolog.Nop(),
	}
}

// TripAfter returns a ReadyToTrip function for the given thresholds.
func TripAfter(minRequests uint32, failureRatio float64) func(gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		if counts.Requests < minRequests || counts.Requests == 0 {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) >= failureRatio
	}
}

func newBreaker[T any](cfg BreakerConfig) *gobreaker.CircuitBreaker[T] {
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = 5
	}
	if cfg.FailureRatio == 0 {
		cfg.FailureRatio = 0.5
	}

	logger := cfg.Logger
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: TripAfter(cfg.MinRequests, cfg.FailureRatio),
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("feed", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("feed circuit breaker state changed")
		},
	})
}
