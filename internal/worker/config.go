// Package worker provides background alert refresh for the Mumbai transit service.
package worker

import (
	"time"
)

// Job types accepted on the trigger subscription.
const (
	JobAlertRefresh = "alert_refresh"
	JobHealthCheck  = "health_check"
)

// DefaultEventSource names the worker in published events.
const DefaultEventSource = "mumbaitransit-worker"

// RefreshConfig holds configuration for the alert refresh job.
type RefreshConfig struct {
	// Concurrency is the number of feeds fetched at once.
	// Default: 3
	Concurrency int

	// Timeout bounds each feed fetch and store write.
	// Default: 30 seconds
	Timeout time.Duration

	// EventSource is the source field of published events.
	// Default: DefaultEventSource
	EventSource string
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Concurrency: 3,
		Timeout:     30 * time.Second,
		EventSource: DefaultEventSource,
	}
}

// withDefaults fills zero fields from DefaultRefreshConfig.
func (c RefreshConfig) withDefaults() RefreshConfig {
	d := DefaultRefreshConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.EventSource == "" {
		c.EventSource = d.EventSource
	}
	return c
}
