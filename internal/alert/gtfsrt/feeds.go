package gtfsrt

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mumbaitransit/mumbaitransit/internal/alert"
	"github.com/mumbaitransit/mumbaitransit/internal/provider/resilience"
)

// FeedSpec describes one configured feed.
type FeedSpec struct {
	Name     string
	URL      string
	Language string
}

// NewFeeds builds a resilient client per feed, each registered in registry
// under its name so the status endpoint can report it.
func NewFeeds(specs []FeedSpec, timeout time.Duration, registry *resilience.Registry, logger zerolog.Logger) []alert.Provider {
	out := make([]alert.Provider, 0, len(specs))
	for _, spec := range specs {
		rcfg := resilience.DefaultClientConfig(spec.Name)
		if timeout > 0 {
			rcfg.Timeout = timeout
		}
		rcfg.UserAgent = "mumbaitransit/1.0"
		rcfg.Registry = registry
		rcfg.Logger = logger

		out = append(out, NewClient(ClientConfig{
			Name:       spec.Name,
			URL:        spec.URL,
			Language:   spec.Language,
			HTTPClient: resilience.NewClient(rcfg),
			Logger:     logger,
		}))
	}
	return out
}
