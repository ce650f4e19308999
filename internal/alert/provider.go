package alert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// StaticProvider serves a fixed list of alerts.
type StaticProvider struct {
	name   string
	alerts []*Alert
}

// NewStaticProvider creates a provider that always returns alerts.
func NewStaticProvider(name string, alerts []*Alert) *StaticProvider {
	if name == "" {
		name = "static"
	}
	return &StaticProvider{name: name, alerts: alerts}
}

// Name returns the provider name.
func (p *StaticProvider) Name() string {
	return p.name
}

// FetchAlerts returns the configured alerts.
func (p *StaticProvider) FetchAlerts(_ context.Context) ([]*Alert, error) {
	out := make([]*Alert, len(p.alerts))
	copy(out, p.alerts)
	return out, nil
}

// MultiProvider merges several providers. It fails only when every provider
// fails; partial results are returned otherwise.
type MultiProvider struct {
	providers []Provider
}

// NewMultiProvider combines providers in order.
func NewMultiProvider(providers ...Provider) *MultiProvider {
	return &MultiProvider{providers: providers}
}

// Name joins the member names.
func (m *MultiProvider) Name() string {
	names := make([]string, 0, len(m.providers))
	for _, p := range m.providers {
		names = append(names, p.Name())
	}
	return strings.Join(names, "+")
}

// FetchAlerts fetches from every provider.
func (m *MultiProvider) FetchAlerts(ctx context.Context) ([]*Alert, error) {
	var (
		out  []*Alert
		errs []error
	)
	for _, p := range m.providers {
		alerts, err := p.FetchAlerts(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		out = append(out, alerts...)
	}
	if len(errs) > 0 && len(errs) == len(m.providers) {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// DevelopmentAlerts returns sample Mumbai alerts for local runs.
func DevelopmentAlerts(now time.Time) []*Alert {
	return []*Alert{
		{
			ID:          "dev-wr-block",
			Header:      "Western line: traffic block between Bandra and Andheri",
			Description: "Slow locals run on the fast line between 11:00 and 15:00.",
			Effect:      EffectModifiedService,
			Severity:    SeverityWarning,
			Cause:       "MAINTENANCE",
			Routes: []RouteRef{
				{Mode: "train", ID: "WR-S-CCG-ADH"},
				{Mode: "train", ID: "WR-S-BA-BVI"},
			},
			StationIDs: []string{"BA", "KHR", "STC", "VLP", "ADH"},
			Start:      now.Add(-time.Hour),
			End:        now.Add(6 * time.Hour),
			Provider:   "static",
			UpdatedAt:  now,
		},
		{
			ID:        "dev-242-diversion",
			Header:    "Bus 242 diverted via Lotus Junction",
			Effect:    EffectDetour,
			Severity:  SeverityInfo,
			Cause:     "CONSTRUCTION",
			Routes:    []RouteRef{{Mode: "bus", ID: "242"}},
			Start:     now.Add(-24 * time.Hour),
			End:       now.Add(7 * 24 * time.Hour),
			Provider:  "static",
			UpdatedAt: now,
		},
	}
}

// Ensure providers implement Provider interface.
var (
	_ Provider = (*StaticProvider)(nil)
	_ Provider = (*MultiProvider)(nil)
)
