// Package alert aggregates short-lived service alerts from upstream feeds and
// serves them from a TTL cache.
package alert

import (
	"context"
	"errors"
	"time"

	"github.com/mumbaitransit/mumbaitransit/internal/route"
)

// Alert errors.
var (
	ErrProviderUnavailable = errors.New("alert provider unavailable")
	ErrAlertNotFound       = errors.New("alert not found")
)

// Severity is how disruptive an alert is.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeveritySevere  Severity = "SEVERE"
)

var severityRank = map[Severity]int{
	SeverityInfo:    1,
	SeverityWarning: 2,
	SeveritySevere:  3,
}

// Effect is what the alert does to service.
type Effect string

const (
	EffectNoService         Effect = "NO_SERVICE"
	EffectReducedService    Effect = "REDUCED_SERVICE"
	EffectSignificantDelays Effect = "SIGNIFICANT_DELAYS"
	EffectDetour            Effect = "DETOUR"
	EffectAdditionalService Effect = "ADDITIONAL_SERVICE"
	EffectModifiedService   Effect = "MODIFIED_SERVICE"
	EffectStopMoved         Effect = "STOP_MOVED"
	EffectOther             Effect = "OTHER_EFFECT"
	EffectUnknown           Effect = "UNKNOWN_EFFECT"
)

// RouteRef names a route an alert applies to. An empty Mode matches the id in
// every mode.
type RouteRef struct {
	Mode route.Mode `json:"mode,omitempty"`
	ID   string     `json:"id"`
}

// Matches reports whether ref points at r.
func (ref RouteRef) Matches(r *route.Route) bool {
	if ref.ID != r.ID {
		return false
	}
	return ref.Mode == "" || ref.Mode == r.Mode
}

// Alert is a service alert.
type Alert struct {
	ID          string     `json:"id"`
	Header      string     `json:"header"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url,omitempty"`
	Cause       string     `json:"cause,omitempty"`
	Effect      Effect     `json:"effect"`
	Severity    Severity   `json:"severity"`
	Routes      []RouteRef `json:"routes,omitempty"`
	StationIDs  []string   `json:"stationIds,omitempty"`

	// Start and End bound the active period. Zero means open-ended.
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`

	Provider  string    `json:"provider"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsActiveAt reports whether the alert is in effect at t.
func (a *Alert) IsActiveAt(t time.Time) bool {
	if !a.Start.IsZero() && t.Before(a.Start) {
		return false
	}
	if !a.End.IsZero() && t.After(a.End) {
		return false
	}
	return true
}

// AffectsRoute reports whether the alert applies to r.
func (a *Alert) AffectsRoute(r *route.Route) bool {
	for _, ref := range a.Routes {
		if ref.Matches(r) {
			return true
		}
	}
	return false
}

// AffectsStation reports whether the alert applies to the station.
func (a *Alert) AffectsStation(stationID string) bool {
	for _, s := range a.StationIDs {
		if s == stationID {
			return true
		}
	}
	return false
}

// MostSevere returns the highest severity among alerts, or "" for none.
func MostSevere(alerts []*Alert) Severity {
	var highest Severity
	for _, a := range alerts {
		if severityRank[a.Severity] > severityRank[highest] {
			highest = a.Severity
		}
	}
	return highest
}

// Summary is a snapshot of active alerts.
type Summary struct {
	Total      int              `json:"total"`
	BySeverity map[Severity]int `json:"bySeverity"`
	ByEffect   map[Effect]int   `json:"byEffect"`
	MostSevere Severity         `json:"mostSevere,omitempty"`
	FetchedAt  time.Time        `json:"fetchedAt"`
	Provider   string           `json:"provider"`
}

// RouteAlerts pairs a route with the active alerts that affect it.
type RouteAlerts struct {
	Route  *route.Route `json:"route"`
	Alerts []*Alert     `json:"alerts"`
}

// Provider is a source of alerts.
type Provider interface {
	// FetchAlerts returns every alert the source currently knows.
	FetchAlerts(ctx context.Context) ([]*Alert, error)

	// Name identifies the provider in logs.
	Name() string
}

// Store persists alerts fetched by the worker.
type Store interface {
	// ReplaceAlerts swaps all alerts from provider for alerts.
	ReplaceAlerts(ctx context.Context, provider string, alerts []*Alert) error
}
