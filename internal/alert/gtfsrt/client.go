// Package gtfsrt reads service alerts from a GTFS-Realtime feed.
package gtfsrt

import (
	"context"
	"fmt"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"

	"github.com/mumbaitransit/mumbaitransit/internal/alert"
	"github.com/mumbaitransit/mumbaitransit/internal/provider/resilience"
	"github.com/mumbaitransit/mumbaitransit/internal/route"
)

const (
	// ProviderName is used when the config does not name the feed.
	ProviderName = "gtfsrt"

	contentType = "application/x-protobuf"
)

// ClientConfig holds configuration for the feed client.
type ClientConfig struct {
	// Name identifies the feed (optional, defaults to ProviderName).
	Name string

	// URL is the ServiceAlerts feed URL (required).
	URL string

	// Language is the preferred translation (optional, e.g. "en").
	Language string

	// HTTPClient is the feed client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger

	// Now supplies the fetch time stamped on alerts. Defaults to time.Now.
	Now func() time.Time
}

// Client fetches and decodes a GTFS-Realtime ServiceAlerts feed.
type Client struct {
	name       string
	url        string
	language   string
	httpClient *resilience.Client
	logger     zerolog.Logger
	now        func() time.Time
}

// NewClient creates a new feed client.
func NewClient(cfg ClientConfig) *Client {
	name := cfg.Name
	if name == "" {
		name = ProviderName
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		rcfg := resilience.DefaultClientConfig(name)
		rcfg.Logger = cfg.Logger
		httpClient = resilience.NewClient(rcfg)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		name:       name,
		url:        cfg.URL,
		language:   cfg.Language,
		httpClient: httpClient,
		logger:     cfg.Logger,
		now:        now,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return c.name
}

// FetchAlerts downloads the feed and converts its alert entities.
func (c *Client) FetchAlerts(ctx context.Context) ([]*alert.Alert, error) {
	body, err := c.httpClient.Fetch(ctx, c.url, contentType)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", c.name, err)
	}

	alerts, err := Decode(body, DecodeOptions{
		Provider: c.name,
		Language: c.language,
		Now:      c.now(),
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("feed", c.name).
		Int("bytes", len(body)).
		Int("alerts", len(alerts)).
		Msg("decoded alert feed")

	return alerts, nil
}

// DecodeOptions control Decode.
type DecodeOptions struct {
	Provider string
	Language string
	Now      time.Time
}

// Decode parses a serialized FeedMessage and returns its alerts. Deleted
// entities and entities without an alert are skipped.
func Decode(data []byte, opts DecodeOptions) ([]*alert.Alert, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}

	updatedAt := opts.Now
	if ts := fm.GetHeader().GetTimestamp(); ts > 0 {
		updatedAt = time.Unix(int64(ts), 0).UTC() //nolint:gosec // feed timestamps fit in int64
	}

	alerts := make([]*alert.Alert, 0, len(fm.GetEntity()))
	for _, e := range fm.GetEntity() {
		if e.GetIsDeleted() || e.GetAlert() == nil {
			continue
		}
		alerts = append(alerts, toAlert(e.GetId(), e.GetAlert(), opts, updatedAt))
	}
	return alerts, nil
}

func toAlert(id string, a *gtfsrtpb.Alert, opts DecodeOptions, updatedAt time.Time) *alert.Alert {
	out := &alert.Alert{
		ID:          id,
		Header:      translation(a.GetHeaderText(), opts.Language),
		Description: translation(a.GetDescriptionText(), opts.Language),
		URL:         translation(a.GetUrl(), opts.Language),
		Cause:       a.GetCause().String(),
		Effect:      alert.Effect(a.GetEffect().String()),
		Provider:    opts.Provider,
		UpdatedAt:   updatedAt,
	}
	out.Severity = severity(a)
	out.Start, out.End = activeWindow(a.GetActivePeriod())

	seenStops := make(map[string]bool)
	for _, ie := range a.GetInformedEntity() {
		if rid := ie.GetRouteId(); rid != "" {
			ref := alert.RouteRef{ID: rid}
			if ie.RouteType != nil {
				ref.Mode = modeForRouteType(ie.GetRouteType())
			}
			out.Routes = append(out.Routes, ref)
		}
		if sid := ie.GetStopId(); sid != "" && !seenStops[sid] {
			seenStops[sid] = true
			out.StationIDs = append(out.StationIDs, sid)
		}
	}

	return out
}

// translation picks the text in lang, else the untagged text, else the first.
func translation(ts *gtfsrtpb.TranslatedString, lang string) string {
	var untagged, first string
	for _, tr := range ts.GetTranslation() {
		if lang != "" && tr.GetLanguage() == lang {
			return tr.GetText()
		}
		if tr.GetLanguage() == "" && untagged == "" {
			untagged = tr.GetText()
		}
		if first == "" {
			first = tr.GetText()
		}
	}
	if untagged != "" {
		return untagged
	}
	return first
}

// severity uses the feed's level when present and derives one from the
// effect otherwise.
func severity(a *gtfsrtpb.Alert) alert.Severity {
	if a.SeverityLevel != nil {
		switch a.GetSeverityLevel() {
		case gtfsrtpb.Alert_SEVERE:
			return alert.SeveritySevere
		case gtfsrtpb.Alert_WARNING:
			return alert.SeverityWarning
		case gtfsrtpb.Alert_INFO:
			return alert.SeverityInfo
		}
	}

	switch a.GetEffect() {
	case gtfsrtpb.Alert_NO_SERVICE:
		return alert.SeveritySevere
	case gtfsrtpb.Alert_REDUCED_SERVICE, gtfsrtpb.Alert_SIGNIFICANT_DELAYS, gtfsrtpb.Alert_DETOUR:
		return alert.SeverityWarning
	default:
		return alert.SeverityInfo
	}
}

// activeWindow returns the envelope of all periods. An open bound in any
// period leaves that side open.
func activeWindow(periods []*gtfsrtpb.TimeRange) (time.Time, time.Time) {
	if len(periods) == 0 {
		return time.Time{}, time.Time{}
	}

	var start, end uint64
	openStart, openEnd := false, false
	for _, p := range periods {
		if p.Start == nil {
			openStart = true
		} else if start == 0 || p.GetStart() < start {
			start = p.GetStart()
		}
		if p.End == nil {
			openEnd = true
		} else if p.GetEnd() > end {
			end = p.GetEnd()
		}
	}

	var s, e time.Time
	if !openStart && start > 0 {
		s = time.Unix(int64(start), 0).UTC() //nolint:gosec // feed timestamps fit in int64
	}
	if !openEnd && end > 0 {
		e = time.Unix(int64(end), 0).UTC() //nolint:gosec // feed timestamps fit in int64
	}
	return s, e
}

// modeForRouteType maps GTFS route_type values to modes.
func modeForRouteType(t int32) route.Mode {
	switch {
	case t == 12 || t == 405:
		return route.ModeMonorail
	case t == 1 || (t >= 400 && t < 500):
		return route.ModeMetro
	case t == 2 || (t >= 100 && t < 200):
		return route.ModeTrain
	case t == 3 || (t >= 700 && t < 800):
		return route.ModeBus
	case t == 4 || (t >= 1000 && t < 1100) || t == 1200:
		return route.ModeFerry
	default:
		return ""
	}
}

// Ensure Client implements alert.Provider interface.
var _ alert.Provider = (*Client)(nil)
