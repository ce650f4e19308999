package route

import (
	"strings"

	"github.com/mumbaitransit/mumbaitransit/internal/textsearch"
)

// Fallback route values used when no real connection exists.
const (
	FallbackTravelTimeMinutes = 60
	FallbackFare              = 20
	FallbackRouteID           = "GEN"
)

// MaxJourneyResults bounds the number of journeys Plan returns.
const MaxJourneyResults = 10

// Journey is one way to get between two places: a single route, or two
// routes with a change between them.
type Journey struct {
	Legs              []*Route `json:"legs"`
	TravelTimeMinutes int      `json:"travelTimeMinutes"`
	Fare              float64  `json:"fare"`
	Transfers         int      `json:"transfers"`
	Fallback          bool     `json:"fallback,omitempty"`
}

// PlannerConfig holds configuration for the planner.
type PlannerConfig struct {
	// FallbackEnabled controls whether Plan synthesizes a generic route when
	// nothing connects the two places.
	FallbackEnabled bool

	// FallbackTravelTimeMinutes and FallbackFare describe the synthesized
	// route. Zero means the package defaults.
	FallbackTravelTimeMinutes int
	FallbackFare              float64

	// MaxResults caps the journeys returned. Defaults to MaxJourneyResults.
	MaxResults int
}

// Planner finds journeys over a Store.
type Planner struct {
	store        *Store
	fallback     bool
	fallbackTime int
	fallbackFare float64
	maxResults   int
}

// NewPlanner creates a planner.
func NewPlanner(store *Store, cfg PlannerConfig) *Planner {
	limit := cfg.MaxResults
	if limit <= 0 {
		limit = MaxJourneyResults
	}
	fallbackTime := cfg.FallbackTravelTimeMinutes
	if fallbackTime <= 0 {
		fallbackTime = FallbackTravelTimeMinutes
	}
	fallbackFare := cfg.FallbackFare
	if fallbackFare <= 0 {
		fallbackFare = FallbackFare
	}

	return &Planner{
		store:        store,
		fallback:     cfg.FallbackEnabled,
		fallbackTime: fallbackTime,
		fallbackFare: fallbackFare,
		maxResults:   limit,
	}
}

// PlanOptions adjust a single Plan call.
type PlanOptions struct {
	// DisableFallback suppresses the synthesized route for this call even
	// when the planner has it enabled.
	DisableFallback bool
}

// Plan returns direct routes between from and to when any exist, otherwise
// one-change connections, otherwise a fallback route if enabled. Place names
// match case-insensitively by substring. Queries shorter than two characters
// return nothing.
func (p *Planner) Plan(from, to string, opts PlanOptions) []Journey {
	f, okFrom := textsearch.Prepare(from)
	t, okTo := textsearch.Prepare(to)
	if !okFrom || !okTo {
		return []Journey{}
	}

	routes := p.store.GetAllRoutes("")

	if direct := p.direct(routes, f, t); len(direct) > 0 {
		return direct
	}
	if connecting := p.connecting(routes, f, t); len(connecting) > 0 {
		return connecting
	}
	if p.fallback && !opts.DisableFallback {
		return []Journey{p.fallbackJourney(from, to)}
	}
	return []Journey{}
}

func (p *Planner) direct(routes []*Route, from, to string) []Journey {
	out := make([]Journey, 0)
	for _, r := range routes {
		if len(out) == p.maxResults {
			break
		}
		if textsearch.ContainsAny(from, r.From) && textsearch.ContainsAny(to, r.To) {
			out = append(out, Journey{
				Legs:              []*Route{r},
				TravelTimeMinutes: r.TravelTimeMinutes,
				Fare:              r.Fare,
				Transfers:         r.Transfers,
			})
		}
	}
	return out
}

func (p *Planner) connecting(routes []*Route, from, to string) []Journey {
	// Index second legs by their lowercased origin.
	byOrigin := make(map[string][]*Route)
	for _, r := range routes {
		if textsearch.ContainsAny(to, r.To) {
			key := strings.ToLower(r.From)
			byOrigin[key] = append(byOrigin[key], r)
		}
	}

	out := make([]Journey, 0)
	for _, first := range routes {
		if !textsearch.ContainsAny(from, first.From) {
			continue
		}
		for _, second := range byOrigin[strings.ToLower(first.To)] {
			if second == first {
				continue
			}
			out = append(out, Journey{
				Legs:              []*Route{first, second},
				TravelTimeMinutes: first.TravelTimeMinutes + second.TravelTimeMinutes,
				Fare:              first.Fare + second.Fare,
				Transfers:         first.Transfers + second.Transfers + 1,
			})
			if len(out) == p.maxResults {
				return out
			}
		}
	}
	return out
}

func (p *Planner) fallbackJourney(from, to string) Journey {
	r := &Route{
		ID:                FallbackRouteID,
		Mode:              ModeBus,
		Name:              "General Route",
		From:              from,
		To:                to,
		TravelTimeMinutes: p.fallbackTime,
		Fare:              p.fallbackFare,
		Fallback:          true,
	}
	return Journey{
		Legs:              []*Route{r},
		TravelTimeMinutes: r.TravelTimeMinutes,
		Fare:              r.Fare,
		Fallback:          true,
	}
}
