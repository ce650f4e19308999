package main

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mumbaitransit/mumbaitransit/internal/route"
)

// fixtureNamespace scopes generated route ids so a seed always yields the same ids.
var fixtureNamespace = uuid.MustParse("8f2c7d3e-4b1a-5c6d-9e0f-a1b2c3d4e5f6")

// modeProfile bounds the generated values for one mode.
type modeProfile struct {
	prefix           string
	name             string
	minTime, maxTime int
	fares            []float64
}

var profiles = map[route.Mode]modeProfile{
	route.ModeBus:      {prefix: "GB", name: "Generated Bus", minTime: 15, maxTime: 100, fares: []float64{6, 10, 15, 20, 25, 30}},
	route.ModeTrain:    {prefix: "GT", name: "Generated Local", minTime: 20, maxTime: 120, fares: []float64{5, 10, 15, 20, 25, 30}},
	route.ModeMetro:    {prefix: "GM", name: "Generated Metro", minTime: 10, maxTime: 60, fares: []float64{10, 20, 30, 40, 50}},
	route.ModeMonorail: {prefix: "GR", name: "Generated Monorail", minTime: 10, maxTime: 40, fares: []float64{10, 20, 30, 40}},
	route.ModeFerry:    {prefix: "GF", name: "Generated Ferry", minTime: 20, maxTime: 90, fares: []float64{50, 80, 110}},
}

// GenerateOptions control Generate.
type GenerateOptions struct {
	Seed int64

	// PerMode is the number of routes generated for each mode.
	PerMode int

	// IncludeDefaults prepends the built-in catalogue.
	IncludeDefaults bool
}

// Generate returns a deterministic route set for opts. Places are drawn from
// the built-in catalogue for each mode.
func Generate(opts GenerateOptions) ([]route.Route, error) {
	if opts.PerMode < 0 {
		return nil, fmt.Errorf("per-mode count must not be negative: %d", opts.PerMode)
	}

	rng := rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)>>1|1)) //nolint:gosec // fixtures, not secrets

	defaults := route.DefaultRoutes()
	places := placesByMode(defaults)

	var out []route.Route
	if opts.IncludeDefaults {
		out = append(out, defaults...)
	}

	for _, mode := range route.AllModes {
		p := profiles[mode]
		pool := places[mode]
		if len(pool) < 2 {
			return nil, fmt.Errorf("mode %s has fewer than two places", mode)
		}

		for i := 0; i < opts.PerMode; i++ {
			from := rng.IntN(len(pool))
			to := rng.IntN(len(pool) - 1)
			if to >= from {
				to++
			}

			id := uuid.NewSHA1(fixtureNamespace, []byte(fmt.Sprintf("%d/%s/%d", opts.Seed, mode, i)))
			out = append(out, route.Route{
				ID:                p.prefix + "-" + strings.ToUpper(id.String()[:8]),
				Mode:              mode,
				Name:              fmt.Sprintf("%s %d", p.name, i+1),
				From:              pool[from],
				To:                pool[to],
				TravelTimeMinutes: p.minTime + rng.IntN(p.maxTime-p.minTime+1),
				Fare:              p.fares[rng.IntN(len(p.fares))],
			})
		}
	}

	// The store rejects duplicates and invalid records; fail here instead.
	if _, err := route.NewStore(out); err != nil {
		return nil, err
	}
	return out, nil
}

func placesByMode(routes []route.Route) map[route.Mode][]string {
	// Keyed case-insensitively; the store treats "CSMT" and "csmt" as one place.
	seen := make(map[route.Mode]map[string]string)
	for _, r := range routes {
		if seen[r.Mode] == nil {
			seen[r.Mode] = make(map[string]string)
		}
		for _, place := range []string{r.From, r.To} {
			key := strings.ToLower(strings.TrimSpace(place))
			if _, ok := seen[r.Mode][key]; !ok {
				seen[r.Mode][key] = place
			}
		}
	}

	out := make(map[route.Mode][]string, len(seen))
	for mode, set := range seen {
		names := make([]string, 0, len(set))
		for _, name := range set {
			names = append(names, name)
		}
		sort.Strings(names)
		out[mode] = names
	}
	return out
}
