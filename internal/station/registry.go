package station

import (
	"fmt"
	"math"
	"sort"

	"github.com/mumbaitransit/mumbaitransit/internal/fare"
	"github.com/mumbaitransit/mumbaitransit/internal/textsearch"
)

// FareCalculator computes a fare for a distance on a line.
type FareCalculator interface {
	CalculateFare(line fare.LineID, distanceKm float64) (fare.Fare, error)
}

// Registry is a read-only index of stations. It is safe for concurrent use.
type Registry struct {
	all    []*Station
	byID   map[string]*Station
	byLine map[fare.LineID][]*Station
}

// NewRegistry builds a registry from stations. IDs must be unique and
// distances non-negative. Stations of a line are ordered by distance.
func NewRegistry(stations []Station) (*Registry, error) {
	r := &Registry{
		all:    make([]*Station, 0, len(stations)),
		byID:   make(map[string]*Station, len(stations)),
		byLine: make(map[fare.LineID][]*Station),
	}

	for i := range stations {
		s := stations[i]
		if s.ID == "" || s.Name == "" || s.Line == "" {
			return nil, fmt.Errorf("%w: station %d is missing id, name or line", ErrInvalidStation, i)
		}
		if s.DistanceFromOriginKm < 0 || math.IsNaN(s.DistanceFromOriginKm) {
			return nil, fmt.Errorf("%w: %s has negative distance", ErrInvalidStation, s.ID)
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidStation, s.ID)
		}

		st := &s
		r.all = append(r.all, st)
		r.byID[s.ID] = st
		r.byLine[s.Line] = append(r.byLine[s.Line], st)
	}

	for _, list := range r.byLine {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].DistanceFromOriginKm < list[j].DistanceFromOriginKm
		})
	}

	return r, nil
}

// NewDefaultRegistry builds a registry over the built-in station data.
func NewDefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultStations())
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the station with the given id.
func (r *Registry) Get(id string) (*Station, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStation, id)
	}
	return s, nil
}

// Exists reports whether id is a known station.
func (r *Registry) Exists(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// All returns every station in registration order.
func (r *Registry) All() []*Station {
	out := make([]*Station, len(r.all))
	copy(out, r.all)
	return out
}

// ByLine returns the stations of a line ordered from the line origin. An
// unknown line yields an empty slice.
func (r *Registry) ByLine(line fare.LineID) []*Station {
	list := r.byLine[line]
	out := make([]*Station, len(list))
	copy(out, list)
	return out
}

// Search returns stations whose id or name contains query, case-insensitively,
// in registration order. Queries shorter than two characters match nothing.
func (r *Registry) Search(query string) []*Station {
	q, ok := textsearch.Prepare(query)
	if !ok {
		return []*Station{}
	}

	out := make([]*Station, 0)
	for _, s := range r.all {
		if textsearch.ContainsAny(q, s.ID, s.Name) {
			out = append(out, s)
		}
	}
	return out
}

// DistanceBetween returns the track distance between two stations on the same
// line.
func (r *Registry) DistanceBetween(fromID, toID string) (float64, error) {
	from, err := r.Get(fromID)
	if err != nil {
		return 0, err
	}
	to, err := r.Get(toID)
	if err != nil {
		return 0, err
	}
	if from.Line != to.Line {
		return 0, fmt.Errorf("%w: %s is on %s, %s is on %s", ErrDifferentLines, from.ID, from.Line, to.ID, to.Line)
	}
	return math.Abs(to.DistanceFromOriginKm - from.DistanceFromOriginKm), nil
}

// FareBetween computes the fare between two stations on the same line.
func (r *Registry) FareBetween(calc FareCalculator, fromID, toID string) (fare.Fare, error) {
	from, err := r.Get(fromID)
	if err != nil {
		return fare.Fare{}, err
	}
	distance, err := r.DistanceBetween(fromID, toID)
	if err != nil {
		return fare.Fare{}, err
	}
	return calc.CalculateFare(from.Line, chargeableKm(distance))
}

// distanceSlack absorbs float noise from subtracting table distances.
const distanceSlack = 1e-6

// chargeableKm rounds a distance up to the next 100 m. Any part of a 100 m
// step is charged, so a trip never falls into a cheaper bracket than its
// true length.
func chargeableKm(km float64) float64 {
	return math.Ceil(km*10-distanceSlack) / 10
}
