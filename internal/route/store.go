package route

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Store is the in-memory route catalogue. It is populated once and never
// mutated afterwards, so it is safe for concurrent use without locking.
type Store struct {
	routes []*Route
	byMode map[Mode][]*Route
	byKey  map[string]*Route
}

// NewStore validates routes and builds a store preserving their order.
func NewStore(routes []Route) (*Store, error) {
	v := validator.New()

	s := &Store{
		routes: make([]*Route, 0, len(routes)),
		byMode: make(map[Mode][]*Route),
		byKey:  make(map[string]*Route, len(routes)),
	}

	for i := range routes {
		r := routes[i]
		if err := v.Struct(r); err != nil {
			return nil, fmt.Errorf("%w: route %d (%s): %v", ErrInvalidRoute, i, r.ID, err)
		}
		if !r.Fallback && strings.EqualFold(strings.TrimSpace(r.From), strings.TrimSpace(r.To)) {
			return nil, fmt.Errorf("%w: route %s starts and ends at %q", ErrInvalidRoute, r.Key(), r.From)
		}
		if _, dup := s.byKey[r.Key()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoute, r.Key())
		}

		rt := &r
		s.routes = append(s.routes, rt)
		s.byMode[r.Mode] = append(s.byMode[r.Mode], rt)
		s.byKey[r.Key()] = rt
	}

	return s, nil
}

// Load reads every route from repo and builds a store.
func Load(ctx context.Context, repo Repository) (*Store, error) {
	routes, err := repo.LoadRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}
	return NewStore(routes)
}

// GetAllRoutes returns all routes in load order, or only those of mode when
// mode is non-empty. An unknown mode yields an empty slice. The returned slice
// is a copy; the routes themselves must not be modified.
func (s *Store) GetAllRoutes(mode Mode) []*Route {
	src := s.routes
	if mode != "" {
		src = s.byMode[mode]
	}
	out := make([]*Route, len(src))
	copy(out, src)
	return out
}

// Get returns a single route.
func (s *Store) Get(mode Mode, id string) (*Route, error) {
	r, ok := s.byKey[string(mode)+"/"+id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrRouteNotFound, mode, id)
	}
	return r, nil
}

// Modes returns the modes that have at least one route, in AllModes order.
func (s *Store) Modes() []Mode {
	var modes []Mode
	for _, m := range AllModes {
		if len(s.byMode[m]) > 0 {
			modes = append(modes, m)
		}
	}
	return modes
}

// Len returns the number of routes.
func (s *Store) Len() int {
	return len(s.routes)
}

// CountByMode returns the number of routes per mode.
func (s *Store) CountByMode() map[Mode]int {
	counts := make(map[Mode]int, len(s.byMode))
	for m, list := range s.byMode {
		counts[m] = len(list)
	}
	return counts
}
