// Package route holds the route catalogue, route search and the journey
// planner built on top of it.
package route

import "errors"

// Route errors.
var (
	ErrInvalidRoute   = errors.New("invalid route")
	ErrDuplicateRoute = errors.New("duplicate route")
	ErrRouteNotFound  = errors.New("route not found")
)

// Mode is a transport mode.
type Mode string

const (
	ModeBus      Mode = "bus"
	ModeTrain    Mode = "train"
	ModeMetro    Mode = "metro"
	ModeMonorail Mode = "monorail"
	ModeFerry    Mode = "ferry"
)

// AllModes lists the modes in display order.
var AllModes = []Mode{ModeBus, ModeTrain, ModeMetro, ModeMonorail, ModeFerry}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	for _, known := range AllModes {
		if m == known {
			return true
		}
	}
	return false
}

// Route is a named service between two points. Routes are immutable once
// loaded into a Store.
type Route struct {
	ID                string  `json:"id" yaml:"id" validate:"required"`
	Mode              Mode    `json:"mode" yaml:"mode" validate:"required,oneof=bus train metro monorail ferry"`
	Name              string  `json:"name" yaml:"name" validate:"required"`
	From              string  `json:"from" yaml:"from" validate:"required"`
	To                string  `json:"to" yaml:"to" validate:"required"`
	TravelTimeMinutes int     `json:"travelTimeMinutes" yaml:"travelTimeMinutes" validate:"gte=0"`
	Fare              float64 `json:"fare" yaml:"fare" validate:"gte=0"`
	Transfers         int     `json:"transfers" yaml:"transfers" validate:"gte=0"`

	// Fallback marks a synthesized route returned when nothing real connects
	// two places. Fallback routes may have From == To.
	Fallback bool `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Key identifies a route across modes.
func (r *Route) Key() string {
	return string(r.Mode) + "/" + r.ID
}
