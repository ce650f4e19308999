// Package fare computes suburban rail, metro and monorail fares from
// distance-bracket tables.
package fare

import "errors"

// Fare errors.
var (
	ErrInvalidInput    = errors.New("invalid fare input")
	ErrUnknownLine     = errors.New("unknown line")
	ErrInvalidBrackets = errors.New("fare brackets must strictly increase")
)

// LineID identifies a transit corridor.
type LineID string

const (
	LineWestern      LineID = "western"
	LineCentral      LineID = "central"
	LineHarbour      LineID = "harbour"
	LineTransHarbour LineID = "trans-harbour"
	LineMetro1       LineID = "metro-1"
	LineMetro2A      LineID = "metro-2a"
	LineMetro7       LineID = "metro-7"
	LineMonorail     LineID = "monorail"
	LineGeneral      LineID = "general"
)

// Category groups lines that share a first-class multiplier.
type Category string

const (
	CategoryRailway Category = "railway"
	CategoryMetro   Category = "metro"
)

// Multipliers applied to the second-class fare.
const (
	MonthlyMultiplier = 50
	SeasonMultiplier  = 120
)

// FirstClassMultiplier returns the first-class multiplier for a category.
func FirstClassMultiplier(c Category) int {
	switch c {
	case CategoryMetro:
		return 2
	default:
		return 10
	}
}

// Bracket is one step of a distance-based fare table. The last bracket of a
// table also covers every distance above it.
type Bracket struct {
	MaxDistanceKm float64 `json:"maxDistanceKm" yaml:"maxDistanceKm"`
	Fare          int     `json:"fare" yaml:"fare"`
}

// Line describes a corridor and its fare table.
type Line struct {
	ID       LineID    `json:"id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Category Category  `json:"category"`
	Brackets []Bracket `json:"brackets"`
}

// Fare is the result of a fare lookup. All amounts are whole rupees.
type Fare struct {
	Line        LineID  `json:"line"`
	DistanceKm  float64 `json:"distanceKm"`
	SecondClass int     `json:"secondClass"`
	FirstClass  int     `json:"firstClass"`
	Monthly     int     `json:"monthly"`
	Season      int     `json:"season"`
}
