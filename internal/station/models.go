// Package station holds the station reference data for the suburban rail,
// metro and monorail lines.
package station

import (
	"errors"

	"github.com/mumbaitransit/mumbaitransit/internal/fare"
)

// Station errors.
var (
	ErrUnknownStation = errors.New("unknown station")
	ErrDifferentLines = errors.New("stations are on different lines")
	ErrInvalidStation = errors.New("invalid station")
)

// Facility is an amenity available at a station.
type Facility string

const (
	FacilityTicketCounter  Facility = "ticket-counter"
	FacilityATVM           Facility = "atvm"
	FacilityEscalator      Facility = "escalator"
	FacilityLift           Facility = "lift"
	FacilityFootOverbridge Facility = "foot-overbridge"
	FacilityParking        Facility = "parking"
	FacilityWheelchair     Facility = "wheelchair"
	FacilityRestroom       Facility = "restroom"
	FacilityWiFi           Facility = "wifi"
)

// Station is a stop on a line. Stations are immutable reference data.
type Station struct {
	// ID is the station code, unique across all lines.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Line is the corridor the station belongs to.
	Line fare.LineID `json:"line"`

	// DistanceFromOriginKm is measured from the first station of the line.
	DistanceFromOriginKm float64 `json:"distanceFromOriginKm"`

	// Facilities lists the amenities at the station.
	Facilities []Facility `json:"facilities"`
}

// HasFacility reports whether the station offers f.
func (s *Station) HasFacility(f Facility) bool {
	for _, have := range s.Facilities {
		if have == f {
			return true
		}
	}
	return false
}
