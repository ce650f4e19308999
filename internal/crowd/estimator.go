package crowd

import (
	"fmt"
	"time"

	"github.com/mumbaitransit/mumbaitransit/internal/station"
)

// DefaultTimeZone is the zone used to bucket hours when none is configured.
const DefaultTimeZone = "Asia/Kolkata"

// MaxForecastHours bounds Forecast.
const MaxForecastHours = 48

// StationLookup reports whether a station id is known.
type StationLookup interface {
	Exists(id string) bool
}

// EstimatorConfig holds configuration for the estimator.
type EstimatorConfig struct {
	// Location is the zone whose wall clock selects the time-of-day bucket.
	// Defaults to DefaultTimeZone.
	Location *time.Location

	// Stations validates ids in EstimateStation. Optional.
	Stations StationLookup

	// Now supplies the current time for EstimateNow. Defaults to time.Now.
	Now func() time.Time
}

// Estimator wraps EstimateAt with a time zone, a clock and station
// validation.
type Estimator struct {
	loc      *time.Location
	stations StationLookup
	now      func() time.Time
}

// NewEstimator creates an estimator.
func NewEstimator(cfg EstimatorConfig) *Estimator {
	loc := cfg.Location
	if loc == nil {
		loc = LoadLocation(DefaultTimeZone)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Estimator{
		loc:      loc,
		stations: cfg.Stations,
		now:      now,
	}
}

// LoadLocation loads a zone by name. India has no DST, so a fixed +05:30
// zone stands in when the tz database is missing.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

// Location returns the zone used for bucketing.
func (e *Estimator) Location() *time.Location {
	return e.loc
}

// Estimate returns the estimate for stationID at the given instant.
func (e *Estimator) Estimate(stationID string, at time.Time) Estimate {
	return EstimateAt(stationID, at.In(e.loc))
}

// EstimateNow returns the estimate for stationID at the current time.
func (e *Estimator) EstimateNow(stationID string) Estimate {
	return e.Estimate(stationID, e.now())
}

// EstimateStation is Estimate for a station that must exist. A zero at means
// now.
func (e *Estimator) EstimateStation(stationID string, at time.Time) (Estimate, error) {
	if e.stations != nil && !e.stations.Exists(stationID) {
		return Estimate{}, fmt.Errorf("%w: %q", station.ErrUnknownStation, stationID)
	}
	if at.IsZero() {
		at = e.now()
	}
	return e.Estimate(stationID, at), nil
}

// Forecast returns hourly estimates for stationID starting at from, truncated
// to the hour.
func (e *Estimator) Forecast(stationID string, from time.Time, hours int) ([]Estimate, error) {
	if hours < 1 || hours > MaxForecastHours {
		return nil, fmt.Errorf("%w: hours must be between 1 and %d", ErrInvalidInput, MaxForecastHours)
	}
	if e.stations != nil && !e.stations.Exists(stationID) {
		return nil, fmt.Errorf("%w: %q", station.ErrUnknownStation, stationID)
	}
	if from.IsZero() {
		from = e.now()
	}

	local := from.In(e.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, e.loc)
	out := make([]Estimate, 0, hours)
	for i := 0; i < hours; i++ {
		out = append(out, e.Estimate(stationID, start.Add(time.Duration(i)*time.Hour)))
	}
	return out, nil
}
