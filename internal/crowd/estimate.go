// Package crowd derives a deterministic occupancy estimate for a station from
// the time of day.
package crowd

import (
	"errors"
	"math"
	"time"
	"unicode/utf16"
)

// ErrInvalidInput is returned for out-of-range forecast arguments.
var ErrInvalidInput = errors.New("invalid crowd input")

// Level is a coarse occupancy category.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Percentage bounds. Estimates are clamped, never rejected.
const (
	MinPercentage = 5
	MaxPercentage = 100
)

// Base occupancy per time-of-day bucket.
const (
	baseMorningPeak = 75 // 08:00-11:59
	baseEveningPeak = 70 // 17:00-21:59
	baseNight       = 10 // 22:00-05:59
	baseOffPeak     = 30
)

// Level thresholds. These are not the bucket bases above.
const (
	highThreshold   = 70
	mediumThreshold = 40
)

// Estimate is a derived occupancy value. It is never persisted.
type Estimate struct {
	StationID  string    `json:"stationId"`
	Timestamp  time.Time `json:"timestamp"`
	Percentage int       `json:"percentage"`
	Level      Level     `json:"level"`
}

// EstimateAt returns the occupancy estimate for stationID at the wall-clock time
// of at, in at's own location. The same inputs always give the same result.
func EstimateAt(stationID string, at time.Time) Estimate {
	raw := float64(BasePercentage(at.Hour())) +
		float64(StationVariation(stationID)) +
		MinuteSmoothing(at.Minute())

	pct := clamp(roundHalfUp(raw), MinPercentage, MaxPercentage)

	return Estimate{
		StationID:  stationID,
		Timestamp:  at,
		Percentage: pct,
		Level:      LevelFor(pct),
	}
}

// BasePercentage returns the base occupancy for an hour of the day.
func BasePercentage(hour int) int {
	switch {
	case hour >= 8 && hour <= 11:
		return baseMorningPeak
	case hour >= 17 && hour <= 21:
		return baseEveningPeak
	case hour >= 22 || hour <= 5:
		return baseNight
	default:
		return baseOffPeak
	}
}

// StationVariation is a per-station offset in [-5, 4]: the sum of the id's
// UTF-16 code units modulo 10, shifted down by 5.
func StationVariation(stationID string) int {
	sum := 0
	for _, u := range utf16.Encode([]rune(stationID)) {
		sum += int(u)
	}
	return sum%10 - 5
}

// MinuteSmoothing spreads the hourly step over the hour: 5*sin(minute/60*pi).
func MinuteSmoothing(minute int) float64 {
	return 5 * math.Sin(float64(minute)/60*math.Pi)
}

// LevelFor maps a percentage to a level.
func LevelFor(pct int) Level {
	switch {
	case pct >= highThreshold:
		return LevelHigh
	case pct >= mediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
