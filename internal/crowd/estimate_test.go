package crowd_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mumbaitransit/mumbaitransit/internal/crowd"
	"github.com/mumbaitransit/mumbaitransit/internal/station"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 12, hour, minute, 0, 0, time.UTC)
}

func TestEstimateAt_MorningPeakScenario(t *testing.T) {
	// X+Y+Z = 88+89+90 = 267, 267 % 10 - 5 = +2.
	assert.Equal(t, 2, crowd.StationVariation("XYZ"))

	before := crowd.BasePercentage(9) + crowd.StationVariation("XYZ")
	assert.GreaterOrEqual(t, before, 70)
	assert.LessOrEqual(t, before, 80)

	got := crowd.EstimateAt("XYZ", at(9, 30))
	assert.Equal(t, 82, got.Percentage)
	assert.Equal(t, crowd.LevelHigh, got.Level)
	assert.Equal(t, "XYZ", got.StationID)
	assert.Equal(t, at(9, 30), got.Timestamp)
}

func TestEstimateAt_Deterministic(t *testing.T) {
	ts := at(18, 42)
	a := crowd.EstimateAt("CSMT", ts)
	b := crowd.EstimateAt("CSMT", ts)
	assert.Equal(t, a, b)
}

func TestBasePercentage(t *testing.T) {
	want := map[int]int{
		0: 10, 1: 10, 2: 10, 3: 10, 4: 10, 5: 10,
		6: 30, 7: 30,
		8: 75, 9: 75, 10: 75, 11: 75,
		12: 30, 13: 30, 14: 30, 15: 30, 16: 30,
		17: 70, 18: 70, 19: 70, 20: 70, 21: 70,
		22: 10, 23: 10,
	}
	for hour, base := range want {
		assert.Equal(t, base, crowd.BasePercentage(hour), "hour %d", hour)
	}
}

func TestStationVariationRange(t *testing.T) {
	for _, s := range station.DefaultStations() {
		v := crowd.StationVariation(s.ID)
		assert.GreaterOrEqual(t, v, -5, s.ID)
		assert.LessOrEqual(t, v, 5, s.ID)
	}
	// C+S+M+T = 67+83+77+84 = 311.
	assert.Equal(t, -4, crowd.StationVariation("CSMT"))
	assert.Equal(t, -5, crowd.StationVariation(""))
}

func TestEstimateAt_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		stationID string
		time      time.Time
		wantPct   int
		wantLevel crowd.Level
	}{
		// "F" = 70, variation -5.
		{"night floor", "F", at(3, 0), 5, crowd.LevelLow},
		{"off-peak", "F", at(14, 0), 25, crowd.LevelLow},
		{"evening mid-hour", "F", at(18, 30), 70, crowd.LevelHigh},
		{"csmt morning top of hour", "CSMT", at(9, 0), 71, crowd.LevelHigh},
		{"csmt late night", "CSMT", at(23, 30), 11, crowd.LevelLow},
		{"csmt midday", "CSMT", at(12, 30), 31, crowd.LevelLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := crowd.EstimateAt(tt.stationID, tt.time)
			assert.Equal(t, tt.wantPct, got.Percentage)
			assert.Equal(t, tt.wantLevel, got.Level)
		})
	}
}

func TestEstimateAt_AlwaysClamped(t *testing.T) {
	ids := []string{"", "F", "XYZ", "CSMT", "अंधेरी", "🚆", "a very long station identifier indeed"}
	for _, s := range station.DefaultStations() {
		ids = append(ids, s.ID)
	}

	for _, id := range ids {
		for m := 0; m < 24*60; m += 7 {
			got := crowd.EstimateAt(id, at(0, 0).Add(time.Duration(m)*time.Minute))
			require.GreaterOrEqual(t, got.Percentage, crowd.MinPercentage, "%q at minute %d", id, m)
			require.LessOrEqual(t, got.Percentage, crowd.MaxPercentage, "%q at minute %d", id, m)
		}
	}
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, crowd.LevelHigh, crowd.LevelFor(100))
	assert.Equal(t, crowd.LevelHigh, crowd.LevelFor(70))
	assert.Equal(t, crowd.LevelMedium, crowd.LevelFor(69))
	assert.Equal(t, crowd.LevelMedium, crowd.LevelFor(40))
	assert.Equal(t, crowd.LevelLow, crowd.LevelFor(39))
	assert.Equal(t, crowd.LevelLow, crowd.LevelFor(5))
}

func TestMinuteSmoothing(t *testing.T) {
	assert.InDelta(t, 0, crowd.MinuteSmoothing(0), 1e-9)
	assert.InDelta(t, 5, crowd.MinuteSmoothing(30), 1e-9)
	assert.InDelta(t, 0, crowd.MinuteSmoothing(60), 1e-9)
	assert.Greater(t, crowd.MinuteSmoothing(15), 0.0)
}
