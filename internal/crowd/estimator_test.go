package crowd_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mumbaitransit/mumbaitransit/internal/crowd"
	"github.com/mumbaitransit/mumbaitransit/internal/station"
)

func istEstimator(now time.Time) *crowd.Estimator {
	return crowd.NewEstimator(crowd.EstimatorConfig{
		Location: time.FixedZone("IST", 5*60*60+30*60),
		Stations: station.NewDefaultRegistry(),
		Now:      func() time.Time { return now },
	})
}

func TestEstimator_UsesConfiguredZone(t *testing.T) {
	e := istEstimator(time.Time{})

	// 04:00 UTC is 09:30 in Mumbai: morning peak, not night.
	got := e.Estimate("XYZ", time.Date(2024, 3, 12, 4, 0, 0, 0, time.UTC))
	assert.Equal(t, 82, got.Percentage)
	assert.Equal(t, crowd.LevelHigh, got.Level)
}

func TestEstimator_EstimateNow(t *testing.T) {
	now := time.Date(2024, 3, 12, 4, 0, 0, 0, time.UTC)
	e := istEstimator(now)

	assert.Equal(t, e.Estimate("CSMT", now), e.EstimateNow("CSMT"))
}

func TestEstimator_EstimateStation(t *testing.T) {
	now := time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC)
	e := istEstimator(now)

	got, err := e.EstimateStation("CSMT", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, e.Estimate("CSMT", now), got)

	_, err = e.EstimateStation("XYZ", now)
	assert.ErrorIs(t, err, station.ErrUnknownStation)
}

func TestEstimator_WithoutRegistryAcceptsAnyID(t *testing.T) {
	e := crowd.NewEstimator(crowd.EstimatorConfig{Location: time.UTC})

	got, err := e.EstimateStation("XYZ", time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 82, got.Percentage)
}

func TestEstimator_Forecast(t *testing.T) {
	now := time.Date(2024, 3, 12, 2, 45, 0, 0, time.UTC) // 08:15 IST
	e := istEstimator(now)

	forecast, err := e.Forecast("CSMT", time.Time{}, 4)
	require.NoError(t, err)
	require.Len(t, forecast, 4)

	first := forecast[0].Timestamp.In(e.Location())
	assert.Equal(t, 8, first.Hour())
	assert.Equal(t, 0, first.Minute())

	for i, est := range forecast {
		assert.Equal(t, "CSMT", est.StationID)
		assert.Equal(t, 8+i, est.Timestamp.In(e.Location()).Hour())
		// Top of the hour: base + variation only.
		assert.Equal(t, crowd.BasePercentage(8+i)+crowd.StationVariation("CSMT"), est.Percentage)
	}
}

func TestEstimator_ForecastValidation(t *testing.T) {
	e := istEstimator(time.Now())

	_, err := e.Forecast("CSMT", time.Time{}, 0)
	assert.ErrorIs(t, err, crowd.ErrInvalidInput)

	_, err = e.Forecast("CSMT", time.Time{}, crowd.MaxForecastHours+1)
	assert.ErrorIs(t, err, crowd.ErrInvalidInput)

	_, err = e.Forecast("NOPE", time.Time{}, 3)
	assert.ErrorIs(t, err, station.ErrUnknownStation)
}

func TestLoadLocation_Fallback(t *testing.T) {
	loc := crowd.LoadLocation("Not/AZone")
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 5*60*60+30*60, offset)
}
