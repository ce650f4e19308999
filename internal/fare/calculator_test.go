package fare_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mumbaitransit/mumbaitransit/internal/fare"
)

func TestCalculateFare_WesternEightKm(t *testing.T) {
	calc := fare.NewDefaultCalculator()

	got, err := calc.CalculateFare(fare.LineWestern, 8)
	require.NoError(t, err)

	assert.Equal(t, 5, got.SecondClass)
	assert.Equal(t, 50, got.FirstClass)
	assert.Equal(t, 250, got.Monthly)
	assert.Equal(t, 600, got.Season)
	assert.Equal(t, fare.LineWestern, got.Line)
}

func TestCalculateFare_BracketBoundaries(t *testing.T) {
	calc := fare.NewDefaultCalculator()

	tests := []struct {
		name     string
		line     fare.LineID
		distance float64
		want     int
	}{
		{"zero distance", fare.LineCentral, 0, 5},
		{"exactly first bracket", fare.LineCentral, 10, 5},
		{"just past first bracket", fare.LineCentral, 10.1, 10},
		{"exactly last bracket", fare.LineHarbour, 140, 40},
		{"beyond all brackets", fare.LineHarbour, 500, 40},
		{"metro short hop", fare.LineMetro1, 2.5, 10},
		{"metro full line", fare.LineMetro1, 11.4, 30},
		{"metro beyond table", fare.LineMetro1, 40, 40},
		{"monorail mid", fare.LineMonorail, 7, 30},
		{"general uses railway table", fare.LineGeneral, 25, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.CalculateFare(tt.line, tt.distance)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.SecondClass)
		})
	}
}

func TestCalculateFare_FirstClassMultiplier(t *testing.T) {
	calc := fare.NewDefaultCalculator()

	for _, line := range calc.Lines() {
		for _, d := range []float64{0, 3, 9.5, 17, 33, 120} {
			got, err := calc.CalculateFare(line.ID, d)
			require.NoError(t, err)
			assert.Equal(t, got.SecondClass*fare.FirstClassMultiplier(line.Category), got.FirstClass,
				"line %s distance %v", line.ID, d)
		}
	}

	assert.Equal(t, 10, fare.FirstClassMultiplier(fare.CategoryRailway))
	assert.Equal(t, 2, fare.FirstClassMultiplier(fare.CategoryMetro))
}

func TestCalculateFare_Monotonic(t *testing.T) {
	calc := fare.NewDefaultCalculator()

	for _, line := range calc.Lines() {
		prev := 0
		for d := 0.0; d <= 160; d += 0.5 {
			got, err := calc.CalculateFare(line.ID, d)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got.SecondClass, prev, "line %s at %v km", line.ID, d)
			prev = got.SecondClass
		}
	}
}

func TestCalculateFare_Errors(t *testing.T) {
	calc := fare.NewDefaultCalculator()

	_, err := calc.CalculateFare(fare.LineWestern, -1)
	assert.ErrorIs(t, err, fare.ErrInvalidInput)

	_, err = calc.CalculateFare(fare.LineWestern, math.NaN())
	assert.ErrorIs(t, err, fare.ErrInvalidInput)

	_, err = calc.CalculateFare("hyperloop", 5)
	assert.ErrorIs(t, err, fare.ErrUnknownLine)

	// Invalid distance is reported before the line lookup.
	_, err = calc.CalculateFare("hyperloop", -5)
	assert.ErrorIs(t, err, fare.ErrInvalidInput)
}

func TestNewCalculator_RejectsBadBrackets(t *testing.T) {
	tests := []struct {
		name     string
		brackets []fare.Bracket
	}{
		{"empty", nil},
		{"distance not increasing", []fare.Bracket{{MaxDistanceKm: 5, Fare: 10}, {MaxDistanceKm: 5, Fare: 20}}},
		{"fare not increasing", []fare.Bracket{{MaxDistanceKm: 5, Fare: 10}, {MaxDistanceKm: 8, Fare: 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fare.NewCalculator([]fare.Line{{ID: "x", Category: fare.CategoryMetro, Brackets: tt.brackets}})
			assert.ErrorIs(t, err, fare.ErrInvalidBrackets)
		})
	}
}

func TestCalculator_Lines(t *testing.T) {
	calc := fare.NewDefaultCalculator()

	lines := calc.Lines()
	require.Len(t, lines, 9)
	assert.Equal(t, fare.LineWestern, lines[0].ID)
	assert.Equal(t, fare.LineGeneral, lines[len(lines)-1].ID)

	l, err := calc.Line(fare.LineMetro2A)
	require.NoError(t, err)
	assert.Equal(t, fare.CategoryMetro, l.Category)
	assert.NotEmpty(t, l.Color)

	_, err = calc.Line("nope")
	assert.ErrorIs(t, err, fare.ErrUnknownLine)
}

func TestCalculator_ReturnedLinesAreCopies(t *testing.T) {
	calc := fare.NewDefaultCalculator()

	western, err := calc.Line(fare.LineWestern)
	require.NoError(t, err)
	western.Brackets[0].Fare = 999

	for _, l := range calc.Lines() {
		if l.ID == fare.LineCentral {
			l.Brackets[0].Fare = 777
		}
	}

	for _, id := range []fare.LineID{fare.LineWestern, fare.LineCentral, fare.LineHarbour} {
		got, err := calc.CalculateFare(id, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, got.SecondClass, id)
	}
}

func TestDefaultLines_RailwayTablesIndependent(t *testing.T) {
	lines := fare.DefaultLines()
	lines[0].Brackets[0].Fare = 999

	calc, err := fare.NewCalculator(lines[1:])
	require.NoError(t, err)

	got, err := calc.CalculateFare(fare.LineCentral, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, got.SecondClass)
	assert.Equal(t, 5, fare.DefaultLines()[0].Brackets[0].Fare)
}
