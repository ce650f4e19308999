package fare

import (
	"fmt"
	"math"
	"slices"
)

// Calculator looks up fares for a fixed set of lines. It holds no mutable
// state and is safe for concurrent use.
type Calculator struct {
	lines map[LineID]Line
	order []LineID
}

// NewCalculator creates a calculator over the given lines. Every bracket table
// must be non-empty and strictly increasing in both distance and fare.
func NewCalculator(lines []Line) (*Calculator, error) {
	c := &Calculator{
		lines: make(map[LineID]Line, len(lines)),
		order: make([]LineID, 0, len(lines)),
	}

	for _, l := range lines {
		if err := validateBrackets(l.Brackets); err != nil {
			return nil, fmt.Errorf("line %s: %w", l.ID, err)
		}
		if _, dup := c.lines[l.ID]; dup {
			return nil, fmt.Errorf("line %s: duplicate definition", l.ID)
		}
		c.lines[l.ID] = l.clone()
		c.order = append(c.order, l.ID)
	}

	return c, nil
}

// NewDefaultCalculator creates a calculator over DefaultLines.
func NewDefaultCalculator() *Calculator {
	c, err := NewCalculator(DefaultLines())
	if err != nil {
		panic(err)
	}
	return c
}

func validateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return ErrInvalidBrackets
	}
	for i := 1; i < len(brackets); i++ {
		prev, cur := brackets[i-1], brackets[i]
		if cur.MaxDistanceKm <= prev.MaxDistanceKm || cur.Fare <= prev.Fare {
			return ErrInvalidBrackets
		}
	}
	return nil
}

// CalculateFare returns the fares for travelling distanceKm on line.
//
// The second-class fare comes from the first bracket whose maximum distance is
// at least distanceKm; distances past the last bracket use its fare. Negative
// distances are rejected rather than clamped.
func (c *Calculator) CalculateFare(line LineID, distanceKm float64) (Fare, error) {
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		return Fare{}, fmt.Errorf("%w: distance %v km", ErrInvalidInput, distanceKm)
	}

	l, ok := c.lines[line]
	if !ok {
		return Fare{}, fmt.Errorf("%w: %q", ErrUnknownLine, line)
	}

	second := l.Brackets[len(l.Brackets)-1].Fare
	for _, b := range l.Brackets {
		if b.MaxDistanceKm >= distanceKm {
			second = b.Fare
			break
		}
	}

	return Fare{
		Line:        line,
		DistanceKm:  distanceKm,
		SecondClass: second,
		FirstClass:  second * FirstClassMultiplier(l.Category),
		Monthly:     second * MonthlyMultiplier,
		Season:      second * SeasonMultiplier,
	}, nil
}

// Line returns the definition of a line.
func (c *Calculator) Line(id LineID) (Line, error) {
	l, ok := c.lines[id]
	if !ok {
		return Line{}, fmt.Errorf("%w: %q", ErrUnknownLine, id)
	}
	return l.clone(), nil
}

// Lines returns all lines in the order they were registered.
func (c *Calculator) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.lines[id].clone())
	}
	return out
}

// clone returns a copy of l that shares no bracket storage with it.
func (l Line) clone() Line {
	l.Brackets = slices.Clone(l.Brackets)
	return l
}
