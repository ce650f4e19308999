package fare

import "slices"

// railwayBrackets is the suburban second-class single-journey table used by
// the Western, Central, Harbour and Trans-Harbour lines. Each line gets its
// own copy.
var railwayBrackets = [...]Bracket{
	{MaxDistanceKm: 10, Fare: 5},
	{MaxDistanceKm: 20, Fare: 10},
	{MaxDistanceKm: 30, Fare: 15},
	{MaxDistanceKm: 45, Fare: 20},
	{MaxDistanceKm: 60, Fare: 25},
	{MaxDistanceKm: 80, Fare: 30},
	{MaxDistanceKm: 100, Fare: 35},
	{MaxDistanceKm: 140, Fare: 40},
}

func railway() []Bracket {
	return slices.Clone(railwayBrackets[:])
}

// DefaultLines returns the built-in line catalogue in display order.
func DefaultLines() []Line {
	return []Line{
		{ID: LineWestern, Name: "Western Line", Color: "#E31E24", Category: CategoryRailway, Brackets: railway()},
		{ID: LineCentral, Name: "Central Line", Color: "#1B75BB", Category: CategoryRailway, Brackets: railway()},
		{ID: LineHarbour, Name: "Harbour Line", Color: "#8B5CA6", Category: CategoryRailway, Brackets: railway()},
		{ID: LineTransHarbour, Name: "Trans-Harbour Line", Color: "#00A99D", Category: CategoryRailway, Brackets: railway()},
		{
			ID: LineMetro1, Name: "Metro Line 1 (Versova - Ghatkopar)", Color: "#0072BC", Category: CategoryMetro,
			Brackets: []Bracket{
				{MaxDistanceKm: 3, Fare: 10},
				{MaxDistanceKm: 8, Fare: 20},
				{MaxDistanceKm: 12, Fare: 30},
				{MaxDistanceKm: 15, Fare: 40},
			},
		},
		{
			ID: LineMetro2A, Name: "Metro Line 2A (Dahisar - Andheri West)", Color: "#FDB913", Category: CategoryMetro,
			Brackets: []Bracket{
				{MaxDistanceKm: 3, Fare: 10},
				{MaxDistanceKm: 12, Fare: 20},
				{MaxDistanceKm: 18, Fare: 30},
				{MaxDistanceKm: 24, Fare: 40},
				{MaxDistanceKm: 30, Fare: 50},
			},
		},
		{
			ID: LineMetro7, Name: "Metro Line 7 (Dahisar East - Gundavali)", Color: "#EE3124", Category: CategoryMetro,
			Brackets: []Bracket{
				{MaxDistanceKm: 3, Fare: 10},
				{MaxDistanceKm: 12, Fare: 20},
				{MaxDistanceKm: 18, Fare: 30},
				{MaxDistanceKm: 24, Fare: 40},
				{MaxDistanceKm: 30, Fare: 50},
			},
		},
		{
			ID: LineMonorail, Name: "Mumbai Monorail", Color: "#F7941D", Category: CategoryMetro,
			Brackets: []Bracket{
				{MaxDistanceKm: 3, Fare: 10},
				{MaxDistanceKm: 6, Fare: 20},
				{MaxDistanceKm: 10, Fare: 30},
				{MaxDistanceKm: 15, Fare: 40},
				{MaxDistanceKm: 20, Fare: 50},
			},
		},
		{ID: LineGeneral, Name: "General", Color: "#6D6E71", Category: CategoryRailway, Brackets: railway()},
	}
}
