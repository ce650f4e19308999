package models

import (
	"github.com/mumbaitransit/mumbaitransit/internal/alert"
	"github.com/mumbaitransit/mumbaitransit/internal/crowd"
	"github.com/mumbaitransit/mumbaitransit/internal/fare"
	"github.com/mumbaitransit/mumbaitransit/internal/route"
	"github.com/mumbaitransit/mumbaitransit/internal/station"
)

// RouteList is the response for GET /v1/routes.
type RouteList struct {
	Mode  route.Mode     `json:"mode,omitempty"`
	Items []*route.Route `json:"items"`
	Total int            `json:"total"`
}

// RouteDetail is a route with the active alerts that affect it.
type RouteDetail struct {
	*route.Route
	Alerts []*alert.Alert `json:"alerts"`
}

// RouteSearchQuery holds the query parameters of GET /v1/routes/search.
type RouteSearchQuery struct {
	// Query shorter than two characters matches nothing.
	Query string
	Mode  route.Mode `validate:"omitempty,oneof=bus train metro monorail ferry"`
	Limit int        `validate:"gte=0,lte=100"`
}

// RouteSearchResult is the response for GET /v1/routes/search.
type RouteSearchResult struct {
	Query string            `json:"query"`
	Mode  route.Mode        `json:"mode,omitempty"`
	Items []RouteDetail     `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// JourneyQuery holds the query parameters of GET /v1/journeys.
type JourneyQuery struct {
	From string `validate:"required"`
	To   string `validate:"required"`
}

// JourneyList is the response for GET /v1/journeys.
type JourneyList struct {
	From  string          `json:"from"`
	To    string          `json:"to"`
	Items []route.Journey `json:"items"`
}

// LineList is the response for GET /v1/lines.
type LineList struct {
	Items []fare.Line `json:"items"`
}

// FareQuery holds the query parameters of GET /v1/fares.
type FareQuery struct {
	Line       fare.LineID `validate:"required"`
	DistanceKm float64     `validate:"gte=0"`
}

// StationFare is the response for GET /v1/fares/stations.
type StationFare struct {
	From *station.Station `json:"from"`
	To   *station.Station `json:"to"`
	Fare fare.Fare        `json:"fare"`
}

// StationList is the response for GET /v1/stations.
type StationList struct {
	Items []*station.Station `json:"items"`
	Total int                `json:"total"`
}

// StationDetail is a station with the active alerts that affect it.
type StationDetail struct {
	*station.Station
	Alerts []*alert.Alert `json:"alerts"`
}

// CrowdForecast is the response for GET /v1/stations/{stationId}/crowd/forecast.
type CrowdForecast struct {
	StationID string           `json:"stationId"`
	TimeZone  string           `json:"timeZone"`
	Items     []crowd.Estimate `json:"items"`
}

// AlertList is the response for GET /v1/alerts.
type AlertList struct {
	Items []*alert.Alert `json:"items"`
	Total int            `json:"total"`
}
