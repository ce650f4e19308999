// Package events publishes domain events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeAlertsRefreshed = "alerts.refreshed"
)

var (
	// ErrNotConnected is returned when publishing without a live channel.
	ErrNotConnected = errors.New("events: not connected to broker")

	// ErrNotConfirmed is returned when the broker nacks a message.
	ErrNotConfirmed = errors.New("events: publish not confirmed")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("events: publisher closed")
)

// Event is the envelope written to the broker.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Source     string          `json:"source"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// New builds an event with a random id and data marshaled as JSON.
func New(eventType, source string, data any, at time.Time) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Source:     source,
		OccurredAt: at.UTC(),
		Data:       raw,
	}, nil
}

// FeedRefresh reports the outcome for one alert feed.
type FeedRefresh struct {
	Feed       string `json:"feed"`
	Alerts     int    `json:"alerts"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// AlertsRefreshed is the payload of TypeAlertsRefreshed.
type AlertsRefreshed struct {
	Feeds       []FeedRefresh `json:"feeds"`
	TotalAlerts int           `json:"totalAlerts"`
	Failed      int           `json:"failed"`
}

// Publisher sends events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }

var _ Publisher = NopPublisher{}
