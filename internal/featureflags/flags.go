// Package featureflags provides feature flag management for runtime configuration.
package featureflags

import (
	"encoding/json"
	"fmt"
	"time"
)

// Well-known feature flag keys.
const (
	// FlagDisableCrowdEstimates turns off the crowd endpoints.
	FlagDisableCrowdEstimates = "disable_crowd_estimates"

	// FlagDisableAlerts stops alerts being served or merged into results.
	FlagDisableAlerts = "disable_alerts"

	// FlagDisableFallbackRoutes stops the planner synthesizing a route
	// when nothing matches.
	FlagDisableFallbackRoutes = "disable_fallback_routes"

	// FlagSearchPageSize overrides the number of search results shown.
	FlagSearchPageSize = "search_page_size"
)

// KnownFlags lists the keys the service understands, in display order.
var KnownFlags = []string{
	FlagDisableCrowdEstimates,
	FlagDisableAlerts,
	FlagDisableFallbackRoutes,
	FlagSearchPageSize,
}

// Flag represents a feature flag with its current value and who last
// changed it.
type Flag struct {
	Key       string      `json:"key"`
	Value     interface{} `json:"value"`
	UpdatedAt time.Time   `json:"updatedAt"`
	UpdatedBy string      `json:"updatedBy,omitempty"`
	Reason    string      `json:"reason,omitempty"`
}

// FlagList represents a list of feature flags.
type FlagList struct {
	Items []Flag `json:"items"`
}

// FlagUpdate represents a single flag update request.
type FlagUpdate struct {
	Key   string      `json:"key" validate:"required"`
	Value interface{} `json:"value"`
}

// FlagUpdateRequest represents a request to update feature flags.
type FlagUpdateRequest struct {
	Updates []FlagUpdate `json:"updates" validate:"required,min=1,dive"`
	Reason  string       `json:"reason" validate:"required,max=500"`

	// Actor is the authenticated subject making the change.
	Actor string `json:"-"`
}

// BoolValue returns the flag value as a boolean.
// Returns the default value if the flag is nil, not found, or not a boolean.
func (f *Flag) BoolValue(defaultValue bool) bool {
	if f == nil {
		return defaultValue
	}
	switch v := f.Value.(type) {
	case bool:
		return v
	case float64:
		// JSON unmarshals numbers as float64
		return v != 0
	default:
		return defaultValue
	}
}

// StringValue returns the flag value as a string.
// Returns the default value if the flag is nil, not found, or not a string.
func (f *Flag) StringValue(defaultValue string) string {
	if f == nil {
		return defaultValue
	}
	switch v := f.Value.(type) {
	case string:
		return v
	default:
		return defaultValue
	}
}

// IntValue returns the flag value as an integer.
// Returns the default value if the flag is nil, not found, or not a number.
func (f *Flag) IntValue(defaultValue int) int {
	if f == nil {
		return defaultValue
	}
	switch v := f.Value.(type) {
	case float64:
		// JSON unmarshals numbers as float64
		return int(v)
	case int:
		return v
	default:
		return defaultValue
	}
}

// Float64Value returns the flag value as a float64.
// Returns the default value if the flag is nil, not found, or not a number.
func (f *Flag) Float64Value(defaultValue float64) float64 {
	if f == nil {
		return defaultValue
	}
	switch v := f.Value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return defaultValue
	}
}

// JSONValue unmarshals the flag value into the target struct.
// Returns an error if unmarshaling fails.
func (f *Flag) JSONValue(target interface{}) error {
	if f == nil {
		return nil
	}
	data, err := json.Marshal(f.Value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// DefaultFlags returns the default feature flags for the application.
func DefaultFlags() map[string]*Flag {
	now := time.Now()
	return map[string]*Flag{
		FlagDisableCrowdEstimates: {
			Key:       FlagDisableCrowdEstimates,
			Value:     false,
			UpdatedAt: now,
		},
		FlagDisableAlerts: {
			Key:       FlagDisableAlerts,
			Value:     false,
			UpdatedAt: now,
		},
		FlagDisableFallbackRoutes: {
			Key:       FlagDisableFallbackRoutes,
			Value:     false,
			UpdatedAt: now,
		},
		// Unset: the configured page size applies until overridden.
		FlagSearchPageSize: {
			Key:       FlagSearchPageSize,
			Value:     nil,
			UpdatedAt: now,
		},
	}
}

// IsKnown reports whether key is one of KnownFlags.
func IsKnown(key string) bool {
	for _, k := range KnownFlags {
		if k == key {
			return true
		}
	}
	return false
}

// ValidateUpdate checks that value has the right type for key.
func ValidateUpdate(u FlagUpdate) error {
	if !IsKnown(u.Key) {
		return fmt.Errorf("%w: %s", ErrUnknownFlag, u.Key)
	}
	switch u.Key {
	case FlagSearchPageSize:
		n, ok := u.Value.(float64)
		if !ok || n < 1 || n > 100 || n != float64(int(n)) {
			return fmt.Errorf("%w: %s must be an integer between 1 and 100", ErrInvalidValue, u.Key)
		}
	default:
		if _, ok := u.Value.(bool); !ok {
			return fmt.Errorf("%w: %s must be a boolean", ErrInvalidValue, u.Key)
		}
	}
	return nil
}
