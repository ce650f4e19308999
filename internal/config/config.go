// Package config loads service configuration from an optional YAML file
// and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mumbaitransit/mumbaitransit/internal/database"
)

// Route data sources.
const (
	SourceStatic   = "static"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Alert sources.
const (
	AlertSourceStatic   = "static"
	AlertSourceFeeds    = "feeds"
	AlertSourcePostgres = "postgres"
)

// Feature flag stores.
const (
	FlagStoreMemory   = "memory"
	FlagStorePostgres = "postgres"
)

// DefaultPath is read when no path is given and the file exists.
const DefaultPath = "config.yml"

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" validate:"required"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Database  database.Config `yaml:"database"`
	Data      DataConfig      `yaml:"data"`
	Search    SearchConfig    `yaml:"search"`
	Crowd     CrowdConfig     `yaml:"crowd"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Worker    WorkerConfig    `yaml:"worker"`
	Events    EventsConfig    `yaml:"events"`
	Auth      AuthConfig      `yaml:"auth"`
	Flags     FlagsConfig     `yaml:"featureFlags"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         int           `yaml:"port" validate:"gt=0,lte=65535"`
	Environment  string        `yaml:"environment" validate:"oneof=development staging production test"`
	ReadTimeout  time.Duration `yaml:"readTimeout" validate:"gt=0"`
	WriteTimeout time.Duration `yaml:"writeTimeout" validate:"gt=0"`
	IdleTimeout  time.Duration `yaml:"idleTimeout" validate:"gt=0"`
	RequireTLS   bool          `yaml:"requireTLS"`
	RateLimits   RateLimits    `yaml:"rateLimits"`
}

// RateLimits are per-client request budgets per minute for each endpoint
// category.
type RateLimits struct {
	QueryPerMinute     int `yaml:"queryPerMinute" validate:"gt=0"`
	ExpensivePerMinute int `yaml:"expensivePerMinute" validate:"gt=0"`
	AdminPerMinute     int `yaml:"adminPerMinute" validate:"gt=0"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	OTLPEndpoint string  `yaml:"otlpEndpoint" validate:"required_if=Enabled true"`
	SampleRatio  float64 `yaml:"sampleRatio" validate:"gte=0,lte=1"`
}

// DataConfig selects where routes are loaded from.
type DataConfig struct {
	Source     string `yaml:"source" validate:"oneof=static file postgres"`
	RoutesFile string `yaml:"routesFile" validate:"required_if=Source file"`
}

// SearchConfig tunes route search and journey planning.
type SearchConfig struct {
	PageSize       int  `yaml:"pageSize" validate:"gt=0,lte=100"`
	FallbackRoutes bool `yaml:"fallbackRoutes"`
	MaxJourneys    int  `yaml:"maxJourneys" validate:"gt=0,lte=50"`
}

// CrowdConfig configures the crowd estimator.
type CrowdConfig struct {
	TimeZone      string `yaml:"timeZone" validate:"required"`
	ForecastHours int    `yaml:"forecastHours" validate:"gt=0,lte=48"`
}

// FeedConfig is one GTFS-Realtime service alerts feed.
type FeedConfig struct {
	Name     string `yaml:"name" validate:"required"`
	URL      string `yaml:"url" validate:"required,url"`
	Language string `yaml:"language"`
}

// AlertsConfig configures the alert aggregator.
type AlertsConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Source       string        `yaml:"source" validate:"oneof=static feeds postgres"`
	Feeds        []FeedConfig  `yaml:"feeds" validate:"dive"`
	CacheTTL     time.Duration `yaml:"cacheTTL" validate:"gt=0"`
	StaleTTL     time.Duration `yaml:"staleTTL" validate:"gtefield=CacheTTL"`
	RetryTTL     time.Duration `yaml:"retryTTL" validate:"gt=0,ltefield=StaleTTL"`
	FetchTimeout time.Duration `yaml:"fetchTimeout" validate:"gt=0"`
}

// WorkerConfig configures the background worker.
type WorkerConfig struct {
	Interval           time.Duration `yaml:"interval" validate:"gt=0"`
	Concurrency        int           `yaml:"concurrency" validate:"gt=0,lte=32"`
	Timeout            time.Duration `yaml:"timeout" validate:"gt=0"`
	PubSubProject      string        `yaml:"pubsubProject"`
	PubSubSubscription string        `yaml:"pubsubSubscription" validate:"required_with=PubSubProject"`
}

// EventsConfig configures the event publisher. Empty URL disables it.
type EventsConfig struct {
	AMQPURL  string `yaml:"amqpURL" validate:"omitempty,url"`
	Exchange string `yaml:"exchange" validate:"required"`
}

// AuthConfig configures admin bearer tokens.
type AuthConfig struct {
	Issuer     string `yaml:"issuer" validate:"required"`
	Audience   string `yaml:"audience" validate:"required"`
	SigningKey string `yaml:"-" validate:"min=32"`
}

// FlagsConfig configures feature flag storage.
type FlagsConfig struct {
	Store    string        `yaml:"store" validate:"oneof=memory postgres"`
	CacheTTL time.Duration `yaml:"cacheTTL" validate:"gt=0"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			Environment:  "development",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
			RateLimits: RateLimits{
				QueryPerMinute:     120,
				ExpensivePerMinute: 30,
				AdminPerMinute:     20,
			},
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: "localhost:4317",
		},
		Database: database.DefaultConfig(),
		Data: DataConfig{
			Source: SourceStatic,
		},
		Search: SearchConfig{
			PageSize:       12,
			FallbackRoutes: true,
			MaxJourneys:    10,
		},
		Crowd: CrowdConfig{
			TimeZone:      "Asia/Kolkata",
			ForecastHours: 12,
		},
		Alerts: AlertsConfig{
			Enabled:      true,
			Source:       AlertSourceStatic,
			CacheTTL:     2 * time.Minute,
			StaleTTL:     30 * time.Minute,
			RetryTTL:     30 * time.Second,
			FetchTimeout: 10 * time.Second,
		},
		Worker: WorkerConfig{
			Interval:    2 * time.Minute,
			Concurrency: 3,
			Timeout:     30 * time.Second,
		},
		Events: EventsConfig{
			Exchange: "mumbaitransit.events",
		},
		Auth: AuthConfig{
			Issuer:     "mumbaitransit",
			Audience:   "mumbaitransit-admin",
			SigningKey: "local-dev-signing-key-change-in-production",
		},
		Flags: FlagsConfig{
			Store:    FlagStoreMemory,
			CacheTTL: time.Minute,
		},
	}
}

// Load reads path (or DefaultPath when empty), applies environment
// overrides and validates the result. A missing file leaves the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Alerts.Enabled && c.Alerts.Source == AlertSourceFeeds && len(c.Alerts.Feeds) == 0 {
		return errors.New("invalid config: alerts.source feeds needs at least one feed")
	}
	if c.Server.Environment == "production" && c.Auth.SigningKey == Default().Auth.SigningKey {
		return errors.New("invalid config: ADMIN_JWT_SIGNING_KEY must be set in production")
	}
	return nil
}

// UsesDatabase reports whether any component is backed by Postgres.
func (c *Config) UsesDatabase() bool {
	return c.Data.Source == SourcePostgres ||
		(c.Alerts.Enabled && c.Alerts.Source == AlertSourcePostgres) ||
		c.Flags.Store == FlagStorePostgres
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
