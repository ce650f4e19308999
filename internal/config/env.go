package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnv overrides file values with environment variables.
func applyEnv(c *Config) {
	c.Server.Port = getEnvInt("APP_PORT", c.Server.Port)
	c.Server.Environment = getEnvOrDefault("APP_ENV", c.Server.Environment)
	c.Server.RequireTLS = getEnvBool("REQUIRE_TLS", c.Server.RequireTLS)
	c.Server.RateLimits.QueryPerMinute = getEnvInt("RATE_LIMIT_QUERY", c.Server.RateLimits.QueryPerMinute)
	c.Server.RateLimits.ExpensivePerMinute = getEnvInt("RATE_LIMIT_EXPENSIVE", c.Server.RateLimits.ExpensivePerMinute)
	c.Server.RateLimits.AdminPerMinute = getEnvInt("RATE_LIMIT_ADMIN", c.Server.RateLimits.AdminPerMinute)

	c.Telemetry.Enabled = getEnvBool("OTEL_ENABLED", c.Telemetry.Enabled)
	c.Telemetry.OTLPEndpoint = getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", c.Telemetry.OTLPEndpoint)

	c.Database.Host = getEnvOrDefault("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnvOrDefault("DB_USER", c.Database.User)
	c.Database.Password = getEnvOrDefault("DB_PASSWORD", c.Database.Password)
	c.Database.Database = getEnvOrDefault("DB_NAME", c.Database.Database)
	c.Database.SSLMode = getEnvOrDefault("DB_SSL_MODE", c.Database.SSLMode)
	c.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime)

	c.Data.Source = getEnvOrDefault("DATA_SOURCE", c.Data.Source)
	c.Data.RoutesFile = getEnvOrDefault("DATA_ROUTES_FILE", c.Data.RoutesFile)

	c.Search.FallbackRoutes = getEnvBool("SEARCH_FALLBACK_ROUTES", c.Search.FallbackRoutes)

	c.Crowd.TimeZone = getEnvOrDefault("CROWD_TIMEZONE", c.Crowd.TimeZone)

	c.Alerts.Enabled = getEnvBool("ALERTS_ENABLED", c.Alerts.Enabled)
	c.Alerts.Source = getEnvOrDefault("ALERTS_SOURCE", c.Alerts.Source)
	if url := os.Getenv("ALERTS_FEED_URL"); url != "" {
		c.Alerts.Feeds = []FeedConfig{{
			Name:     getEnvOrDefault("ALERTS_FEED_NAME", "primary"),
			URL:      url,
			Language: getEnvOrDefault("ALERTS_FEED_LANGUAGE", "en"),
		}}
	}

	c.Worker.Interval = getEnvDuration("WORKER_INTERVAL", c.Worker.Interval)
	c.Worker.Concurrency = getEnvInt("WORKER_CONCURRENCY", c.Worker.Concurrency)
	c.Worker.PubSubProject = getEnvOrDefault("PUBSUB_PROJECT_ID", c.Worker.PubSubProject)
	c.Worker.PubSubSubscription = getEnvOrDefault("PUBSUB_SUBSCRIPTION", c.Worker.PubSubSubscription)

	c.Events.AMQPURL = getEnvOrDefault("AMQP_URL", c.Events.AMQPURL)
	c.Events.Exchange = getEnvOrDefault("AMQP_EXCHANGE", c.Events.Exchange)

	c.Auth.Issuer = getEnvOrDefault("ADMIN_JWT_ISSUER", c.Auth.Issuer)
	c.Auth.Audience = getEnvOrDefault("ADMIN_JWT_AUDIENCE", c.Auth.Audience)
	c.Auth.SigningKey = getEnvOrDefault("ADMIN_JWT_SIGNING_KEY", c.Auth.SigningKey)

	c.Flags.Store = getEnvOrDefault("FEATURE_FLAGS_STORE", c.Flags.Store)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
