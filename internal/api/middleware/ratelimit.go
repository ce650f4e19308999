package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/mumbaitransit/mumbaitransit/internal/api/models"
)

// RateLimitConfig is a request budget per client per window.
type RateLimitConfig struct {
	RequestLimit int
	WindowLength time.Duration
}

// PerMinute returns a budget of n requests per minute.
func PerMinute(n int) RateLimitConfig {
	return RateLimitConfig{RequestLimit: n, WindowLength: time.Minute}
}

// Default budgets.
var (
	// QueryRateLimit covers catalogue, fare, station and alert lookups.
	QueryRateLimit = PerMinute(120)

	// ExpensiveRateLimit covers search, journey planning and forecasts.
	ExpensiveRateLimit = PerMinute(30)

	// AdminRateLimit covers the admin endpoints.
	AdminRateLimit = PerMinute(20)
)

// RateLimits groups the budgets the router applies. Zero entries fall back
// to the defaults above.
type RateLimits struct {
	Query     RateLimitConfig
	Expensive RateLimitConfig
	Admin     RateLimitConfig
}

// WithDefaults fills unset budgets.
func (l RateLimits) WithDefaults() RateLimits {
	if l.Query.RequestLimit <= 0 {
		l.Query = QueryRateLimit
	}
	if l.Expensive.RequestLimit <= 0 {
		l.Expensive = ExpensiveRateLimit
	}
	if l.Admin.RequestLimit <= 0 {
		l.Admin = AdminRateLimit
	}
	return l
}

// RateLimitByIP limits by client IP as resolved by chi's RealIP.
func RateLimitByIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.window(),
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(limitExceeded(cfg.window())),
	)
}

// RateLimitBySubject limits by token subject so one operator shares a
// budget across addresses. Anonymous requests are limited by IP.
func RateLimitBySubject(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.window(),
		httprate.WithKeyFuncs(keyBySubjectOrIP),
		httprate.WithLimitHandler(limitExceeded(cfg.window())),
	)
}

func (c RateLimitConfig) window() time.Duration {
	if c.WindowLength <= 0 {
		return time.Minute
	}
	return c.WindowLength
}

func keyBySubjectOrIP(r *http.Request) (string, error) {
	if subject := GetSubject(r.Context()); subject != "" {
		return "sub:" + subject, nil
	}
	return httprate.KeyByRealIP(r)
}

// limitExceeded writes a 429 problem. httprate does not expose the reset
// time, so Retry-After is the whole window rounded up to a second.
func limitExceeded(window time.Duration) http.HandlerFunc {
	retryAfter := strconv.Itoa(int((window + time.Second - 1) / time.Second))
	return func(w http.ResponseWriter, r *http.Request) {
		problem := models.NewTooManyRequests(GetRequestID(r.Context()), "Rate limit exceeded. Please try again later.")
		problem.Instance = r.URL.Path
		w.Header().Set("Retry-After", retryAfter)
		problem.Write(w)
	}
}
