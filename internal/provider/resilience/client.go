package resilience

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// Errors returned by Client.
var (
	ErrCircuitOpen  = errors.New("circuit breaker is open")
	ErrBodyTooLarge = errors.New("response body too large")
)

// DefaultMaxBodyBytes bounds feed payloads read by Fetch.
const DefaultMaxBodyBytes = 8 << 20

// ClientConfig holds configuration for the feed client.
type ClientConfig struct {
	// Name identifies the feed. Used for the breaker and the health registry.
	Name string

	// Timeout bounds each HTTP attempt. Default: 10 seconds
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt. Default: 3
	MaxRetries uint64

	// InitialInterval and MaxInterval shape the exponential backoff.
	// Defaults: 100ms and 5 seconds
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// MaxBodyBytes bounds the payload Fetch reads. Default: DefaultMaxBodyBytes
	MaxBodyBytes int64

	// UserAgent is sent on every request when set.
	UserAgent string

	// Breaker configures the circuit breaker. Nil means DefaultBreakerConfig.
	Breaker *BreakerConfig

	// Registry records feed health when set.
	Registry *Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// DefaultClientConfig returns the settings used for alert feeds.
func DefaultClientConfig(name string) ClientConfig {
	breaker := DefaultBreakerConfig(name)
	return ClientConfig{
		Name:            name,
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxBodyBytes:    DefaultMaxBodyBytes,
		Breaker:         &breaker,
		Logger:          zerolog.Nop(),
	}
}

// Client fetches upstream feeds through a circuit breaker with retries.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	cfg        ClientConfig
}

// NewClient creates a feed client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	breakerCfg := DefaultBreakerConfig(cfg.Name)
	if cfg.Breaker != nil {
		breakerCfg = *cfg.Breaker
	}
	if breakerCfg.Name == "" {
		breakerCfg.Name = cfg.Name
	}
	breakerCfg.Logger = cfg.Logger

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    newBreaker[*http.Response](breakerCfg), //nolint:bodyclose // type param, not response
		cfg:        cfg,
	}

	if cfg.Registry != nil {
		cfg.Registry.Register(cfg.Name, c)
	}

	return c
}

// Name returns the feed name.
func (c *Client) Name() string {
	return c.cfg.Name
}

// Do executes req through the breaker. Network errors and 5xx responses are
// retried with exponential backoff; other responses return at once. When
// retries run out on a 5xx, the last response is returned without error.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.InitialInterval
	bo.MaxInterval = c.cfg.MaxInterval
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.cfg.MaxRetries), ctx)

	if c.cfg.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	var last *http.Response
	attempt := 0

	operation := func() error {
		attempt++
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= http.StatusInternalServerError {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				if last != nil {
					_ = last.Body.Close()
				}
				last = resp
			}
			c.cfg.Logger.Debug().
				Err(err).
				Str("feed", c.cfg.Name).
				Int("attempt", attempt).
				Msg("feed request failed")
			return err
		}

		if last != nil {
			_ = last.Body.Close()
		}
		last = resp
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		if last != nil {
			return last, nil
		}
		return nil, err
	}

	return last, nil
}

// Fetch GETs url and returns the body of a 200 response. Any other status is
// a *StatusError. Outcomes are recorded in the registry.
func (c *Client) Fetch(ctx context.Context, url, accept string) ([]byte, error) {
	body, err := c.fetch(ctx, url, accept)
	if c.cfg.Registry != nil {
		if err != nil {
			c.cfg.Registry.RecordFailure(c.cfg.Name, err)
		} else {
			c.cfg.Registry.RecordSuccess(c.cfg.Name)
		}
	}
	return body, err
}

func (c *Client) fetch(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if int64(len(body)) > c.cfg.MaxBodyBytes {
		return nil, ErrBodyTooLarge
	}
	return body, nil
}

// ServerError is a 5xx response seen by the breaker.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}

// StatusError is a non-200 response returned by Fetch.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// State returns the breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Counts returns the breaker counts.
func (c *Client) Counts() gobreaker.Counts {
	return c.breaker.Counts()
}
