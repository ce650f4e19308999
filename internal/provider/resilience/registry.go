package resilience

import (
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Feed health states.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// FeedHealth is a snapshot of one feed client.
type FeedHealth struct {
	Name          string
	CircuitState  gobreaker.State
	Counts        gobreaker.Counts
	LastSuccessAt *time.Time
	LastFailureAt *time.Time
	LastError     string
}

// Status maps the breaker state to a health status.
func (h FeedHealth) Status() string {
	switch h.CircuitState {
	case gobreaker.StateOpen:
		return StatusUnhealthy
	case gobreaker.StateHalfOpen:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}

// Registry tracks feed clients and their last outcomes.
type Registry struct {
	mu    sync.RWMutex
	feeds map[string]*registeredFeed
	now   func() time.Time
}

type registeredFeed struct {
	client        *Client
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		feeds: make(map[string]*registeredFeed),
		now:   time.Now,
	}
}

// Register adds or replaces a feed client.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feeds[name] = &registeredFeed{client: client}
}

// RecordSuccess notes a successful fetch.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.feeds[name]; ok {
		now := r.now()
		f.lastSuccessAt = &now
	}
}

// RecordFailure notes a failed fetch.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.feeds[name]; ok {
		now := r.now()
		f.lastFailureAt = &now
		if err != nil {
			f.lastError = err.Error()
		}
	}
}

// Health returns the snapshot for name, or false if it is not registered.
func (r *Registry) Health(name string) (FeedHealth, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.feeds[name]
	if !ok {
		return FeedHealth{}, false
	}
	return f.snapshot(name), true
}

// All returns snapshots of every feed ordered by name.
func (r *Registry) All() []FeedHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]FeedHealth, 0, len(r.feeds))
	for name, f := range r.feeds {
		out = append(out, f.snapshot(name))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Overall returns the worst status across feeds. No feeds is healthy.
func (r *Registry) Overall() string {
	status := StatusHealthy
	for _, h := range r.All() {
		switch h.Status() {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

func (f *registeredFeed) snapshot(name string) FeedHealth {
	return FeedHealth{
		Name:          name,
		CircuitState:  f.client.State(),
		Counts:        f.client.Counts(),
		LastSuccessAt: f.lastSuccessAt,
		LastFailureAt: f.lastFailureAt,
		LastError:     f.lastError,
	}
}
