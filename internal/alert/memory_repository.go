package alert

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository keeps alerts per provider in memory. It is both a Store
// for the worker and a Provider for the API.
type InMemoryRepository struct {
	mu         sync.RWMutex
	byProvider map[string][]*Alert
}

// NewInMemoryRepository creates a new in-memory alert repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byProvider: make(map[string][]*Alert),
	}
}

// Name returns the provider name.
func (r *InMemoryRepository) Name() string {
	return "memory"
}

// ReplaceAlerts swaps the alerts stored for provider.
func (r *InMemoryRepository) ReplaceAlerts(_ context.Context, provider string, alerts []*Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]*Alert, 0, len(alerts))
	for _, a := range alerts {
		cpy := *a
		cpy.Provider = provider
		stored = append(stored, &cpy)
	}
	r.byProvider[provider] = stored
	return nil
}

// FetchAlerts returns every stored alert, grouped by provider name.
func (r *InMemoryRepository) FetchAlerts(_ context.Context) ([]*Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]string, 0, len(r.byProvider))
	for p := range r.byProvider {
		providers = append(providers, p)
	}
	sort.Strings(providers)

	var out []*Alert
	for _, p := range providers {
		for _, a := range r.byProvider[p] {
			cpy := *a
			out = append(out, &cpy)
		}
	}
	return out, nil
}

// Ensure InMemoryRepository implements Provider and Store interfaces.
var (
	_ Provider = (*InMemoryRepository)(nil)
	_ Store    = (*InMemoryRepository)(nil)
)
