package featureflags_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mumbaitransit/mumbaitransit/internal/featureflags"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newService(repo featureflags.Repository, c *clock) *featureflags.Service {
	cfg := featureflags.ServiceConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
		CacheTTL:   1 * time.Minute,
	}
	if c != nil {
		cfg.Now = c.Now
	}
	return featureflags.NewService(cfg)
}

func TestService_GetFlag(t *testing.T) {
	service := newService(featureflags.NewInMemoryRepository(), nil)
	ctx := context.Background()

	flag := service.GetFlag(ctx, featureflags.FlagDisableCrowdEstimates)
	if flag == nil {
		t.Fatal("expected flag to be returned")
	}
	if flag.Key != featureflags.FlagDisableCrowdEstimates {
		t.Errorf("expected key %q, got %q", featureflags.FlagDisableCrowdEstimates, flag.Key)
	}
	if flag.BoolValue(true) != false {
		t.Error("expected disable_crowd_estimates to be false by default")
	}
}

func TestService_SetFlag(t *testing.T) {
	service := newService(featureflags.NewInMemoryRepository(), nil)
	ctx := context.Background()

	err := service.SetFlag(ctx, &featureflags.Flag{
		Key:   featureflags.FlagDisableAlerts,
		Value: true,
	})
	if err != nil {
		t.Fatalf("SetFlag: %v", err)
	}

	if !service.AlertsDisabled(ctx) {
		t.Error("expected alerts to be disabled after SetFlag")
	}
}

func TestService_Update(t *testing.T) {
	repo := featureflags.NewInMemoryRepository()
	service := newService(repo, nil)
	ctx := context.Background()

	flags, err := service.Update(ctx, featureflags.FlagUpdateRequest{
		Updates: []featureflags.FlagUpdate{
			{Key: featureflags.FlagDisableFallbackRoutes, Value: true},
			{Key: featureflags.FlagSearchPageSize, Value: float64(20)},
		},
		Reason: "monsoon disruption",
		Actor:  "ops-oncall",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(flags) != 2 {
		t.Fatalf("expected 2 flags, got %d", len(flags))
	}

	if !service.FallbackRoutesDisabled(ctx) {
		t.Error("expected fallback routes to be disabled")
	}
	if got := service.SearchPageSize(ctx, 12); got != 20 {
		t.Errorf("SearchPageSize = %d, want 20", got)
	}

	stored, err := repo.GetFlag(ctx, featureflags.FlagSearchPageSize)
	if err != nil {
		t.Fatalf("repo.GetFlag: %v", err)
	}
	if stored.IntValue(0) != 20 {
		t.Errorf("stored page size = %v, want 20", stored.Value)
	}
	if stored.UpdatedBy != "ops-oncall" || stored.Reason != "monsoon disruption" {
		t.Errorf("audit = %q/%q, want ops-oncall/monsoon disruption", stored.UpdatedBy, stored.Reason)
	}
	if stored.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
}

func TestService_UpdateRejectsBadValues(t *testing.T) {
	service := newService(featureflags.NewInMemoryRepository(), nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		update featureflags.FlagUpdate
		want   error
	}{
		{"unknown key", featureflags.FlagUpdate{Key: "enable_time_travel", Value: true}, featureflags.ErrUnknownFlag},
		{"bool flag given number", featureflags.FlagUpdate{Key: featureflags.FlagDisableAlerts, Value: float64(1)}, featureflags.ErrInvalidValue},
		{"page size given bool", featureflags.FlagUpdate{Key: featureflags.FlagSearchPageSize, Value: true}, featureflags.ErrInvalidValue},
		{"page size zero", featureflags.FlagUpdate{Key: featureflags.FlagSearchPageSize, Value: float64(0)}, featureflags.ErrInvalidValue},
		{"page size fractional", featureflags.FlagUpdate{Key: featureflags.FlagSearchPageSize, Value: 7.5}, featureflags.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Update(ctx, featureflags.FlagUpdateRequest{
				Updates: []featureflags.FlagUpdate{tt.update},
				Reason:  "test",
			})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if service.AlertsDisabled(ctx) {
		t.Error("rejected update must not be applied")
	}
}

func TestService_GetAllFlags(t *testing.T) {
	service := newService(featureflags.NewInMemoryRepositoryWithFlags(nil), nil)

	flags := service.GetAllFlags(context.Background())
	for _, key := range featureflags.KnownFlags {
		if _, ok := flags[key]; !ok {
			t.Errorf("expected default flag %q", key)
		}
	}
}

func TestService_CacheExpiry(t *testing.T) {
	repo := featureflags.NewInMemoryRepository()
	c := &clock{now: time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)}
	service := newService(repo, c)
	ctx := context.Background()

	_ = service.GetFlag(ctx, featureflags.FlagDisableCrowdEstimates)

	// Write behind the service's back.
	_ = repo.SetFlag(ctx, &featureflags.Flag{Key: featureflags.FlagDisableCrowdEstimates, Value: true})

	if service.CrowdEstimatesDisabled(ctx) {
		t.Error("expected cached value before expiry")
	}

	c.Advance(2 * time.Minute)
	if !service.CrowdEstimatesDisabled(ctx) {
		t.Error("expected fresh value after expiry")
	}
}

func TestService_InvalidateCache(t *testing.T) {
	repo := featureflags.NewInMemoryRepository()
	service := newService(repo, nil)
	ctx := context.Background()

	_ = service.GetFlag(ctx, featureflags.FlagDisableAlerts)
	_ = repo.SetFlag(ctx, &featureflags.Flag{Key: featureflags.FlagDisableAlerts, Value: true})

	service.InvalidateCache()

	if !service.AlertsDisabled(ctx) {
		t.Error("expected repository value after invalidation")
	}
}

func TestService_NilRepositoryUsesDefaults(t *testing.T) {
	service := featureflags.NewService(featureflags.ServiceConfig{Logger: zerolog.Nop()})
	ctx := context.Background()

	if service.AlertsDisabled(ctx) {
		t.Error("expected default false")
	}
	if got := service.SearchPageSize(ctx, 9); got != 9 {
		t.Errorf("SearchPageSize = %d, want configured size 9 while the flag is unset", got)
	}

	var nilService *featureflags.Service
	if nilService.FallbackRoutesDisabled(ctx) {
		t.Error("nil service must report flags off")
	}
}

func TestFlag_ValueHelpers(t *testing.T) {
	tests := []struct {
		name          string
		value         interface{}
		wantBool      bool
		wantString    string
		wantInt       int
		wantFloat     float64
		defaultBool   bool
		defaultString string
		defaultInt    int
		defaultFloat  float64
	}{
		{
			name:          "boolean true",
			value:         true,
			wantBool:      true,
			wantString:    "default",
			wantInt:       42,
			wantFloat:     3.14,
			defaultBool:   false,
			defaultString: "default",
			defaultInt:    42,
			defaultFloat:  3.14,
		},
		{
			name:          "boolean false",
			value:         false,
			wantBool:      false,
			defaultBool:   true,
			defaultString: "default",
			defaultInt:    42,
			defaultFloat:  3.14,
			wantString:    "default",
			wantInt:       42,
			wantFloat:     3.14,
		},
		{
			name:          "string value",
			value:         "hello",
			wantBool:      false,
			wantString:    "hello",
			wantInt:       42,
			wantFloat:     3.14,
			defaultBool:   false,
			defaultString: "default",
			defaultInt:    42,
			defaultFloat:  3.14,
		},
		{
			name:          "float64 value",
			value:         42.5,
			wantBool:      true, // non-zero
			wantString:    "default",
			wantInt:       42,
			wantFloat:     42.5,
			defaultBool:   false,
			defaultString: "default",
			defaultInt:    0,
			defaultFloat:  0.0,
		},
		{
			name:          "int value (as float64 from JSON)",
			value:         float64(100),
			wantBool:      true, // non-zero
			wantString:    "default",
			wantInt:       100,
			wantFloat:     100.0,
			defaultBool:   false,
			defaultString: "default",
			defaultInt:    0,
			defaultFloat:  0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := &featureflags.Flag{
				Key:       "test",
				Value:     tt.value,
				UpdatedAt: time.Now(),
			}

			if got := flag.BoolValue(tt.defaultBool); got != tt.wantBool {
				t.Errorf("BoolValue() = %v, want %v", got, tt.wantBool)
			}
			if got := flag.StringValue(tt.defaultString); got != tt.wantString {
				t.Errorf("StringValue() = %v, want %v", got, tt.wantString)
			}
			if got := flag.IntValue(tt.defaultInt); got != tt.wantInt {
				t.Errorf("IntValue() = %v, want %v", got, tt.wantInt)
			}
			if got := flag.Float64Value(tt.defaultFloat); got != tt.wantFloat {
				t.Errorf("Float64Value() = %v, want %v", got, tt.wantFloat)
			}
		})
	}
}

func TestFlag_NilFlag(t *testing.T) {
	var flag *featureflags.Flag

	if flag.BoolValue(true) != true {
		t.Error("expected default value for nil flag")
	}
	if flag.StringValue("default") != "default" {
		t.Error("expected default value for nil flag")
	}
	if flag.IntValue(42) != 42 {
		t.Error("expected default value for nil flag")
	}
	if flag.Float64Value(3.14) != 3.14 {
		t.Error("expected default value for nil flag")
	}
}

func TestInMemoryRepository_GetFlag_NotFound(t *testing.T) {
	repo := featureflags.NewInMemoryRepositoryWithFlags(make(map[string]*featureflags.Flag))

	_, err := repo.GetFlag(context.Background(), "nonexistent")
	if !errors.Is(err, featureflags.ErrFlagNotFound) {
		t.Errorf("expected ErrFlagNotFound, got %v", err)
	}
}

func TestInMemoryRepository_DeleteFlag(t *testing.T) {
	repo := featureflags.NewInMemoryRepository()
	ctx := context.Background()

	if err := repo.DeleteFlag(ctx, featureflags.FlagSearchPageSize); err != nil {
		t.Fatalf("DeleteFlag: %v", err)
	}

	_, err := repo.GetFlag(ctx, featureflags.FlagSearchPageSize)
	if !errors.Is(err, featureflags.ErrFlagNotFound) {
		t.Errorf("expected ErrFlagNotFound after delete, got %v", err)
	}

	err = repo.DeleteFlag(ctx, "nonexistent")
	if !errors.Is(err, featureflags.ErrFlagNotFound) {
		t.Errorf("expected ErrFlagNotFound for non-existent flag, got %v", err)
	}
}

func TestInMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := featureflags.NewInMemoryRepository()
	ctx := context.Background()

	flag, _ := repo.GetFlag(ctx, featureflags.FlagDisableAlerts)
	flag.Value = true

	again, _ := repo.GetFlag(ctx, featureflags.FlagDisableAlerts)
	if again.BoolValue(true) {
		t.Error("mutating a returned flag must not change the repository")
	}
}

func TestService_Reset(t *testing.T) {
	ctx := context.Background()
	repo := featureflags.NewInMemoryRepository()
	service := newService(repo, nil)

	_, err := service.Update(ctx, featureflags.FlagUpdateRequest{
		Updates: []featureflags.FlagUpdate{{Key: featureflags.FlagDisableCrowdEstimates, Value: true}},
		Reason:  "sensor outage",
		Actor:   "ops@mumbaitransit",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !service.CrowdEstimatesDisabled(ctx) {
		t.Fatal("expected crowd estimates disabled after update")
	}

	flag, err := service.Reset(ctx, featureflags.FlagDisableCrowdEstimates, "ops@mumbaitransit")
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if flag.BoolValue(true) {
		t.Error("Reset should return the default value")
	}
	if service.CrowdEstimatesDisabled(ctx) {
		t.Error("expected crowd estimates enabled after reset")
	}
	if _, err := repo.GetFlag(ctx, featureflags.FlagDisableCrowdEstimates); !errors.Is(err, featureflags.ErrFlagNotFound) {
		t.Errorf("expected override removed from repository, got %v", err)
	}

	// A second reset has nothing to remove.
	if _, err := service.Reset(ctx, featureflags.FlagDisableCrowdEstimates, "ops@mumbaitransit"); err != nil {
		t.Errorf("second Reset: %v", err)
	}
}

func TestService_Reset_UnknownFlag(t *testing.T) {
	service := newService(featureflags.NewInMemoryRepository(), nil)

	_, err := service.Reset(context.Background(), "warp_drive", "ops@mumbaitransit")
	if !errors.Is(err, featureflags.ErrUnknownFlag) {
		t.Errorf("expected ErrUnknownFlag, got %v", err)
	}
}
