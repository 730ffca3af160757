package call

import (
	"context"
	"strings"
	"testing"

	"github.com/skillsenselab/callbridge/internal/component"
	"github.com/skillsenselab/callbridge/internal/logger"
	"github.com/skillsenselab/callbridge/internal/telephony"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.RetainCompleted != 3600 {
		t.Errorf("expected default retain 3600, got %d", cfg.RetainCompleted)
	}
	if cfg.SweepInterval != 60 {
		t.Errorf("expected default sweep interval 60, got %d", cfg.SweepInterval)
	}
}

func TestConfig_ApplyDefaultsPreservesDisabled(t *testing.T) {
	cfg := Config{RetainCompleted: -1}
	cfg.ApplyDefaults()

	if cfg.RetainCompleted != -1 {
		t.Errorf("expected disabled retention preserved, got %d", cfg.RetainCompleted)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Config{RetainCompleted: 3600, SweepInterval: 60}, ""},
		{"disabled retention", Config{RetainCompleted: -1, SweepInterval: 60}, ""},
		{"negative sweep", Config{RetainCompleted: 3600, SweepInterval: -5}, "sweep_interval"},
		{"retention below disabled", Config{RetainCompleted: -2, SweepInterval: 60}, "retain_completed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	c := NewComponent(NewRegistry(), Config{}, logger.NewDefault("test"))
	ctx := context.Background()

	if c.Name() != "call-registry" {
		t.Errorf("expected name 'call-registry', got %s", c.Name())
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("unexpected error starting: %v", err)
	}
	// Double start must not spawn a second sweeper.
	if err := c.Start(ctx); err != nil {
		t.Fatalf("unexpected error on double start: %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("unexpected error stopping: %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("unexpected error on double stop: %v", err)
	}
}

func TestComponent_StartDisabledRetention(t *testing.T) {
	c := NewComponent(NewRegistry(), Config{RetainCompleted: -1}, logger.NewDefault("test"))
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestComponent_Health(t *testing.T) {
	reg := NewRegistry()
	_, _ = reg.Create("CA1", "+15551111111", "", telephony.StatusAnswered)
	_, _ = reg.Create("CA2", "+15552222222", "", telephony.StatusAnswered)
	_, _ = reg.End("CA2")

	c := NewComponent(reg, Config{}, logger.NewDefault("test"))

	health := c.Health(context.Background())
	if health.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", health.Status)
	}
	if !strings.Contains(health.Message, "1 active / 2 tracked") {
		t.Errorf("unexpected health message: %q", health.Message)
	}
}

func TestComponent_Describe(t *testing.T) {
	c := NewComponent(NewRegistry(), Config{}, logger.NewDefault("test"))

	desc := c.Describe()
	if desc.Name != "Call Registry" {
		t.Errorf("expected name 'Call Registry', got %s", desc.Name)
	}
	if desc.Type != "state" {
		t.Errorf("expected type 'state', got %s", desc.Type)
	}
	if !strings.Contains(desc.Details, "retain ended 1h0m0s") {
		t.Errorf("unexpected details: %q", desc.Details)
	}
}
