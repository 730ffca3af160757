package call

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skillsenselab/callbridge/internal/component"
	"github.com/skillsenselab/callbridge/internal/logger"
	"github.com/skillsenselab/callbridge/internal/validation"
)

// Config is the calls section of the application configuration.
type Config struct {
	// RetainCompleted is how long ended sessions stay queryable before the
	// sweep evicts them, in seconds. -1 keeps them for the process
	// lifetime.
	RetainCompleted int `yaml:"retain_completed" mapstructure:"retain_completed"`
	// SweepInterval is how often the sweep runs, in seconds.
	SweepInterval int `yaml:"sweep_interval" mapstructure:"sweep_interval"`
}

// ApplyDefaults fills in default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.RetainCompleted == 0 {
		c.RetainCompleted = 3600
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = 60
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	v := validation.New()
	v.Min("calls.sweep_interval", c.SweepInterval, 1)
	v.Custom(c.RetainCompleted >= -1, "calls.retain_completed", "must be -1 (disabled) or non-negative")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Component owns the Registry lifecycle and runs the retention sweep that
// evicts ended sessions after the configured retain window.
type Component struct {
	registry *Registry
	config   Config
	log      *logger.Logger

	mu      sync.Mutex
	done    chan struct{}
	wg      sync.WaitGroup
	running bool
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent wraps the registry with the retention sweep.
func NewComponent(registry *Registry, cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		registry: registry,
		config:   cfg,
		log:      log.WithComponent("call-registry"),
	}
}

// Registry returns the underlying session registry.
func (c *Component) Registry() *Registry { return c.registry }

// Name returns the component name.
func (c *Component) Name() string { return "call-registry" }

// Start launches the retention sweep. With retention disabled there is
// nothing to run.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running || c.config.RetainCompleted < 0 {
		return nil
	}

	c.done = make(chan struct{})
	c.running = true
	c.wg.Add(1)
	go c.sweep()
	return nil
}

// Stop halts the retention sweep. Sessions stay in memory.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}
	close(c.done)
	c.wg.Wait()
	c.running = false
	return nil
}

func (c *Component) sweep() {
	defer c.wg.Done()

	interval := time.Duration(c.config.SweepInterval) * time.Second
	retain := time.Duration(c.config.RetainCompleted) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			evicted := c.registry.evictExpired(retain, time.Now())
			if len(evicted) > 0 {
				c.log.Debug("evicted ended call sessions", logger.Fields(
					"count", len(evicted),
					"call_sids", evicted,
				))
			}
		}
	}
}

// Health reports the session counts.
func (c *Component) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d active / %d tracked sessions", c.registry.ActiveCount(), c.registry.Count()),
	}
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	details := "in-memory, unbounded retention"
	if c.config.RetainCompleted >= 0 {
		details = fmt.Sprintf("in-memory, retain ended %s", time.Duration(c.config.RetainCompleted)*time.Second)
	}
	return component.Description{
		Name:    "Call Registry",
		Type:    "state",
		Details: details,
	}
}
