package main

import (
	"github.com/skillsenselab/callbridge/internal/call"
	"github.com/skillsenselab/callbridge/internal/config"
	"github.com/skillsenselab/callbridge/internal/observability"
	"github.com/skillsenselab/callbridge/internal/server"
	"github.com/skillsenselab/callbridge/internal/telephony"
	"github.com/skillsenselab/callbridge/internal/version"
)

// Config is the full callbridge configuration, loaded from config.yml with
// environment variable overrides (e.g. TELEPHONY_AUTH_TOKEN).
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Telephony     telephony.Config     `yaml:"telephony" mapstructure:"telephony"`
	Calls         call.Config          `yaml:"calls" mapstructure:"calls"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills in defaults for every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.GetVersionInfo().Version
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Telephony.ApplyDefaults()
	c.Calls.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section. Telephony is validated last so basic
// service misconfiguration surfaces before missing credentials.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Calls.Validate(); err != nil {
		return err
	}
	return c.Telephony.Validate()
}
