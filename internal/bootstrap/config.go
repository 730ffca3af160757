package bootstrap

import (
	"github.com/skillsenselab/callbridge/internal/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig by value satisfies it through
// promoted methods.
//
// Example:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Server server.Config `yaml:"server" mapstructure:"server"`
//	}
//
//	app, err := bootstrap.NewApp(&cfg) // C inferred as *Config
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
