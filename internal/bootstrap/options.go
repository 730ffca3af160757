package bootstrap

import (
	"time"

	"github.com/skillsenselab/callbridge/internal/di"
	"github.com/skillsenselab/callbridge/internal/logger"
)

// Option configures the App during creation. Options are non-generic so the
// same option values work with any config type.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	container       di.Container
	gracefulTimeout *time.Duration
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger. When absent, the logger is initialized
// from the config's Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout caps how long shutdown may take.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithContainer sets a custom DI container.
func WithContainer(c di.Container) Option {
	return func(o *appOptions) {
		o.container = c
	}
}
