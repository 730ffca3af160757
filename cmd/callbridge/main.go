// Command callbridge runs the phone call bridge: an HTTP API that places
// outbound calls, speaks typed text into them, and streams far-party
// transcriptions back to clients over SSE.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/skillsenselab/callbridge/internal/api"
	"github.com/skillsenselab/callbridge/internal/bootstrap"
	"github.com/skillsenselab/callbridge/internal/bridge"
	"github.com/skillsenselab/callbridge/internal/call"
	"github.com/skillsenselab/callbridge/internal/component"
	"github.com/skillsenselab/callbridge/internal/config"
	"github.com/skillsenselab/callbridge/internal/di"
	"github.com/skillsenselab/callbridge/internal/observability"
	"github.com/skillsenselab/callbridge/internal/server"
	"github.com/skillsenselab/callbridge/internal/sse"
	"github.com/skillsenselab/callbridge/internal/telephony/twilio"
)

const serviceName = "callbridge"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	// Infrastructure, in start order. Telemetry first so everything after it
	// can record; the HTTP server last so webhooks never race the rest.
	telemetry := observability.NewComponent(cfg.Observability, app.Name, app.Version, cfg.Environment)

	registry := call.NewRegistry()
	sessions := call.NewComponent(registry, cfg.Calls, app.Logger)

	events := sse.NewComponent("/api/call-events/:callSid")

	provider, err := twilio.New(&cfg.Telephony, app.Logger)
	if err != nil {
		return fmt.Errorf("creating telephony provider: %w", err)
	}

	srv := server.New(cfg.Server, app.Logger)

	for _, c := range []component.Component{
		telemetry,
		sessions,
		events,
		provider,
		server.NewComponent(srv),
	} {
		if err := app.RegisterComponent(c); err != nil {
			return err
		}
	}

	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
		svc := bridge.NewService(registry, provider, &cfg.Telephony, a.Logger,
			bridge.WithEvents(events.Hub()),
			bridge.WithMetrics(telemetry.Metrics()),
		)

		api.NewHandlers(svc, events.Hub(), &cfg.Telephony, a.Logger).Register(srv.GinEngine())
		srv.ApplyDefaults(a.Name, a.Components.HealthAll)

		// Publish the wiring for introspection and the startup summary.
		a.Container.RegisterSingleton(di.App.Config, &cfg)
		a.Container.RegisterSingleton(di.App.Logger, a.Logger)
		a.Container.RegisterSingleton(di.App.HTTPServer, srv)
		a.Container.RegisterSingleton(di.App.EventHub, events.Hub())
		a.Container.RegisterSingleton(di.App.CallRegistry, registry)
		a.Container.RegisterSingleton(di.App.Telephony, provider)
		a.Container.RegisterSingleton(di.App.Bridge, svc)
		return nil
	})

	return app.Run(context.Background())
}
