// Package bootstrap wires configuration, logging, dependency injection, and
// component lifecycle into a single application runner.
//
// A service declares a config struct that embeds config.ServiceConfig,
// registers its infrastructure components, and hands control to Run:
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app.RegisterComponent(serverComponent)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    // wire business services once infrastructure is up
//	    return nil
//	})
//	app.Run(context.Background())
//
// Startup proceeds in phases. Components start in registration order, then
// OnStart hooks run, then OnConfigure callbacks wire the business layer on
// top of the running infrastructure. A health check over all components and
// the OnReady hooks complete the sequence, and a summary of what came up is
// printed. Shutdown reverses the order under a graceful timeout.
package bootstrap
