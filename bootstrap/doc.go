// Package bootstrap runs a service's lifecycle: it starts registered
// components in order, runs configure callbacks and hooks, logs a startup
// summary, blocks until SIGINT or SIGTERM and then stops components in
// reverse order within a graceful timeout.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(redisComponent)
//	app.RegisterComponent(serverComponent)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    // wire business dependencies
//	    return nil
//	})
//	err = app.Run(ctx)
package bootstrap
