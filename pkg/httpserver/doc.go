// Package httpserver runs an http.Handler with graceful shutdown and provides
// liveness/readiness probes.
//
// Run binds the listener, serves until the context is done or the process
// receives SIGINT/SIGTERM, then calls Shutdown, which waits up to the
// shutdown timeout for in-flight requests (a contact submission holds its
// request open for the whole simulated delay).
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//
//	r := chi.NewRouter()
//	r.Get("/health/live", httpserver.HealthCheckHandler(log))
//	r.Get("/health/ready", httpserver.HealthCheckHandler(log, rulesLoaded))
//
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Listen and serve failures wrap ErrStart; shutdown failures wrap ErrShutdown.
package httpserver
