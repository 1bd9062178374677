// Package observability bundles the operational plumbing: structured
// logging, Prometheus metrics, health probes, OpenTelemetry tracing, and
// graceful shutdown.
//
// # Structured Logging
//
// Logger wraps slog with a JSON handler. Derived loggers carry fields:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("email", email).Info("user registered")
//	logger.WithError(err).Error("sweep failed")
//
// FromContext picks up the request and user IDs the HTTP middleware
// stored, so handler logs correlate with access logs.
//
// # Prometheus Metrics
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
//	metrics.PermissionChecksTotal.WithLabelValues("incident:create", "allowed").Inc()
//	metrics.IncidentsCreatedTotal.Inc()
//
// HTTPMetricsMiddleware records request counts, durations, and response
// sizes per route. MetricsHandler serves the registry on /metrics.
//
// # Health Probes
//
//	checker := observability.NewHealthChecker(db, redisClient)
//	observability.RegisterHealthRoutes(healthMux, checker)
//
// Probes live on a separate port so they stay reachable while the API
// listener drains.
//
// # Tracing
//
//	providers, err := observability.InitOTel(ctx, otelCfg, logger)
//	defer observability.ShutdownOTel(ctx, providers, logger)
//
// # Shutdown
//
//	sm := observability.NewShutdownManager(logger, apiServer, 30*time.Second)
//	sm.RegisterShutdownFunc(func(ctx context.Context) error { return sweeper.Stop(ctx) })
//	err := sm.WaitForShutdown()
//
// # Related Packages
//
//   - pkg/config: loads the observability section
//   - pkg/middleware: consumes Logger and Metrics
package observability
