// Command incident-tracker runs the incident tracking API server.
//
// Configuration comes from environment variables layered over an optional
// YAML file (INCIDENT_CONFIG_FILE). The API listens on the main port; health
// probes and Prometheus metrics get their own port so they stay reachable
// while the API drains during shutdown.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/thevoid12/incident-tracker/pkg/api"
	"github.com/thevoid12/incident-tracker/pkg/audit"
	"github.com/thevoid12/incident-tracker/pkg/auth"
	"github.com/thevoid12/incident-tracker/pkg/chat"
	"github.com/thevoid12/incident-tracker/pkg/config"
	"github.com/thevoid12/incident-tracker/pkg/incidents"
	"github.com/thevoid12/incident-tracker/pkg/middleware"
	"github.com/thevoid12/incident-tracker/pkg/observability"
	"github.com/thevoid12/incident-tracker/pkg/storage/sqlstore"
	"github.com/thevoid12/incident-tracker/pkg/users"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "incident-tracker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.WithField("version", observability.Version).Info("starting incident tracker")

	if cfg.UsingDefaultSecret() {
		logger.Warn("running with the built-in JWT secret; set JWT_SECRET before exposing this service")
	}

	ctx := context.Background()

	// Database
	store, err := sqlstore.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer store.Close()
	logger.WithField("driver", cfg.Storage.Driver).Info("database connected")

	// Redis is optional; without it login rate limiting is disabled.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable at startup, login rate limiting degrades to fail-open")
		} else {
			logger.WithField("addr", cfg.Redis.Addr).Info("redis connected")
		}
		defer redisClient.Close()
	} else {
		logger.Info("no redis configured, falling back to in-memory login rate limiting")
	}

	// Metrics
	var metrics *observability.Metrics
	registry := prometheus.NewRegistry()
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	// Tracing
	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		return fmt.Errorf("opentelemetry: %w", err)
	}

	// Auth
	tokens := auth.NewTokenManager(cfg.AuthSession())

	// Domain services
	auditSvc := audit.NewService(store.Audit(), logger)
	userSvc := users.NewService(store.Users(), tokens, auditSvc, logger, metrics)
	incidentSvc := incidents.NewService(store.Incidents(), auditSvc, logger, metrics)
	chatSvc := chat.NewService(store.Comments(), store.Incidents(), auditSvc, logger, metrics)

	sweeper := audit.NewRetentionSweeper(store.Audit(), cfg.Audit.RetentionDays,
		cfg.Audit.CleanupSchedule, logger, metrics)
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("audit retention sweeper: %w", err)
	}

	// HTTP plumbing
	gate, err := middleware.NewAccessGate(tokens, store.Users(), cfg.Auth.PermissionCacheSize, logger, metrics)
	if err != nil {
		return fmt.Errorf("access gate: %w", err)
	}

	// Credential routes are always throttled: shared-window via Redis when
	// available, per-process token buckets otherwise.
	loginLimitCfg := &middleware.RateLimitConfig{
		RequestsPerWindow: cfg.Auth.LoginAttemptsPerWindow,
		WindowDuration:    cfg.Auth.LoginAttemptWindow,
	}
	var loginLimiter middleware.CredentialLimiter
	if redisClient != nil {
		loginLimiter = middleware.NewLoginRateLimitMiddleware(redisClient, loginLimitCfg, logger, metrics)
	} else {
		local := middleware.NewRateLimitMiddleware(loginLimitCfg)
		limiterCtx, stopLimiter := context.WithCancel(ctx)
		local.StartCleanup(limiterCtx)
		defer stopLimiter()
		loginLimiter = local
	}

	server := api.NewServer(api.Config{
		DefaultPageSize: cfg.Pagination.DefaultLimit,
		MaxPageSize:     cfg.Pagination.MaxLimit,
		MaxImportBytes:  api.DefaultConfig().MaxImportBytes,
		TracingEnabled:  cfg.Observability.OTelEnabled,
	}, userSvc, incidentSvc, chatSvc, auditSvc, tokens, gate, loginLimiter, logger, metrics)

	apiServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Health and metrics on a separate listener.
	healthMux := http.NewServeMux()
	checker := observability.NewHealthChecker(store.DB(), redisClient)
	observability.RegisterHealthRoutes(healthMux, checker)
	if cfg.Observability.MetricsEnabled {
		healthMux.Handle("/metrics", observability.MetricsHandler(registry))
	}
	healthServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler:      healthMux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Keep the DB pool gauges fresh.
	stopDBStats := make(chan struct{})
	if metrics != nil {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					metrics.UpdateDBStats(store.DB().Stats())
				case <-stopDBStats:
					return
				}
			}
		}()
	}

	shutdown := observability.NewShutdownManager(logger, apiServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		close(stopDBStats)
		return sweeper.Stop(ctx)
	})
	if providers != nil {
		shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
			return observability.ShutdownOTel(ctx, providers, logger)
		})
	}

	var g errgroup.Group
	g.Go(func() error {
		logger.WithField("addr", apiServer.Addr).Info("API server listening")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.WithField("addr", healthServer.Addr).Info("health server listening")
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})
	g.Go(shutdown.WaitForShutdown)

	return g.Wait()
}
