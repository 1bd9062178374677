// Package config loads application configuration from an optional YAML file
// with environment variable overrides.
//
// # Overview
//
// LoadConfig builds the immutable Config consumed by main: defaults first,
// then the YAML file named by INCIDENT_CONFIG_FILE (if set), then
// environment variables on top. Validation catches misconfiguration at
// startup rather than at first request.
//
// # Environment Variables
//
// Server settings:
//
//	INCIDENT_HOST="0.0.0.0"
//	INCIDENT_PORT="8080"
//	INCIDENT_HEALTH_PORT="9090"
//	INCIDENT_READ_TIMEOUT="15s"
//	INCIDENT_WRITE_TIMEOUT="15s"
//	INCIDENT_SHUTDOWN_TIMEOUT="30s"
//
// Auth settings:
//
//	JWT_SECRET="..."           # required in production; default is dev-only
//	COOKIE_NAME="auth_token"
//	COOKIE_AGE="600"           # seconds
//	COOKIE_SECURE="true"
//	INCIDENT_LOGIN_ATTEMPTS="10"
//	INCIDENT_LOGIN_WINDOW="1m"
//	INCIDENT_PERM_CACHE_SIZE="1024"
//
// Storage settings:
//
//	INCIDENT_DB_DRIVER="postgres"  # postgres or sqlite3
//	INCIDENT_DB_DSN="postgres://localhost/incidents"
//	INCIDENT_DB_MAX_CONNS="25"
//
// Redis (login rate limiting; optional):
//
//	INCIDENT_REDIS_ADDR="localhost:6379"
//	INCIDENT_REDIS_PASSWORD=""
//	INCIDENT_REDIS_DB="0"
//
// Audit retention:
//
//	INCIDENT_AUDIT_RETENTION_DAYS="365"
//	INCIDENT_AUDIT_CLEANUP_SCHEDULE="0 3 * * *"
//
// Observability settings:
//
//	INCIDENT_LOG_LEVEL="info"  # debug, info, warn, error
//	INCIDENT_METRICS_ENABLED="true"
//	INCIDENT_OTEL_ENABLED="false"
//	INCIDENT_OTEL_ENDPOINT="localhost:4317"
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	tokens := auth.NewTokenManager(cfg.AuthSession())
//
// # Related Packages
//
//   - pkg/storage: consumes the storage section
//   - pkg/auth: consumes AuthSession()
//   - pkg/observability: consumes the observability section
package config
