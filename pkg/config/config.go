package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thevoid12/incident-tracker/pkg/auth"
	"github.com/thevoid12/incident-tracker/pkg/observability"
	"github.com/thevoid12/incident-tracker/pkg/storage"
)

// Config holds all application configuration. It is loaded once at startup
// and treated as immutable afterwards; nothing in the process mutates it.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Auth          AuthConfig          `yaml:"auth"`
	Storage       storage.Config      `yaml:"storage"`
	Redis         RedisConfig         `yaml:"redis"`
	Pagination    PaginationConfig    `yaml:"pagination"`
	Audit         AuditConfig         `yaml:"audit"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Health/metrics server (separate port for k8s probes)
	HealthPort string `yaml:"health_port"`
}

// AuthConfig holds session and cookie configuration
type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"`
	CookieName   string        `yaml:"cookie_name"`
	CookieAge    time.Duration `yaml:"cookie_age"`
	CookieSecure bool          `yaml:"cookie_secure"`

	// Login rate limiting (redis-backed fixed window)
	LoginAttemptsPerWindow int           `yaml:"login_attempts_per_window"`
	LoginAttemptWindow     time.Duration `yaml:"login_attempt_window"`

	// PermissionCacheSize bounds the gate's email -> permission blob LRU.
	PermissionCacheSize int `yaml:"permission_cache_size"`
}

// RedisConfig holds redis connection settings for the rate limiter
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PaginationConfig holds list-endpoint paging defaults
type PaginationConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// AuditConfig holds audit trail retention settings
type AuditConfig struct {
	RetentionDays int `yaml:"retention_days"`
	// CleanupSchedule is a cron expression for the retention sweep.
	CleanupSchedule string `yaml:"cleanup_schedule"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel `yaml:"-"`
	LogLevelName   string                 `yaml:"log_level"`
	MetricsEnabled bool                   `yaml:"metrics_enabled"`

	OTelEnabled        bool   `yaml:"otel_enabled"`
	OTelEndpoint       string `yaml:"otel_endpoint"`
	OTelServiceName    string `yaml:"otel_service_name"`
	OTelServiceVersion string `yaml:"otel_service_version"`
	OTelInsecure       bool   `yaml:"otel_insecure"`
}

// LoadConfig loads configuration from an optional YAML file (path from
// INCIDENT_CONFIG_FILE) with environment variables taking precedence.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := getEnv("INCIDENT_CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	cfg.loadEnv()

	if cfg.Observability.LogLevelName != "" {
		cfg.Observability.LogLevel = parseLogLevel(cfg.Observability.LogLevelName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			HealthPort:      "9090",
		},
		Auth: AuthConfig{
			JWTSecret:              auth.DefaultSecret,
			CookieName:             "auth_token",
			CookieAge:              600 * time.Second,
			CookieSecure:           true,
			LoginAttemptsPerWindow: 10,
			LoginAttemptWindow:     time.Minute,
			PermissionCacheSize:    1024,
		},
		Storage: storage.DefaultConfig(),
		Redis: RedisConfig{
			Addr: "",
			DB:   0,
		},
		Pagination: PaginationConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
		Audit: AuditConfig{
			RetentionDays:   365,
			CleanupSchedule: "0 3 * * *",
		},
		Observability: ObservabilityConfig{
			LogLevel:           observability.InfoLevel,
			LogLevelName:       "info",
			MetricsEnabled:     true,
			OTelEnabled:        false,
			OTelEndpoint:       "localhost:4317",
			OTelServiceName:    "incident-tracker",
			OTelServiceVersion: "1.0.0",
			OTelInsecure:       true,
		},
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// loadEnv overlays environment variables on top of file/default values.
func (c *Config) loadEnv() {
	// Server
	c.Server.Host = getEnv("INCIDENT_HOST", c.Server.Host)
	c.Server.Port = getEnv("INCIDENT_PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvDuration("INCIDENT_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDuration("INCIDENT_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvDuration("INCIDENT_IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.ShutdownTimeout = getEnvDuration("INCIDENT_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.HealthPort = getEnv("INCIDENT_HEALTH_PORT", c.Server.HealthPort)

	// Auth
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.CookieName = getEnv("COOKIE_NAME", c.Auth.CookieName)
	if age := getEnvInt("COOKIE_AGE", 0); age > 0 {
		c.Auth.CookieAge = time.Duration(age) * time.Second
	}
	c.Auth.CookieSecure = getEnvBool("COOKIE_SECURE", c.Auth.CookieSecure)
	if n := getEnvInt("INCIDENT_LOGIN_ATTEMPTS", 0); n > 0 {
		c.Auth.LoginAttemptsPerWindow = n
	}
	c.Auth.LoginAttemptWindow = getEnvDuration("INCIDENT_LOGIN_WINDOW", c.Auth.LoginAttemptWindow)
	if n := getEnvInt("INCIDENT_PERM_CACHE_SIZE", 0); n > 0 {
		c.Auth.PermissionCacheSize = n
	}

	// Storage
	c.Storage.Driver = getEnv("INCIDENT_DB_DRIVER", c.Storage.Driver)
	c.Storage.DSN = getEnv("INCIDENT_DB_DSN", c.Storage.DSN)
	if n := getEnvInt("INCIDENT_DB_MAX_CONNS", 0); n > 0 {
		c.Storage.MaxConns = n
	}
	if n := getEnvInt("INCIDENT_DB_MIN_CONNS", 0); n > 0 {
		c.Storage.MinConns = n
	}
	c.Storage.Timeout = getEnvDuration("INCIDENT_DB_TIMEOUT", c.Storage.Timeout)

	// Redis
	c.Redis.Addr = getEnv("INCIDENT_REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("INCIDENT_REDIS_PASSWORD", c.Redis.Password)
	if db := getEnvInt("INCIDENT_REDIS_DB", -1); db >= 0 {
		c.Redis.DB = db
	}

	// Pagination
	if n := getEnvInt("INCIDENT_PAGE_LIMIT", 0); n > 0 {
		c.Pagination.DefaultLimit = n
	}
	if n := getEnvInt("INCIDENT_PAGE_MAX_LIMIT", 0); n > 0 {
		c.Pagination.MaxLimit = n
	}

	// Audit
	if n := getEnvInt("INCIDENT_AUDIT_RETENTION_DAYS", 0); n > 0 {
		c.Audit.RetentionDays = n
	}
	c.Audit.CleanupSchedule = getEnv("INCIDENT_AUDIT_CLEANUP_SCHEDULE", c.Audit.CleanupSchedule)

	// Observability
	c.Observability.LogLevelName = getEnv("INCIDENT_LOG_LEVEL", c.Observability.LogLevelName)
	c.Observability.MetricsEnabled = getEnvBool("INCIDENT_METRICS_ENABLED", c.Observability.MetricsEnabled)
	c.Observability.OTelEnabled = getEnvBool("INCIDENT_OTEL_ENABLED", c.Observability.OTelEnabled)
	c.Observability.OTelEndpoint = getEnv("INCIDENT_OTEL_ENDPOINT", c.Observability.OTelEndpoint)
	c.Observability.OTelServiceName = getEnv("INCIDENT_OTEL_SERVICE_NAME", c.Observability.OTelServiceName)
	c.Observability.OTelServiceVersion = getEnv("INCIDENT_OTEL_SERVICE_VERSION", c.Observability.OTelServiceVersion)
	c.Observability.OTelInsecure = getEnvBool("INCIDENT_OTEL_INSECURE", c.Observability.OTelInsecure)
}

// AuthSession converts the auth section into the immutable config consumed
// by the token manager.
func (c *Config) AuthSession() auth.Config {
	return auth.Config{
		Secret:       c.Auth.JWTSecret,
		CookieName:   c.Auth.CookieName,
		TTL:          c.Auth.CookieAge,
		CookieSecure: c.Auth.CookieSecure,
	}
}

// UsingDefaultSecret reports whether the process is still running on the
// fallback signing secret. Deployments must override it; main logs a loud
// warning when this returns true.
func (c *Config) UsingDefaultSecret() bool {
	return c.Auth.JWTSecret == auth.DefaultSecret
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt secret cannot be empty")
	}
	if c.Auth.CookieName == "" {
		return fmt.Errorf("cookie name is required")
	}
	if c.Auth.CookieAge <= 0 {
		return fmt.Errorf("cookie age must be positive")
	}

	switch c.Storage.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("invalid storage driver: %s (must be postgres or sqlite3)", c.Storage.Driver)
	}
	if c.Storage.DSN == "" {
		return fmt.Errorf("storage DSN is required")
	}

	if c.Pagination.DefaultLimit <= 0 || c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
		return fmt.Errorf("invalid pagination limits: default=%d max=%d",
			c.Pagination.DefaultLimit, c.Pagination.MaxLimit)
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
