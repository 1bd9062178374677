package storage

import "time"

// Config holds database connection configuration
type Config struct {
	// Driver is "postgres" or "sqlite3".
	Driver string `yaml:"driver"`
	// DSN is the driver-specific connection string.
	DSN         string        `yaml:"dsn"`
	MaxConns    int           `yaml:"max_conns"`
	MinConns    int           `yaml:"min_conns"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxLifetime time.Duration `yaml:"max_lifetime"`
	MaxIdleTime time.Duration `yaml:"max_idle_time"`
}

// DefaultConfig returns sensible development defaults: a local sqlite file
// so the service runs with no external dependencies.
func DefaultConfig() Config {
	return Config{
		Driver:      "sqlite3",
		DSN:         "incident-tracker.db",
		MaxConns:    25,
		MinConns:    5,
		Timeout:     10 * time.Second,
		MaxLifetime: 30 * time.Minute,
		MaxIdleTime: 5 * time.Minute,
	}
}
