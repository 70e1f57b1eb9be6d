// Package config loads the service configuration. Values are layered:
// built-in defaults, then an optional YAML file, then APP_ environment
// variables, with DATABASE_URL taking precedence for the database DSN.
package config

import "time"

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Debug     DebugConfig     `koanf:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// DatabaseConfig selects and tunes the storage backend. For sqlite the DSN
// is a file path. TxTimeout bounds every unit of work, lock waits included.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	DSN             string        `koanf:"dsn"`
	MinConns        int32         `koanf:"min_conns"`
	MaxConns        int32         `koanf:"max_conns"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
	TxTimeout       time.Duration `koanf:"tx_timeout"`
}

// BreakerConfig tunes the circuit breaker in front of the transactor.
type BreakerConfig struct {
	Enabled       bool          `koanf:"enabled"`
	MaxFailures   uint32        `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit uint32        `koanf:"half_open_limit"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level string `koanf:"level"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	Insecure    bool    `koanf:"insecure"`
	SampleRatio float64 `koanf:"sample_ratio"`
	ServiceName string  `koanf:"service_name"`
}

// DebugConfig controls the debug server exposing statsviz and probes.
type DebugConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}
