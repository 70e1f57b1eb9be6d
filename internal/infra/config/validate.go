package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Database.validate(),
		c.Breaker.validate(),
		c.Log.validate(),
		c.Telemetry.validate(),
	)
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	if s.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (d *DatabaseConfig) validate() error {
	var errs []error

	switch d.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be one of: postgres, sqlite; got %q", d.Driver))
	}
	if d.DSN == "" {
		errs = append(errs, errors.New("database.dsn must not be empty"))
	}
	if d.TxTimeout <= 0 {
		errs = append(errs, errors.New("database.tx_timeout must be positive"))
	}
	if d.Driver == DriverPostgres {
		if d.MaxConns < 1 {
			errs = append(errs, fmt.Errorf("database.max_conns must be >= 1, got %d", d.MaxConns))
		}
		if d.MinConns < 0 || d.MinConns > d.MaxConns {
			errs = append(errs, fmt.Errorf("database.min_conns must be between 0 and max_conns, got %d", d.MinConns))
		}
	}

	return errors.Join(errs...)
}

func (b *BreakerConfig) validate() error {
	if !b.Enabled {
		return nil
	}

	var errs []error
	if b.MaxFailures < 1 {
		errs = append(errs, errors.New("breaker.max_failures must be >= 1"))
	}
	if b.Timeout <= 0 {
		errs = append(errs, errors.New("breaker.timeout must be positive"))
	}
	if b.HalfOpenLimit < 1 {
		errs = append(errs, errors.New("breaker.half_open_limit must be >= 1"))
	}
	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	switch l.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level)
	}
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error
	if t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when telemetry is enabled"))
	}
	if t.SampleRatio < 0 || t.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_ratio must be between 0 and 1, got %g", t.SampleRatio))
	}
	return errors.Join(errs...)
}
