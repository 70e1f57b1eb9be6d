package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/office-hub/internal/infra/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.Database.TxTimeout)
	assert.True(t, cfg.Breaker.Enabled)
	assert.Equal(t, uint32(5), cfg.Breaker.MaxFailures)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: sqlite
  dsn: /tmp/office.db
log:
  level: debug
`)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("APP_SERVER_READ_TIMEOUT", "7s")
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 7*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/office.db", cfg.Database.DSN)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_DatabaseURLWins(t *testing.T) {
	t.Setenv("APP_DATABASE_DSN", "postgres://env@localhost/app")
	t.Setenv("DATABASE_URL", "postgres://url@localhost/app")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://url@localhost/app", cfg.Database.DSN)
}

func TestLoad_TxTimeout(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	t.Run("env override", func(t *testing.T) {
		t.Setenv("APP_DATABASE_TX_TIMEOUT", "750ms")

		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, 750*time.Millisecond, cfg.Database.TxTimeout)
	})

	t.Run("must be positive", func(t *testing.T) {
		t.Setenv("APP_DATABASE_TX_TIMEOUT", "0s")

		_, err := config.Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.tx_timeout")
	})
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValuesAggregate(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 0
database:
  driver: mysql
log:
  level: verbose
`)
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "database.driver")
	assert.Contains(t, err.Error(), "log.level")
}
