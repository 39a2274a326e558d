package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("RESERVATION_RECHECK_ON_APPROVE", "")
	t.Setenv("PENDING_EXPIRY_SCHEDULE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.SeedDemoData)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.False(t, cfg.Reservation.RecheckOnApprove)
	assert.Empty(t, cfg.Reservation.PendingExpirySchedule)
	assert.False(t, cfg.Reservation.PendingExpiryEnabled())
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", " Postgres ")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("RESERVATION_RECHECK_ON_APPROVE", "true")
	t.Setenv("REDIS_ENABLED", "1")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("PENDING_EXPIRY_SCHEDULE", "@hourly")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 90*time.Minute, cfg.Auth.SessionTTL)
	assert.True(t, cfg.Reservation.RecheckOnApprove)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.RedisAddr())
	assert.True(t, cfg.Reservation.PendingExpiryEnabled())
	assert.Equal(t, "@hourly", cfg.Reservation.PendingExpirySchedule)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("SERVER_PORT", "eighty")
	t.Setenv("SESSION_TTL", "forever")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "res", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=res sslmode=disable", db.DatabaseDSN())
}
