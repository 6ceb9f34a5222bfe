package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Contains(t, cfg.DBDataSourceName, "localhost:5432/bookstore")
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.LowStockSweepTime)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BOOKSTORE_DB_HOST", "db.internal")
	t.Setenv("BOOKSTORE_REDIS_HOST", "cache.internal")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("BCRYPT_COST", "12")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Contains(t, cfg.DBDataSourceName, "db.internal")
	assert.Equal(t, "cache.internal:6379", cfg.RedisAddr)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestLoadConfigIgnoresBadBcryptCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "99")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.BcryptCost)
}
