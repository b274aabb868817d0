package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("REDIS_ENABLED", "")
	t.Setenv("READY_POLL_INTERVAL", "")
	t.Setenv("CORS_ORIGINS", "")

	require.NoError(t, LoadConfig())

	assert.Equal(t, "5000", AppConfig.ServerPort)
	assert.False(t, AppConfig.Redis.Enabled)
	assert.Equal(t, 5, AppConfig.OptimisticRetries)
	assert.Equal(t, 15*time.Second, AppConfig.ReadyPollInterval)
	assert.Equal(t, []string{"http://localhost:8081"}, AppConfig.CORSOrigins)
	assert.Nil(t, NewRedisClient(AppConfig.Redis))
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("READY_POLL_INTERVAL", "2s")
	t.Setenv("OPTIMISTIC_RETRIES", "9")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	require.NoError(t, LoadConfig())

	assert.True(t, AppConfig.Redis.Enabled)
	assert.Equal(t, 2*time.Second, AppConfig.ReadyPollInterval)
	assert.Equal(t, 9, AppConfig.OptimisticRetries)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, AppConfig.CORSOrigins)
}

func TestLoadConfigRequiresPassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	assert.EqualError(t, LoadConfig(), "DB_PASSWORD is required")
}

func TestValidateRejectsBadNumbers(t *testing.T) {
	base := Config{DBPassword: "x", OptimisticRetries: 1, RateLimitInvites: 1, ReadyPollInterval: time.Second}
	assert.NoError(t, base.Validate())

	bad := base
	bad.OptimisticRetries = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.ReadyPollInterval = 0
	assert.Error(t, bad.Validate())
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "host=h password=***** dbname=d", maskPassword("host=h password=hunter2 dbname=d"))
	assert.Equal(t, "password=*****", maskPassword("password=hunter2"))
	assert.Equal(t, "host=h", maskPassword("host=h"))
}
