package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Server.RunMode)
	assert.Equal(t, ":9000", cfg.Server.HttpPort)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.True(t, cfg.User.RegisterIsEnable)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, DefaultAuthTokenKey, cfg.Security.AuthTokenKey)
	assert.Equal(t, 7*24*time.Hour, cfg.GetTokenExpiry())
	assert.Equal(t, time.Hour, cfg.GetHistoryCleanupInterval())
	assert.Equal(t, 5*time.Minute, cfg.GetWriteQueueStatsInterval())
	assert.Equal(t, 60*time.Second, cfg.GetContextTimeout())
}

func TestParseConfig_ExplicitFalseIsKept(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
user:
  register-is-enable: false
  admin-uid: 3
database:
  auto-migrate: false
rate-limit:
  enabled: false
tracer:
  enabled: false
app:
  write-queue-stats-interval: "0"
security:
  token-expiry: 12h
`))
	require.NoError(t, err)

	assert.False(t, cfg.User.RegisterIsEnable)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.Tracer.Enabled)
	assert.Nil(t, cfg.GetBucketRules())
	assert.Equal(t, time.Duration(0), cfg.GetWriteQueueStatsInterval())
	assert.Equal(t, 12*time.Hour, cfg.GetTokenExpiry())
	assert.Equal(t, int64(3), cfg.User.AdminUID)

	// 未出现的字段仍为默认值
	assert.Equal(t, ":9000", cfg.Server.HttpPort)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig([]byte("server: [1, 2"))
	assert.Error(t, err)
}

func TestGetBucketRules(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)

	rules := cfg.GetBucketRules()
	require.Len(t, rules, 2)
	assert.Equal(t, "/api/user/login", rules[0].Key)
	assert.Equal(t, time.Second, rules[0].FillInterval)
	assert.Equal(t, int64(10), rules[0].Capacity)
	assert.Equal(t, "/api/user/signup", rules[1].Key)
	assert.Equal(t, int64(5), rules[1].Quantum)

	cfg.RateLimit.Rules = []RateLimitRule{{Path: "/api/notes", Interval: "500ms", Capacity: 2, Quantum: 1}}
	rules = cfg.GetBucketRules()
	require.Len(t, rules, 1)
	assert.Equal(t, "/api/notes", rules[0].Key)
	assert.Equal(t, 500*time.Millisecond, rules[0].FillInterval)
}

func TestGetDatabaseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
server:
  run-mode: debug
database:
  conn-max-lifetime: 1h
  slow-threshold: bogus
tracer:
  jaeger-agent: 127.0.0.1:6831
`))
	require.NoError(t, err)

	db := cfg.GetDatabaseConfig()
	assert.True(t, db.Debug)
	assert.True(t, db.Tracing)
	assert.Equal(t, time.Hour, db.ConnMaxLifetime)
	assert.Equal(t, 10*time.Minute, db.ConnMaxIdleTime)
	assert.Equal(t, 200*time.Millisecond, db.SlowThreshold)
}

func TestPoolAndQueueConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
app:
  worker-pool-max-workers: 3
  write-queue-capacity: 7
  write-queue-timeout: 2s
  default-page-size: 5
  max-page-size: 20
`))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.GetWorkerPoolConfig().MaxWorkers)
	assert.Equal(t, 7, cfg.GetWriteQueueConfig().QueueCapacity)
	assert.Equal(t, 2*time.Second, cfg.GetWriteQueueConfig().WriteTimeout)
	assert.Equal(t, 5, cfg.GetPaginationConfig().DefaultPageSize)
	assert.Equal(t, 20, cfg.GetPaginationConfig().MaxPageSize)
}

func TestLoadConfig_ShippedDefaultAndSave(t *testing.T) {
	shipped, path, err := LoadConfig(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, DefaultAuthTokenKey, shipped.Security.AuthTokenKey)
	assert.Len(t, shipped.GetBucketRules(), 2)

	shipped.File = filepath.Join(t.TempDir(), "config.yaml")
	shipped.User.AdminUID = 42
	require.NoError(t, shipped.Save())

	reloaded, _, err := LoadConfig(shipped.File)
	require.NoError(t, err)
	assert.Equal(t, int64(42), reloaded.User.AdminUID)
	assert.Equal(t, shipped.Database, reloaded.Database)

	_, _, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	_, statErr := os.Stat(shipped.File)
	assert.NoError(t, statErr)
}

func TestApp_IsAdmin(t *testing.T) {
	a := &App{config: &AppConfig{}}
	assert.False(t, a.IsAdmin(0))
	assert.False(t, a.IsAdmin(1))

	a.config.User.AdminUID = 1
	assert.True(t, a.IsAdmin(1))
	assert.False(t, a.IsAdmin(2))
}
