package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	return dir
}

func TestLoad(t *testing.T) {
	t.Run("defaults applied when keys missing", func(t *testing.T) {
		dir := writeConfig(t, "config.yaml", "database:\n  host: db\n")

		cfg, err := Load("dev", dir)

		require.NoError(t, err)
		assert.Equal(t, "db", cfg.Database.Host)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 50, cfg.Moderation.PendingLimit)
		assert.Equal(t, 30*time.Second, cfg.Moderation.StatsCacheTTL)
		assert.Equal(t, 400, cfg.RateLimit.Burst)
	})

	t.Run("env specific file and durations", func(t *testing.T) {
		dir := writeConfig(t, "config.prod.yaml", "moderation:\n  pending_limit: 20\n  stats_cache_ttl: 1m\n")

		cfg, err := Load("prod", dir)

		require.NoError(t, err)
		assert.Equal(t, 20, cfg.Moderation.PendingLimit)
		assert.Equal(t, time.Minute, cfg.Moderation.StatsCacheTTL)
	})

	t.Run("env overrides", func(t *testing.T) {
		dir := writeConfig(t, "config.yaml", "redis:\n  addr: localhost:6379\n")
		t.Setenv("REDIS_ADDR", "redis:6380")
		t.Setenv("JWT_SECRET", "from-env")

		cfg, err := Load("dev", dir)

		require.NoError(t, err)
		assert.Equal(t, "redis:6380", cfg.Redis.Addr)
		assert.Equal(t, "from-env", cfg.JWT.Secret)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			JWT:        JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
			Database:   DatabaseConfig{Host: "h", User: "u", DBName: "d"},
			Redis:      RedisConfig{Addr: "localhost:6379"},
			Moderation: ModerationConfig{PendingLimit: 50},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		cfg := valid()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := valid()
		cfg.JWT.Secret = "short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("notify without push credentials", func(t *testing.T) {
		cfg := valid()
		cfg.Moderation.NotifyAuthors = true
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "push credentials")
	})
}
