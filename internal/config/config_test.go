package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:       AppConfig{Environment: "development"},
		Logger:    LoggerConfig{Level: "info"},
		Data:      DataConfig{BasePath: "/var/lib/directory"},
		Cache:     CacheConfig{Backend: CacheMemory},
		Directory: DirectoryConfig{ThanksPageSize: 10, ThanksPageWindow: 15, RelatedTagLimit: 30},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown environment", func(c *Config) { c.App.Environment = "test" }},
		{"case sensitive environment", func(c *Config) { c.App.Environment = "DEVELOPMENT" }},
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }},
		{"empty data path", func(c *Config) { c.Data.BasePath = "" }},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without address", func(c *Config) { c.Cache.Backend = CacheRedis; c.Cache.RedisAddr = "" }},
		{"zero page size", func(c *Config) { c.Directory.ThanksPageSize = 0 }},
		{"zero page window", func(c *Config) { c.Directory.ThanksPageWindow = 0 }},
		{"negative related limit", func(c *Config) { c.Directory.RelatedTagLimit = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load([]string{"-data-path", dir, "-env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 10, cfg.Directory.ThanksPageSize)
	assert.Equal(t, 15, cfg.Directory.ThanksPageWindow)
	assert.Equal(t, 30, cfg.Directory.RelatedTagLimit)
	assert.Equal(t, 20, cfg.Directory.PopularTagMinCount)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.True(t, cfg.Server.MetricsEnabled)
	assert.Equal(t, filepath.Join(dir, "directory.db"), cfg.Data.DatabasePath())
}

func TestLoad_EnvFileAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("THANKS_PAGE_SIZE=25\nSERVER_PORT=9000\nCACHE_BACKEND=none\n"), 0o600))

	t.Setenv("SERVER_PORT", "9100")

	cfg, err := Load([]string{"-data-path", dir, "-env-file", envFile, "-thanks-page-size", "5"})
	require.NoError(t, err)

	// Flag beats .env, real env beats .env.
	assert.Equal(t, 5, cfg.Directory.ThanksPageSize)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CACHE_TTL", "soon")

	_, err := Load([]string{"-data-path", dir, "-env-file", filepath.Join(dir, "none.env")})
	assert.ErrorContains(t, err, "CACHE_TTL")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitList(" https://a.example, ,https://b.example "))
	assert.Nil(t, splitList(""))
}
