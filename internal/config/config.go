// Package config loads service configuration from flags, environment variables and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Data      DataConfig
	Server    ServerConfig
	Auth      AuthConfig
	Directory DirectoryConfig
	Cache     CacheConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds on-disk locations.
type DataConfig struct {
	BasePath string // directory holding the database, search index and keys
}

// DatabasePath returns the SQLite database file path.
func (d DataConfig) DatabasePath() string {
	return filepath.Join(d.BasePath, "directory.db")
}

// SearchPath returns the bleve index directory.
func (d DataConfig) SearchPath() string {
	return filepath.Join(d.BasePath, "search")
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	CORSOrigins    []string
	RateLimitRPS   int
	RateLimitBurst int
	MetricsEnabled bool
}

// AuthConfig holds token configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key, set by auth.LoadOrGenerateKey during bootstrap.
	AccessTokenKey      []byte
	AccessTokenDuration time.Duration
}

// DirectoryConfig holds the directory listing knobs.
type DirectoryConfig struct {
	ThanksPageSize     int // praise records per page
	ThanksPageWindow   int // page numbers shown around the current page
	RelatedTagLimit    int // related tags shown on a tag filter page
	PopularTagMinCount int // associations a tag needs to appear on the overview
	RecentProfileLimit int // recently updated profiles on the overview
}

// CacheConfig selects and tunes the page cache backend.
type CacheConfig struct {
	Backend   string
	TTL       time.Duration
	RedisAddr string
	RedisDB   int
}

// LoadConfig loads configuration from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds a Config with precedence:
// 1. Command-line flags.
// 2. Environment variables.
// 3. .env file.
// 4. Defaults.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("staff-directory", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for database, index and keys")
	port := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	accessTokenDuration := fs.String("access-token-duration", "", "Access token lifetime (e.g., 15m)")
	thanksPageSize := fs.String("thanks-page-size", "", "Thanks per page (default: 10)")
	cacheBackend := fs.String("cache", "", "Cache backend: memory, redis or none")
	redisAddr := fs.String("redis-addr", "", "Redis address for the redis cache backend")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Missing .env files are fine. Existing environment variables win.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %q: %w", *envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*port, "SERVER_PORT", "8080"),
			CORSOrigins:    splitList(getConfigValue("", "CORS_ORIGINS", "*")),
			RateLimitRPS:   getIntConfigValue("", "RATE_LIMIT_RPS", 20),
			RateLimitBurst: getIntConfigValue("", "RATE_LIMIT_BURST", 40),
			MetricsEnabled: getBoolConfigValue("", "METRICS_ENABLED", true),
		},
		Directory: DirectoryConfig{
			ThanksPageSize:     getIntConfigValue(*thanksPageSize, "THANKS_PAGE_SIZE", 10),
			ThanksPageWindow:   getIntConfigValue("", "THANKS_PAGE_WINDOW", 15),
			RelatedTagLimit:    getIntConfigValue("", "RELATED_TAG_LIMIT", 30),
			PopularTagMinCount: getIntConfigValue("", "POPULAR_TAG_MIN_COUNT", 20),
			RecentProfileLimit: getIntConfigValue("", "RECENT_PROFILE_LIMIT", 20),
		},
		Cache: CacheConfig{
			Backend:   strings.ToLower(getConfigValue(*cacheBackend, "CACHE_BACKEND", CacheMemory)),
			RedisAddr: getConfigValue(*redisAddr, "REDIS_ADDR", "localhost:6379"),
			RedisDB:   getIntConfigValue("", "REDIS_DB", 0),
		},
	}

	durations := []struct {
		flag   string
		envKey string
		def    string
		target *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*accessTokenDuration, "ACCESS_TOKEN_DURATION", "15m", &cfg.Auth.AccessTokenDuration},
		{"", "CACHE_TTL", "10m", &cfg.Cache.TTL},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flag, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.target = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data path cannot be empty")
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("invalid cache backend: %q (must be memory, redis, or none)", c.Cache.Backend)
	}

	if c.Directory.ThanksPageSize < 1 {
		return fmt.Errorf("thanks page size must be positive, got %d", c.Directory.ThanksPageSize)
	}
	if c.Directory.ThanksPageWindow < 1 {
		return fmt.Errorf("thanks page window must be positive, got %d", c.Directory.ThanksPageWindow)
	}
	if c.Directory.RelatedTagLimit < 0 {
		return fmt.Errorf("related tag limit cannot be negative, got %d", c.Directory.RelatedTagLimit)
	}

	return nil
}

// expandDataPath expands ~ and makes the data path absolute.
func (c *Config) expandDataPath() error {
	path := c.Data.BasePath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		c.Data.BasePath = filepath.Join(homeDir, "StaffDirectory", "data")
		return nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	c.Data.BasePath = filepath.Clean(abs)
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue accepts "true", "1" and "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
