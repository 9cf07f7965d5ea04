// Package config loads jsonapi-view settings from jsonapi-view.yaml, the
// environment and defaults, in that order of precedence after the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/conduit-lang/jsonapi-view/internal/serializer"
)

// EnvPrefix is prepended to environment overrides, e.g. JSONAPI_VIEW_SERVER_PORT
const EnvPrefix = "JSONAPI_VIEW"

// Config represents the jsonapi-view configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	JSONAPI  JSONAPIConfig  `mapstructure:"jsonapi"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	Host      string `mapstructure:"host"`
	APIPrefix string `mapstructure:"api_prefix"`
	// Profiling mounts pprof under /debug/pprof
	Profiling bool `mapstructure:"profiling"`
}

// Addr returns the host:port listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// JSONAPIConfig controls document assembly
type JSONAPIConfig struct {
	// IncludeParam is the query parameter holding inclusion paths
	IncludeParam string `mapstructure:"include_param"`
	// Naming is the serializer naming strategy for undeclared wire names
	Naming string `mapstructure:"naming"`
	// DedupeIncluded drops repeated resources from the included array
	DedupeIncluded bool `mapstructure:"dedupe_included"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	URL  string `mapstructure:"url"`
	Seed bool   `mapstructure:"seed"`
}

// CacheConfig controls the rendered document cache
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// RedisConfig holds the Redis cache connection settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// ZapLevel parses Level ("debug", "info", "warn", "error", ...)
func (l LogConfig) ZapLevel() (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, err
	}
	return level, nil
}

// setDefaults registers every key so environment overrides work without a file
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.api_prefix", "")
	v.SetDefault("server.profiling", false)
	v.SetDefault("jsonapi.include_param", "included")
	v.SetDefault("jsonapi.naming", "snake_case")
	v.SetDefault("jsonapi.dedupe_included", false)
	v.SetDefault("database.url", "sqlite3://:memory:")
	v.SetDefault("database.seed", true)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load loads the configuration. An empty configFile searches for
// jsonapi-view.yaml in the working directory and tolerates its absence; an
// explicit path must exist.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("jsonapi-view")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Enable environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	// Validate API prefix format
	if cfg.Server.APIPrefix != "" {
		if !strings.HasPrefix(cfg.Server.APIPrefix, "/") {
			return fmt.Errorf("server.api_prefix must start with '/', got: %s", cfg.Server.APIPrefix)
		}
		if strings.HasSuffix(cfg.Server.APIPrefix, "/") {
			return fmt.Errorf("server.api_prefix must not end with '/', got: %s", cfg.Server.APIPrefix)
		}
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got: %d", cfg.Server.Port)
	}

	if strings.TrimSpace(cfg.JSONAPI.IncludeParam) == "" {
		return fmt.Errorf("jsonapi.include_param must not be empty")
	}

	if _, err := serializer.ParseNamingStrategy(cfg.JSONAPI.Naming); err != nil {
		return fmt.Errorf("jsonapi.naming: %w", err)
	}

	switch cfg.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be memory or redis, got: %s", cfg.Cache.Backend)
	}

	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got: %s", cfg.Cache.TTL)
	}

	if _, err := cfg.Log.ZapLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}
