// Package config loads the runtime configuration of the CLI and the proxy
// from environment variables and an optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sternrassler/renewables-client/pkg/cache"
	"github.com/Sternrassler/renewables-client/pkg/credentials"
	"github.com/Sternrassler/renewables-client/pkg/logging"
	"github.com/Sternrassler/renewables-client/pkg/plant"
	"github.com/Sternrassler/renewables-client/pkg/ratelimit"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// Defaults applied when neither the environment nor the config file set a
// value.
const (
	DefaultMaxConcurrency = 4
	DefaultPort           = "8080"
	DefaultLogLevel       = "info"
)

// Config holds all runtime configuration.
type Config struct {
	// Tokens is the raw path-list separated credential string.
	Tokens string `mapstructure:"res_ninja_tokens"`

	CacheSize int    `mapstructure:"lru_cache_maxsize"`
	BaseURL   string `mapstructure:"res_ninja_base_url"`

	// Debug dumps every outgoing request, credentials included.
	Debug bool `mapstructure:"-"`

	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`

	// RedisURL is a redis:// URL or a host:port address. Empty disables
	// credential statistics.
	RedisURL string `mapstructure:"redis_url"`

	// RequestsPerSecond paces outgoing requests. Zero means unlimited.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`

	MaxConcurrency int    `mapstructure:"max_concurrency"`
	Port           string `mapstructure:"port"`
}

// envBindings maps config keys to environment variables.
var envBindings = map[string]string{
	"res_ninja_tokens":    "RES_NINJA_TOKENS",
	"lru_cache_maxsize":   "LRU_CACHE_MAXSIZE",
	"res_ninja_base_url":  "RES_NINJA_BASE_URL",
	"debug":               "DEBUG",
	"log_level":           "LOG_LEVEL",
	"log_pretty":          "LOG_PRETTY",
	"redis_url":           "REDIS_URL",
	"requests_per_second": "REQUESTS_PER_SECOND",
	"max_concurrency":     "MAX_CONCURRENCY",
	"port":                "PORT",
}

// Load reads configuration from environment variables and a config file.
// Environment variables take precedence over config file values.
//
// With an empty configFile, config.yaml is looked up in the working
// directory and in $HOME/.renewables-client; a missing file is not an
// error. An explicit configFile must exist.
//
// Expected environment variables:
//   - RES_NINJA_TOKENS
//   - LRU_CACHE_MAXSIZE (default 2048)
//   - RES_NINJA_BASE_URL (optional, defaults to production)
//   - DEBUG ("true" in any case enables the request dump)
//   - LOG_LEVEL, LOG_PRETTY
//   - REDIS_URL (optional)
//   - REQUESTS_PER_SECOND (optional, 0 = unlimited)
//   - MAX_CONCURRENCY (default 4)
//   - PORT (proxy only, default 8080)
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("lru_cache_maxsize", cache.DefaultCapacity)
	v.SetDefault("res_ninja_base_url", plant.DefaultBaseURL)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("max_concurrency", DefaultMaxConcurrency)
	v.SetDefault("port", DefaultPort)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.renewables-client")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Debug = strings.EqualFold(strings.TrimSpace(v.GetString("debug")), "true")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the numeric settings.
func (c *Config) Validate() error {
	var problems []string
	if c.CacheSize < 1 {
		problems = append(problems, fmt.Sprintf("LRU_CACHE_MAXSIZE must be >= 1 (got %d)", c.CacheSize))
	}
	if c.RequestsPerSecond < 0 {
		problems = append(problems, fmt.Sprintf("REQUESTS_PER_SECOND must be >= 0 (got %g)", c.RequestsPerSecond))
	}
	if c.MaxConcurrency < 1 {
		problems = append(problems, fmt.Sprintf("MAX_CONCURRENCY must be >= 1 (got %d)", c.MaxConcurrency))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Pool builds the credential pool from Tokens in shuffled order. An empty
// token string gives an empty pool.
func (c *Config) Pool() *credentials.Pool {
	return credentials.FromList(c.Tokens)
}

// Logging returns the logger configuration.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(strings.ToLower(c.LogLevel))
	cfg.Pretty = c.LogPretty
	return cfg
}

// Pacer returns the outgoing request pacer.
func (c *Config) Pacer() *ratelimit.Pacer {
	return ratelimit.NewPacer(c.RequestsPerSecond, 1)
}

// Redis returns a client for RedisURL, or nil when statistics are disabled.
func (c *Config) Redis() (*redis.Client, error) {
	if c.RedisURL == "" {
		return nil, nil
	}

	if strings.Contains(c.RedisURL, "://") {
		opts, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		return redis.NewClient(opts), nil
	}

	return redis.NewClient(&redis.Options{Addr: c.RedisURL}), nil
}
