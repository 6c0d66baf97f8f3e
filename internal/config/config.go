// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Fetch      FetchConfig     `yaml:"fetch"`
	Cache      CacheConfig     `yaml:"cache"`
	Sources    map[string]bool `yaml:"sources"` // per-slug enabled overrides; absent = enabled
	Database   DatabaseConfig  `yaml:"database"`
	RateLimits RateLimitConfig `yaml:"rate_limits"`
	Logging    LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type FetchConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"` // per attempt
	Attempts       int    `yaml:"attempts"`
	BackoffBaseMs  int    `yaml:"backoff_base_ms"`
	BackoffMaxMs   int    `yaml:"backoff_max_ms"`
	UserAgent      string `yaml:"user_agent"`
}

// Timeout returns the per-attempt timeout as a duration.
func (f FetchConfig) Timeout() time.Duration { return time.Duration(f.TimeoutSeconds) * time.Second }

// BackoffBase returns the initial retry delay as a duration.
func (f FetchConfig) BackoffBase() time.Duration {
	return time.Duration(f.BackoffBaseMs) * time.Millisecond
}

// BackoffMax returns the retry delay cap as a duration.
func (f FetchConfig) BackoffMax() time.Duration {
	return time.Duration(f.BackoffMaxMs) * time.Millisecond
}

type CacheConfig struct {
	Capacity   int `yaml:"capacity"`
	TTLSeconds int `yaml:"ttl_seconds"`
}

// TTL returns the cache entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration { return time.Duration(c.TTLSeconds) * time.Second }

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// SourceEnabled reports whether a source starts enabled. Sources absent from
// the config default to enabled.
func (c *Config) SourceEnabled(slug string) bool {
	if c.Sources == nil {
		return true
	}
	enabled, ok := c.Sources[slug]
	if !ok {
		return true
	}
	return enabled
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"*"},
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 15,
			Attempts:       3,
			BackoffBaseMs:  500,
			BackoffMaxMs:   8000,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Cache: CacheConfig{
			Capacity:   100,
			TTLSeconds: 300,
		},
		Database: DatabaseConfig{
			Path: "./data/neonsearch.db",
		},
		RateLimits: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run with -generate-config to create one)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	content := interpolateEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# neonsearch configuration

server:
  port: 8080
  cors_origins:
    - "*"

fetch:
  timeout_seconds: 15   # per attempt, per source
  attempts: 3
  backoff_base_ms: 500  # doubles each retry
  backoff_max_ms: 8000
  # user_agent: Mozilla/5.0 ...

cache:
  capacity: 100
  ttl_seconds: 300

# Per-source enabled flags; sources not listed start enabled.
sources:
  pornhub: true
  xvideos: true
  xnxx: true
  spankbang: true
  redtube: true

database:
  path: ./data/neonsearch.db

rate_limits:
  requests_per_minute: 60

logging:
  level: info  # debug, info, warn, error
  format: json # json or text
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Fetch.Attempts < 1 {
		return fmt.Errorf("fetch attempts must be at least 1, got %d", c.Fetch.Attempts)
	}
	if c.Fetch.TimeoutSeconds < 1 {
		return fmt.Errorf("fetch timeout must be at least 1s, got %ds", c.Fetch.TimeoutSeconds)
	}
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("cache capacity must be at least 1, got %d", c.Cache.Capacity)
	}
	if c.Cache.TTLSeconds < 1 {
		return fmt.Errorf("cache ttl must be at least 1s, got %ds", c.Cache.TTLSeconds)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("unsupported log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("unsupported log format: %s", c.Logging.Format)
	}

	return nil
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if not set
	})
}
