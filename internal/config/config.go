// Package config loads application configuration from a YAML file,
// then applies environment variable overrides and defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	DataSource struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"data_source"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Password string `yaml:"password"`
	} `yaml:"redis"`
	Cache struct {
		TTLMinutes int    `yaml:"ttl_minutes"`
		Namespace  string `yaml:"namespace"`
	} `yaml:"cache"`
	Universe struct {
		File string `yaml:"file"`
	} `yaml:"universe"`
	Movers struct {
		TopK                int `yaml:"top_k"`
		MaxConcurrency      int `yaml:"max_concurrency"`
		FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
	} `yaml:"movers"`
	RateLimit struct {
		PerMinute int `yaml:"per_minute"`
	} `yaml:"rate_limit"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; overrides and defaults still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		cfg.Redis.Port = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("UNIVERSE_FILE"); v != "" {
		cfg.Universe.File = v
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 10
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == "" {
		cfg.Redis.Port = "6379"
	}
	if cfg.Cache.TTLMinutes == 0 {
		cfg.Cache.TTLMinutes = 5
	}
	if cfg.Cache.Namespace == "" {
		cfg.Cache.Namespace = "quotes"
	}
	if cfg.Universe.File == "" {
		cfg.Universe.File = "configs/universe.csv"
	}
	if cfg.Movers.TopK == 0 {
		cfg.Movers.TopK = 5
	}
	if cfg.Movers.MaxConcurrency == 0 {
		cfg.Movers.MaxConcurrency = 8
	}
	if cfg.Movers.FetchTimeoutSeconds == 0 {
		cfg.Movers.FetchTimeoutSeconds = 5
	}
	if cfg.RateLimit.PerMinute == 0 {
		cfg.RateLimit.PerMinute = 60
	}

	return cfg, nil
}

// Validate checks that all required fields are usable.
func (c *Config) Validate() error {
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.Universe.File == "" {
		return fmt.Errorf("universe.file is required")
	}
	if c.Movers.TopK < 1 {
		return fmt.Errorf("movers.top_k must be at least 1")
	}
	if c.Movers.MaxConcurrency < 1 {
		return fmt.Errorf("movers.max_concurrency must be at least 1")
	}
	if c.Movers.FetchTimeoutSeconds < 1 {
		return fmt.Errorf("movers.fetch_timeout_seconds must be at least 1")
	}
	if c.RateLimit.PerMinute < 1 {
		return fmt.Errorf("rate_limit.per_minute must be at least 1")
	}
	return nil
}

// HTTPTimeout returns the outbound request timeout for the data source.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long cached quote windows stay fresh.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// FetchTimeout returns the per-symbol fetch deadline for mover scans.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Movers.FetchTimeoutSeconds) * time.Second
}

// RedisAddr returns the host:port address of the Redis server.
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}
