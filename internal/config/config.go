package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is used when neither the PORT environment variable nor
	// the config file specifies a listen port.
	DefaultPort = 3000

	// DefaultBrandName and DefaultAccent seed new settings records.
	DefaultBrandName = "Orderly"
	DefaultAccent    = "#16a34a"
)

// Config represents the main configuration structure for Orderly
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Security  SecurityConfig  `yaml:"security"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Port int       `yaml:"port"`
	TLS  TLSConfig `yaml:"tls"`
}

// TLSConfig holds the optional TLS listener configuration
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// LoggingConfig controls the global logger and request middleware
type LoggingConfig struct {
	Level         string          `yaml:"level"`
	Format        string          `yaml:"format"`
	IncludeCaller bool            `yaml:"include_caller"`
	RequestID     RequestIDConfig `yaml:"request_id"`
}

// RequestIDConfig controls request identifier propagation
type RequestIDConfig struct {
	Enabled bool   `yaml:"enabled"`
	Header  string `yaml:"header"`
}

// SecurityConfig holds CSP and metrics-endpoint settings
type SecurityConfig struct {
	// ExtraFrameAncestors are appended to the fixed Shopify origins in
	// the Content-Security-Policy frame-ancestors directive.
	ExtraFrameAncestors []string `yaml:"extra_frame_ancestors"`
	// MetricsToken, when set, requires a bearer token on /metrics.
	MetricsToken string `yaml:"metrics_token"`
}

// RateLimitConfig holds the API rate limiter configuration
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	Burst             int  `yaml:"burst"`
}

// DefaultsConfig overrides the seed values for new settings records
type DefaultsConfig struct {
	BrandName string `yaml:"brand_name"`
	Accent    string `yaml:"accent"`
}

// LoadConfig loads configuration from the specified YAML file and applies
// environment overrides. A missing file is not an error: the service runs
// on defaults alone.
func LoadConfig(filePath string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	applyEnvOverrides(&config)
	applyDefaults(&config)
	return &config, nil
}

func applyEnvOverrides(config *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			config.Server.Port = n
		}
	}
	if level := os.Getenv("ORDERLY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("ORDERLY_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if token := os.Getenv("ORDERLY_METRICS_TOKEN"); token != "" {
		config.Security.MetricsToken = token
	}
}

func applyDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = DefaultPort
	}
	if config.Defaults.BrandName == "" {
		config.Defaults.BrandName = DefaultBrandName
	}
	if config.Defaults.Accent == "" {
		config.Defaults.Accent = DefaultAccent
	}
	if config.RateLimit.Enabled {
		if config.RateLimit.RequestsPerMinute <= 0 {
			config.RateLimit.RequestsPerMinute = 120
		}
		if config.RateLimit.Burst <= 0 {
			config.RateLimit.Burst = config.RateLimit.RequestsPerMinute
		}
	}
}
