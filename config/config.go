package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	VTEX   VTEXConfig
	Cache  CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// VTEXConfig holds catalog feed configuration. InsecureSkipVerify exists for
// corporate networks that intercept HTTPS; it is passed explicitly into the
// feed client, never held as ambient global state.
type VTEXConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	Timeout            time.Duration `mapstructure:"timeout"`
	RequestsPerSecond  float64       `mapstructure:"requests_per_second"`
	Burst              int           `mapstructure:"burst"`
}

// CacheConfig holds feed-response cache configuration. TTL of zero disables
// caching entirely.
type CacheConfig struct {
	Type string        `mapstructure:"type"` // "memory" or "none"
	TTL  time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mdcatalog/")

	// Environment variable settings
	v.SetEnvPrefix("MDCATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// VTEX defaults
	v.SetDefault("vtex.base_url", "https://www.mariadolores.com.br/api/catalog_system/pub/products/search/")
	v.SetDefault("vtex.insecure_skip_verify", false)
	v.SetDefault("vtex.timeout", "20s")
	v.SetDefault("vtex.requests_per_second", 5.0)
	v.SetDefault("vtex.burst", 10)

	// Cache defaults: disabled until a TTL is configured
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "0s")
}

// validate validates the configuration
func validate(config *Config) error {
	u, err := url.Parse(config.VTEX.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("vtex.base_url must be an absolute http(s) URL, got: %s", config.VTEX.BaseURL)
	}
	if !strings.HasSuffix(config.VTEX.BaseURL, "/") {
		return fmt.Errorf("vtex.base_url must end with '/' so reference codes can be appended")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "none" {
		return fmt.Errorf("cache type must be 'memory' or 'none', got: %s", config.Cache.Type)
	}

	if config.VTEX.Timeout < 0 {
		return fmt.Errorf("vtex.timeout must not be negative")
	}

	return nil
}
