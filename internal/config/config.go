package config

import (
	"fmt"
	"strings"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
)

// Config holds all configuration for the storefront server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout int `env:"SHUTDOWN_TIMEOUT_SECONDS" envDefault:"10"`

	// Remote commerce platform. Both values are required; the server cannot
	// do anything meaningful without them.
	ShopifyStoreDomain string `env:"SHOPIFY_STORE_DOMAIN,required"`
	ShopifyToken       string `env:"SHOPIFY_STOREFRONT_TOKEN,required"`
	ShopifyAPIVersion  string `env:"SHOPIFY_API_VERSION" envDefault:"2024-10"`
	ShopifyMaxRetries  int    `env:"SHOPIFY_MAX_RETRIES" envDefault:"3"`

	// Redis (catalog cache)
	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass    string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB      int    `env:"REDIS_DB" envDefault:"0"`
	CacheEnabled bool   `env:"CACHE_ENABLED" envDefault:"true"`

	// Rate limiting on the internal surface
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// CORS
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// pprof access
	PprofCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32" envSeparator:","`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the server runs with production hardening
// (secure cookies, strict CORS).
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment reports whether developer conveniences are enabled.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if strings.Contains(c.ShopifyStoreDomain, "://") {
		return fmt.Errorf("store domain must be a bare host, got %q", c.ShopifyStoreDomain)
	}
	if c.ShopifyMaxRetries < 1 {
		return fmt.Errorf("shopify max retries must be at least 1, got %d", c.ShopifyMaxRetries)
	}
	return nil
}
