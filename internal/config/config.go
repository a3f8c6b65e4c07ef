package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the trip service.
// Environment variables are parsed from the TRIP_BACKEND_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Itinerary store (Postgres)
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// POI catalog (MongoDB) and optional Redis read-through cache
	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"travel"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:""`
	POICacheTTL   int    `envconfig:"POI_CACHE_TTL_SECONDS" default:"300"`

	// External collaborators
	OptimizerURL             string `envconfig:"OPTIMIZER_URL" default:"http://localhost:9100"`
	OptimizerTimeoutSeconds  int    `envconfig:"OPTIMIZER_TIMEOUT_SECONDS" default:"30"`
	DirectionsURL            string `envconfig:"DIRECTIONS_URL" default:"http://localhost:9200"`
	DirectionsTimeoutSeconds int    `envconfig:"DIRECTIONS_TIMEOUT_SECONDS" default:"10"`

	// Generation defaults
	DefaultPOIPerDay  int    `envconfig:"DEFAULT_POI_PER_DAY" default:"3"`
	DefaultTravelMode string `envconfig:"DEFAULT_TRAVEL_MODE" default:"driving"`

	// Health checking
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.PostgresDSN == "" {
		return fmt.Errorf("TRIP_BACKEND_POSTGRES_DSN is required")
	}
	if c.OptimizerURL == "" {
		return fmt.Errorf("TRIP_BACKEND_OPTIMIZER_URL is required")
	}
	if c.DirectionsURL == "" {
		return fmt.Errorf("TRIP_BACKEND_DIRECTIONS_URL is required")
	}
	if c.DefaultPOIPerDay < 1 {
		return fmt.Errorf("TRIP_BACKEND_DEFAULT_POI_PER_DAY must be >= 1")
	}
	return nil
}

// New creates a Config by parsing environment variables.
// Example: TRIP_BACKEND_HTTP_PORT, TRIP_BACKEND_POSTGRES_DSN.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("TRIP_BACKEND", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("optimizer_url", cfg.OptimizerURL).
		Str("directions_url", cfg.DirectionsURL).
		Str("mongo_database", cfg.MongoDatabase).
		Bool("redis_cache", cfg.RedisAddr != "").
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config for tests; no env parsing, no validation.
func NewForTesting() *Config {
	return &Config{
		Environment:               EnvTesting,
		HTTPPort:                  8080,
		PostgresDSN:               "postgres://localhost/test",
		MongoURI:                  "mongodb://localhost:27017",
		MongoDatabase:             "travel_test",
		OptimizerURL:              "http://localhost:9100",
		OptimizerTimeoutSeconds:   5,
		DirectionsURL:             "http://localhost:9200",
		DirectionsTimeoutSeconds:  2,
		DefaultPOIPerDay:          3,
		DefaultTravelMode:         "driving",
		POICacheTTL:               60,
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool { return c.Environment == EnvTesting }

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }
