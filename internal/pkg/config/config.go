package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Places    PlacesConfig    `mapstructure:"places"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

// PlacesConfig configures the live POI provider client.
type PlacesConfig struct {
	Token          string `mapstructure:"token"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// PlannerConfig holds the stop-matching engine's tunables.
type PlannerConfig struct {
	DefaultBufferMiles   float64 `mapstructure:"default_buffer_miles"`
	MaxBufferMiles       float64 `mapstructure:"max_buffer_miles"`
	DefaultPOISamples    int     `mapstructure:"default_poi_samples"`
	MaxPOISamples        int     `mapstructure:"max_poi_samples"`
	AvgSpeedMPH          float64 `mapstructure:"avg_speed_mph"`
	SourceTimeoutSeconds int     `mapstructure:"source_timeout_seconds"`
	PlacesConcurrency    int     `mapstructure:"places_concurrency"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "waypost")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "waypost")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("places.token", "")
	v.SetDefault("places.base_url", "https://api.mapbox.com/geocoding/v5/mapbox.places")
	v.SetDefault("places.timeout_seconds", 8)
	v.SetDefault("planner.default_buffer_miles", 20.0)
	v.SetDefault("planner.max_buffer_miles", 50.0)
	v.SetDefault("planner.default_poi_samples", 10)
	v.SetDefault("planner.max_poi_samples", 25)
	v.SetDefault("planner.avg_speed_mph", 55.0)
	v.SetDefault("planner.source_timeout_seconds", 10)
	v.SetDefault("planner.places_concurrency", 4)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: WAYPOST_DATABASE_HOST → database.host
	v.SetEnvPrefix("WAYPOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Places.BaseURL == "" {
		errs = append(errs, "places.base_url is required")
	}
	if c.Planner.DefaultBufferMiles <= 0 {
		errs = append(errs, "planner.default_buffer_miles must be positive")
	}
	if c.Planner.MaxBufferMiles < c.Planner.DefaultBufferMiles {
		errs = append(errs, "planner.max_buffer_miles must be >= planner.default_buffer_miles")
	}
	if c.Planner.DefaultPOISamples < 2 {
		errs = append(errs, "planner.default_poi_samples must be at least 2")
	}
	if c.Planner.AvgSpeedMPH <= 0 {
		errs = append(errs, "planner.avg_speed_mph must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
