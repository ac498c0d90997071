package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Data     DataConfig     `mapstructure:"data"`
	Database DatabaseConfig `mapstructure:"database"`
	Services ServicesConfig `mapstructure:"services"`
	Render   RenderConfig   `mapstructure:"render"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DataConfig selects and locates the tabular dataset source.
type DataConfig struct {
	Source string `mapstructure:"source"` // "csv" or "postgres"
	Path   string `mapstructure:"path"`   // csv: fixed local path
	Table  string `mapstructure:"table"`  // postgres: table to read
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

// ServicesConfig locates the external geospatial services.
type ServicesConfig struct {
	OverpassURL    string `mapstructure:"overpass_url"`
	NominatimURL   string `mapstructure:"nominatim_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

type RenderConfig struct {
	Width     int     `mapstructure:"width"`
	Height    int     `mapstructure:"height"`
	OutPath   string  `mapstructure:"out_path"`
	BoxSizeKm float64 `mapstructure:"box_size_km"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("data.source", "csv")
	v.SetDefault("data.path", "data.csv")
	v.SetDefault("data.table", "cameras")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "citysketch")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "citysketch")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("services.overpass_url", "https://overpass-api.de")
	v.SetDefault("services.nominatim_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("services.timeout_seconds", 90)
	v.SetDefault("services.user_agent", "citysketch/0.1 (+https://github.com/samirrijal/citysketch)")
	v.SetDefault("render.width", 900)
	v.SetDefault("render.height", 900)
	v.SetDefault("render.out_path", "map.png")
	v.SetDefault("render.box_size_km", 2)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: CITYSKETCH_SERVICES_OVERPASS_URL → services.overpass_url
	v.SetEnvPrefix("CITYSKETCH")
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

	switch c.Data.Source {
	case "csv":
		if c.Data.Path == "" {
			errs = append(errs, "data.path is required for the csv source")
		}
	case "postgres":
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required for the postgres source")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required for the postgres source")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required for the postgres source")
		}
		if c.Data.Table == "" {
			errs = append(errs, "data.table is required for the postgres source")
		}
	default:
		errs = append(errs, fmt.Sprintf("data.source must be csv or postgres, got %q", c.Data.Source))
	}

	if c.Services.OverpassURL == "" {
		errs = append(errs, "services.overpass_url is required")
	}
	if c.Services.NominatimURL == "" {
		errs = append(errs, "services.nominatim_url is required")
	}
	if c.Services.TimeoutSeconds <= 0 {
		errs = append(errs, "services.timeout_seconds must be positive")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, "render.width and render.height must be positive")
	}
	if c.Render.BoxSizeKm <= 0 {
		errs = append(errs, "render.box_size_km must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
