package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PHOTO_CATALOG_CATALOG_PATH
const EnvPrefix = "PHOTO_CATALOG"

// Config represents the entire application configuration
type Config struct {
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Export      ExportConfig      `mapstructure:"export"`
	Console     ConsoleConfig     `mapstructure:"console"`
}

// CatalogConfig contains catalog storage settings
type CatalogConfig struct {
	Path                 string `mapstructure:"path"`
	RollbackFailedDelete bool   `mapstructure:"rollback_failed_delete"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MaintenanceConfig contains temp file cleanup settings
type MaintenanceConfig struct {
	CleanupInterval string `mapstructure:"cleanup_interval"`
	TempFileMaxAge  string `mapstructure:"temp_file_max_age"`
}

// ExportConfig contains SQLite export settings
type ExportConfig struct {
	SQLitePath string `mapstructure:"sqlite_path"`
}

// ConsoleConfig contains interactive menu settings
type ConsoleConfig struct {
	DateLayout string `mapstructure:"date_layout"`
}

// New returns a viper instance with defaults and environment bindings applied
func New() *viper.Viper {
	v := viper.New()

	// Set defaults
	v.SetDefault("catalog.path", "photos.yaml")
	v.SetDefault("catalog.rollback_failed_delete", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("maintenance.cleanup_interval", "10m")
	v.SetDefault("maintenance.temp_file_max_age", "1h")
	v.SetDefault("export.sqlite_path", "photos.db")
	v.SetDefault("console.date_layout", "2006-01-02 15:04")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load loads configuration from the specified file path.
// An empty path uses defaults and environment variables only.
func Load(configPath string) (*Config, error) {
	return LoadWith(New(), configPath)
}

// LoadWith loads configuration into an existing viper instance, so callers
// can bind command line flags before reading
func LoadWith(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		// Read config file
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return errors.New("catalog.path is required")
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	if _, err := time.ParseDuration(c.Maintenance.CleanupInterval); err != nil {
		return fmt.Errorf("invalid maintenance.cleanup_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Maintenance.TempFileMaxAge); err != nil {
		return fmt.Errorf("invalid maintenance.temp_file_max_age: %w", err)
	}

	if c.Console.DateLayout == "" {
		return errors.New("console.date_layout is required")
	}

	return nil
}

// GetCleanupInterval returns the cleanup interval as time.Duration
func (c *MaintenanceConfig) GetCleanupInterval() time.Duration {
	d, _ := time.ParseDuration(c.CleanupInterval)
	if d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// GetTempFileMaxAge returns the temp file max age as time.Duration
func (c *MaintenanceConfig) GetTempFileMaxAge() time.Duration {
	d, _ := time.ParseDuration(c.TempFileMaxAge)
	if d <= 0 {
		return time.Hour
	}
	return d
}
