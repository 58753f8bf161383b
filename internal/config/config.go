// Package config loads brokercsv settings from defaults, BROKERCSV_*
// environment variables and an optional YAML file, in that order.
// Command-line flags are applied on top by the cmd package.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of all environment variables.
const EnvPrefix = "BROKERCSV"

// Config represents the complete application configuration
type Config struct {
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Browser BrowserConfig `yaml:"browser" envconfig:"BROWSER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// OutputConfig controls export format and delivery.
type OutputConfig struct {
	Dir       string `yaml:"dir" envconfig:"DIR"`
	Format    string `yaml:"format" envconfig:"FORMAT" default:"csv" validate:"oneof=csv json markdown pdf xlsx"`
	BOM       bool   `yaml:"bom" envconfig:"BOM" default:"false"`
	GCSBucket string `yaml:"gcs_bucket" envconfig:"GCS_BUCKET"`
	GCSPrefix string `yaml:"gcs_prefix" envconfig:"GCS_PREFIX" validate:"excluded_without=GCSBucket"`
}

// BrowserConfig drives the live-page snapshot.
type BrowserConfig struct {
	Headless     bool          `yaml:"headless" envconfig:"HEADLESS" default:"false"`
	UserDataDir  string        `yaml:"user_data_dir" envconfig:"USER_DATA_DIR"`
	PollInterval time.Duration `yaml:"poll_interval" envconfig:"POLL_INTERVAL" default:"350ms" validate:"gt=0"`
	StablePolls  int           `yaml:"stable_polls" envconfig:"STABLE_POLLS" default:"3" validate:"min=1"`
	MaxRounds    int           `yaml:"max_rounds" envconfig:"MAX_ROUNDS" default:"50" validate:"min=1"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"2m" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"console" validate:"oneof=console json"`
}

// Load reads defaults and environment variables, then overlays the YAML
// file at path when path is not empty. Keys absent from the file keep
// their environment or default value.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile unmarshals the YAML file at path into cfg.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New()

// Validate checks field constraints. The cmd package calls it again after
// applying flags.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
