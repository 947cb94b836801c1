package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultBatchWorkers is the default parallelism for batch resolution.
const DefaultBatchWorkers = 8

// Config holds all configuration for ledgerlens.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// EngineConfig locates the resolution inputs and tunes the engine.
type EngineConfig struct {
	// DefinitionsPath is the entity definitions document.
	DefinitionsPath string `mapstructure:"definitions_path"`
	// RegistriesDir holds one registry document per entity type.
	RegistriesDir string `mapstructure:"registries_dir"`
	// BatchWorkers caps parallel record resolution in batch mode.
	BatchWorkers int `mapstructure:"batch_workers"`
	// WatchDefinitions enables fsnotify hot reload of the definitions
	// document in long-running commands.
	WatchDefinitions bool `mapstructure:"watch_definitions"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("engine.definitions_path", filepath.Join(homeDir(), ".ledgerlens", "definitions.yaml"))
	v.SetDefault("engine.registries_dir", filepath.Join(homeDir(), ".ledgerlens", "registries"))
	v.SetDefault("engine.batch_workers", DefaultBatchWorkers)
	v.SetDefault("engine.watch_definitions", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".ledgerlens"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("LEDGERLENS")
	v.AutomaticEnv()

	_ = v.BindEnv("engine.definitions_path", "LEDGERLENS_DEFINITIONS_PATH")
	_ = v.BindEnv("engine.registries_dir", "LEDGERLENS_REGISTRIES_DIR")
	_ = v.BindEnv("engine.batch_workers", "LEDGERLENS_BATCH_WORKERS")
	_ = v.BindEnv("logging.level", "LEDGERLENS_LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK — use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if c.Engine.DefinitionsPath == "" {
		return fmt.Errorf("engine.definitions_path must not be empty")
	}
	if c.Engine.RegistriesDir == "" {
		return fmt.Errorf("engine.registries_dir must not be empty")
	}
	if c.Engine.BatchWorkers <= 0 {
		return fmt.Errorf("engine.batch_workers must be greater than 0")
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
