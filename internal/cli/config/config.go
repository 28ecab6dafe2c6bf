package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables overriding file settings.
const EnvPrefix = "ENTITY_MAPPER"

// Config represents the entity-mapper CLI configuration.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	NoColor  bool   `mapstructure:"no_color"`
	// Dir is the working directory packages are loaded from.
	Dir string `mapstructure:"dir"`
	// Packages are the default patterns for scan and check.
	Packages []string `mapstructure:"packages"`
	// Mapping is the default mapping file for check.
	Mapping string `mapstructure:"mapping"`
}

// New returns a viper instance reading entity-mapper.yaml from dir and
// ENTITY_MAPPER_* environment variables.
func New(dir string) *viper.Viper {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("no_color", false)
	v.SetDefault("dir", "")
	v.SetDefault("packages", []string{})
	v.SetDefault("mapping", "")

	v.SetConfigName("entity-mapper")
	v.SetConfigType("yaml")

	if dir == "" {
		dir = "."
	}

	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file, if any, and unmarshals the merged settings.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Level returns the parsed log level.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel
	}

	return lvl
}

func validateConfig(cfg *Config) error {
	if cfg.LogLevel == "" {
		return nil
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	return nil
}
