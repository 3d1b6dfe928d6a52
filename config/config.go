// Package config holds the settings of the boxtree command,
// loaded by viper from flags, BOXTREE_* environment variables
// and an optional configuration file.
package config

import (
	"fmt"

	"github.com/benoitkugler/boxtree/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Output formats of the box tree.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type OutputConfig struct {
	Format string `mapstructure:"format"` // text, json or yaml
}

// Config is the complete configuration of the command.
type Config struct {
	Log    logger.Config `mapstructure:"log"`
	Output OutputConfig  `mapstructure:"output"`
	// Stylesheets are paths to user stylesheets, applied
	// after the user agent one and before the author ones.
	Stylesheets []string `mapstructure:"stylesheets"`
	// BaseURL overrides the base used to resolve relative URLs,
	// which defaults to the location of the input file.
	BaseURL string `mapstructure:"base_url"`
}

// SetDefaults registers the default value of every key, so that
// environment variables are taken into account when unmarshalling.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)

	v.SetDefault("output.format", FormatText)

	v.SetDefault("stylesheets", []string{})
	v.SetDefault("base_url", "")
}

// Load unmarshals and validates the configuration stored in `v`.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("invalid output format %q (expected text, json or yaml)", c.Output.Format)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q (expected console or json)", c.Log.Format)
	}
	if c.Log.MaxSize < 0 || c.Log.MaxBackups < 0 {
		return fmt.Errorf("invalid log rotation settings (%d MB, %d backups)", c.Log.MaxSize, c.Log.MaxBackups)
	}
	return nil
}
