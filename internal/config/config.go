// Package config contains the top level configuration structures and logic
package config

import "github.com/spf13/viper"

// Config is the configuration for cadence.
type Config struct {
	// Logging configuration for the logger
	Logging Logging `yaml:"logging,omitempty" mapstructure:"logging,omitempty"`
	// Provider configuration
	Provider Provider `yaml:"provider,omitempty" mapstructure:"provider,omitempty"`
	// Output configuration
	Output Output `yaml:"output,omitempty" mapstructure:"output,omitempty"`
	// Telemetry configuration
	Telemetry Telemetry `yaml:"telemetry,omitempty" mapstructure:"telemetry,omitempty"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Provider.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return nil
}

// NewConfig returns a new config
func NewConfig() *Config {
	return &Config{}
}

// ApplyDefaults applies default values to the configuration
func (c *Config) ApplyDefaults() {
	// Apply provider defaults
	if c.Provider.Type == "" {
		c.Provider.Type = ProviderTypeCounter
	}

	// Apply output defaults
	if c.Output.Type == "" {
		c.Output.Type = OutputTypeStdout
	}

	// Apply logging defaults
	if c.Logging.Type == "" {
		c.Logging.Type = LoggingTypeStderr
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
}

// ApplyHostMapping copies the bare keys of the pipeline host's
// configuration mapping onto their config fields. The host hands the
// provider a mapping with optional keys "interval" and "max_count"
// before the first record is requested; unknown keys are ignored and
// missing keys keep their defaults.
func ApplyHostMapping() {
	if viper.IsSet("interval") {
		viper.Set("provider.counter.interval", viper.GetInt("interval"))
	}
	if viper.IsSet("max_count") {
		viper.Set("provider.counter.max_count", viper.GetInt("max_count"))
	}
}
