package config

// Telemetry contains configuration for process telemetry.
type Telemetry struct {
	// Metrics contains metrics exporter configuration
	Metrics Metrics `yaml:"metrics,omitempty" mapstructure:"metrics,omitempty"`
}

// Metrics contains configuration for the Prometheus metrics exporter.
type Metrics struct {
	// Enabled turns the Prometheus exporter on
	Enabled bool `yaml:"enabled,omitempty" mapstructure:"enabled,omitempty"`
}

// Validate validates the telemetry configuration
func (t *Telemetry) Validate() error {
	return nil
}
