package config

import (
	"fmt"

	"github.com/cadencehq/cadence/sequence"
)

// ProviderType represents the type of provider
type ProviderType string

const (
	// ProviderTypeNop represents the NOP provider
	ProviderTypeNop ProviderType = "nop"
	// ProviderTypeCounter represents the counter provider
	ProviderTypeCounter ProviderType = "counter"
)

// DefaultCounterIntervalMS is the default delay between records in
// milliseconds, taken from the sequence package so the flag default and
// the generator agree.
const DefaultCounterIntervalMS = sequence.DefaultIntervalMS

// Provider contains configuration for input providers
type Provider struct {
	// Type specifies the provider type (counter)
	Type ProviderType `yaml:"type,omitempty" mapstructure:"type,omitempty"`
	// Counter contains counter provider configuration
	Counter CounterProviderConfig `yaml:"counter,omitempty" mapstructure:"counter,omitempty"`
}

// Validate validates the provider configuration
func (p *Provider) Validate() error {
	// Allow empty type - defaults will be applied by override system
	if p.Type == "" {
		return nil
	}

	switch p.Type {
	case ProviderTypeNop:
		// NOP provider requires no additional validation
	case ProviderTypeCounter:
		if err := p.Counter.Validate(); err != nil {
			return fmt.Errorf("counter provider validation failed: %w", err)
		}
	default:
		return fmt.Errorf("invalid provider type: %s, must be one of: nop, counter", p.Type)
	}

	return nil
}

// CounterProviderConfig contains configuration for the counter provider.
// Interval and MaxCount are validated up front; an invalid value means
// no record is ever produced.
type CounterProviderConfig struct {
	// Interval is the delay between records in milliseconds. Zero
	// means emit with no delay.
	Interval int `yaml:"interval,omitempty" mapstructure:"interval,omitempty"`
	// MaxCount is the number of records to emit before stopping.
	// Zero means unbounded.
	MaxCount int `yaml:"max_count,omitempty" mapstructure:"max_count,omitempty"`
}

// Validate validates the counter provider configuration
func (c *CounterProviderConfig) Validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("counter provider interval must be non-negative, got %d", c.Interval)
	}

	if c.MaxCount < 0 {
		return fmt.Errorf("counter provider max count must be non-negative, got %d", c.MaxCount)
	}

	return nil
}
