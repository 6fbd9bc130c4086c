package config

import (
	"fmt"
)

// OutputType represents the type of output
type OutputType string

const (
	// OutputTypeNop represents NOP output
	OutputTypeNop OutputType = "nop"
	// OutputTypeStdout represents stdout output
	OutputTypeStdout OutputType = "stdout"
)

// Output contains configuration for output destinations
type Output struct {
	// Type specifies the output type (stdout or nop)
	Type OutputType `yaml:"type,omitempty" mapstructure:"type,omitempty"`
}

// Validate validates the output configuration
func (o *Output) Validate() error {
	// Allow empty type - defaults will be applied by override system
	if o.Type == "" {
		return nil
	}

	switch o.Type {
	case OutputTypeNop:
		// NOP output requires no additional validation
	case OutputTypeStdout:
		// stdout output requires no additional validation
	default:
		return fmt.Errorf("invalid output type: %s, must be one of: nop, stdout", o.Type)
	}

	return nil
}
