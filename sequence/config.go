// Package sequence implements the counter sequence at the core of cadence:
// a pull-based, cancellable stream of monotonically increasing records
// emitted at a fixed interval.
package sequence

import (
	"errors"
	"fmt"
	"time"
)

// DefaultIntervalMS is the default delay between records in milliseconds.
const DefaultIntervalMS = 1000

// ErrInvalidConfig is returned when a generator is constructed with an
// invalid configuration. No records are ever produced in that case.
var ErrInvalidConfig = errors.New("invalid sequence config")

// Config configures a Generator. It is read once at construction and
// never mutated afterwards.
type Config struct {
	// IntervalMS is the delay between records in milliseconds. Zero
	// means emit with no delay.
	IntervalMS int

	// MaxCount is the number of records to emit before stopping.
	// Zero means unbounded.
	MaxCount int
}

// Validate validates the config.
func (c Config) Validate() error {
	if c.IntervalMS < 0 {
		return fmt.Errorf("%w: interval must be non-negative, got %d", ErrInvalidConfig, c.IntervalMS)
	}
	if c.MaxCount < 0 {
		return fmt.Errorf("%w: max count must be non-negative, got %d", ErrInvalidConfig, c.MaxCount)
	}
	return nil
}

// Interval returns the configured inter-record delay as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}
