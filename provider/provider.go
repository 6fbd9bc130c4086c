// Package provider contains the input providers that feed the pipeline
// host. A provider produces envelopes and hands them to an output
// writer until it completes or is stopped.
package provider

import (
	"context"

	"github.com/cadencehq/cadence/output"
)

// Provider is the interface for emitting envelopes.
type Provider interface {
	// Start starts the provider and writes envelopes using the
	// provided writer.
	Start(writer output.Writer) error

	// Stop stops the provider.
	Stop(ctx context.Context) error

	// Done is closed when the provider stops producing on its own,
	// such as a bounded sequence running to completion.
	Done() <-chan struct{}
}
