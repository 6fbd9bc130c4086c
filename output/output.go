// Package output contains the destinations envelopes are written to.
package output

import (
	"context"
)

// Writer can consume serialized envelopes.
type Writer interface {
	// Write writes one serialized envelope to the output.
	Write(ctx context.Context, data []byte) error
}

// Output is the interface for outputting data.
type Output interface {
	Writer

	// Stop stops the output.
	Stop(ctx context.Context) error
}
