package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cadencehq/cadence/output"
)

// NopProvider is a no-operation provider that emits nothing.
type NopProvider struct {
	logger *zap.Logger
	doneCh chan struct{}
}

// NewNopProvider creates a new no-operation provider.
func NewNopProvider(logger *zap.Logger) (*NopProvider, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &NopProvider{
		logger: logger.Named("provider-nop"),
		doneCh: make(chan struct{}),
	}, nil
}

// Start starts the nop provider (performs no work).
func (p *NopProvider) Start(_ output.Writer) error {
	p.logger.Info("Starting NOP provider (no envelopes will be emitted)")
	return nil
}

// Stop stops the nop provider (performs no work).
func (p *NopProvider) Stop(_ context.Context) error {
	p.logger.Info("Stopping NOP provider")
	return nil
}

// Done never closes: a nop provider only stops when asked to.
func (p *NopProvider) Done() <-chan struct{} {
	return p.doneCh
}
