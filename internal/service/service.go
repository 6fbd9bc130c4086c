// Package service ties a provider to an output and manages their
// combined lifecycle.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cadencehq/cadence/output"
	"github.com/cadencehq/cadence/provider"
)

// Service runs one provider against one output.
type Service struct {
	Logger   *zap.Logger
	Provider provider.Provider
	Output   output.Output
}

// New creates a new service.
func New(logger *zap.Logger, prov provider.Provider, out output.Output) (*Service, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if prov == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}
	if out == nil {
		return nil, fmt.Errorf("output cannot be nil")
	}

	return &Service{
		Logger:   logger,
		Provider: prov,
		Output:   out,
	}, nil
}

// Start starts the service.
func (s *Service) Start() error {
	return s.Provider.Start(s.Output)
}

// Done is closed when the provider finishes on its own, such as a
// bounded sequence running to completion.
func (s *Service) Done() <-chan struct{} {
	return s.Provider.Done()
}

// Stop stops the service. Stop will block for up to 30 seconds.
// The provider stops first so the output can drain everything the
// provider managed to write. If either does not stop within the
// timeout, an error will be returned and the program can exit.
func (s *Service) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Provider.Stop(ctx); err != nil {
		return fmt.Errorf("stop provider: %w", err)
	}

	if err := s.Output.Stop(ctx); err != nil {
		return fmt.Errorf("stop output: %w", err)
	}

	return nil
}
