package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/cadencehq/cadence/output"
	"github.com/cadencehq/cadence/sequence"
)

// writeTimeout bounds a single envelope write.
const writeTimeout = 5 * time.Second

// CounterProvider emits the counter sequence as JSON envelopes. It runs
// a single worker goroutine: records are pulled one at a time from the
// sequence generator and written before the next one is produced.
type CounterProvider struct {
	logger     *zap.Logger
	cfg        sequence.Config
	instanceID string
	gen        *sequence.Generator

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	doneCh chan struct{}
	meter  metric.Meter

	// Metrics
	recordsEmitted metric.Int64Counter
	writeErrors    metric.Int64Counter
}

// NewCounter creates a new counter provider. Construction fails if the
// sequence config is invalid; no envelope is ever written in that case.
func NewCounter(logger *zap.Logger, cfg sequence.Config, opts ...sequence.Option) (*CounterProvider, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	gen, err := sequence.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sequence generator: %w", err)
	}

	meter := otel.Meter("cadence-provider")

	recordsEmitted, err := meter.Int64Counter(
		"cadence.provider.records.emitted",
		metric.WithDescription("Total number of records emitted"),
	)
	if err != nil {
		return nil, fmt.Errorf("create records emitted counter: %w", err)
	}

	writeErrors, err := meter.Int64Counter(
		"cadence.provider.write.errors",
		metric.WithDescription("Total number of envelope write errors"),
	)
	if err != nil {
		return nil, fmt.Errorf("create write errors counter: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &CounterProvider{
		logger:         logger.Named("provider-counter"),
		cfg:            cfg,
		instanceID:     uuid.NewString(),
		gen:            gen,
		ctx:            ctx,
		cancel:         cancel,
		doneCh:         make(chan struct{}),
		meter:          meter,
		recordsEmitted: recordsEmitted,
		writeErrors:    writeErrors,
	}, nil
}

// Start starts the counter provider and writes envelopes using the
// provided writer.
func (p *CounterProvider) Start(writer output.Writer) error {
	p.logger.Info("Starting counter provider",
		zap.String("instance_id", p.instanceID),
		zap.Int("interval_ms", p.cfg.IntervalMS),
		zap.Int("max_count", p.cfg.MaxCount))

	p.wg.Add(1)
	go p.run(writer)

	return nil
}

// Stop stops the counter provider. This function expects to be called
// exactly once.
func (p *CounterProvider) Stop(ctx context.Context) error {
	p.logger.Info("Stopping counter provider")
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Counter provider stopped gracefully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop cancelled due to context cancellation: %w", ctx.Err())
	}
}

// Done is closed once the provider has stopped producing, whether the
// sequence ran to completion or was cancelled.
func (p *CounterProvider) Done() <-chan struct{} {
	return p.doneCh
}

// run is the single worker loop.
func (p *CounterProvider) run(writer output.Writer) {
	defer p.wg.Done()
	defer close(p.doneCh)

	for {
		rec, err := p.gen.Next(p.ctx)
		if err != nil {
			if errors.Is(err, sequence.ErrExhausted) {
				p.logger.Info("Sequence complete",
					zap.Int("max_count", p.cfg.MaxCount))
			} else {
				p.logger.Debug("Counter provider cancelled")
			}
			return
		}

		if err := p.writeEnvelope(writer, rec); err != nil {
			p.logger.Error("Failed to write envelope",
				zap.Int64("seq", rec.Value),
				zap.Error(err))
			continue
		}

		p.recordsEmitted.Add(context.Background(), 1,
			metric.WithAttributeSet(
				attribute.NewSet(
					attribute.String("component", "provider_counter"),
					attribute.String("instance_id", p.instanceID),
				),
			),
		)
	}
}

// writeEnvelope serializes a record and writes it with a timeout.
func (p *CounterProvider) writeEnvelope(writer output.Writer, rec sequence.Record) error {
	data, err := json.Marshal(newEnvelope(rec))
	if err != nil {
		p.recordWriteError("marshal")
		return fmt.Errorf("marshal envelope: %w", err)
	}

	ctx, cancel := context.WithTimeout(p.ctx, writeTimeout)
	defer cancel()

	if err := writer.Write(ctx, data); err != nil {
		errorType := "unknown"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			errorType = "timeout"
		}
		p.recordWriteError(errorType)
		return err
	}

	return nil
}

// recordWriteError records metrics for write errors.
func (p *CounterProvider) recordWriteError(errorType string) {
	p.writeErrors.Add(context.Background(), 1,
		metric.WithAttributeSet(
			attribute.NewSet(
				attribute.String("component", "provider_counter"),
				attribute.String("error_type", errorType),
			),
		),
	)
}
