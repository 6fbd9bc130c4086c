package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/cadencehq/cadence/internal/workermanager"
)

// flushInterval bounds how long a buffered envelope can sit unflushed.
const flushInterval = 100 * time.Millisecond

// StdoutOutput writes envelopes to stdout as newline-delimited JSON.
// Stdout is the data channel of a provider process: the pipeline host
// pipes it into the next process, so nothing else may write to it.
type StdoutOutput struct {
	logger        *zap.Logger
	dataChan      chan []byte
	workerManager *workermanager.WorkerManager
	drained       chan struct{}
	drainOnce     sync.Once

	mu  sync.Mutex
	buf *bufio.Writer

	// Metrics
	envelopesWritten metric.Int64Counter
}

// NewStdout creates a stdout output.
func NewStdout(logger *zap.Logger) (*StdoutOutput, error) {
	return newStdout(logger, os.Stdout)
}

// newStdout creates a stdout output writing to w. Split out so tests
// can capture the stream.
func newStdout(logger *zap.Logger, w io.Writer) (*StdoutOutput, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if w == nil {
		return nil, fmt.Errorf("writer cannot be nil")
	}

	meter := otel.Meter("cadence-output")

	envelopesWritten, err := meter.Int64Counter(
		"cadence.output.envelopes.written",
		metric.WithDescription("Total number of envelopes written to stdout"),
	)
	if err != nil {
		return nil, fmt.Errorf("create envelopes written counter: %w", err)
	}

	o := &StdoutOutput{
		logger:           logger.Named("stdout-output"),
		dataChan:         make(chan []byte, 100),
		drained:          make(chan struct{}),
		buf:              bufio.NewWriter(w),
		envelopesWritten: envelopesWritten,
	}

	o.workerManager = workermanager.NewWorkerManager(o.logger, 1, o.worker)
	o.workerManager.Start()

	return o, nil
}

// Write queues one serialized envelope for the writer worker.
func (o *StdoutOutput) Write(ctx context.Context, data []byte) error {
	select {
	case o.dataChan <- data:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("write cancelled: %w", ctx.Err())
	}
}

// Stop drains and flushes the output. This function expects to be
// called exactly once, after the provider has stopped writing.
// Queued envelopes are drained before the worker manager is stopped,
// so stopping never loses records already accepted by Write.
func (o *StdoutOutput) Stop(ctx context.Context) error {
	o.logger.Info("Stopping stdout output")

	close(o.dataChan)

	// Wait for the worker to drain the channel before cancelling the
	// manager, otherwise the supervision loop can exit first and strand
	// buffered envelopes.
	select {
	case <-o.drained:
	case <-ctx.Done():
		return fmt.Errorf("stop cancelled due to context cancellation: %w", ctx.Err())
	}

	done := make(chan struct{})
	go func() {
		o.workerManager.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("stop cancelled due to context cancellation: %w", ctx.Err())
	}

	return o.flush()
}

// worker drains the data channel onto the buffered writer. Returning on
// a write error lets the worker manager restart it with backoff, which
// matters when the downstream end of the pipe comes and goes.
func (o *StdoutOutput) worker(_ int) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-o.dataChan:
			if !ok {
				if err := o.flush(); err != nil {
					o.logger.Error("Failed to flush on drain", zap.Error(err))
				}
				o.drainOnce.Do(func() { close(o.drained) })
				return
			}
			if err := o.writeLine(data); err != nil {
				o.logger.Error("Failed to write envelope", zap.Error(err))
				return
			}
			o.envelopesWritten.Add(context.Background(), 1,
				metric.WithAttributeSet(
					attribute.NewSet(
						attribute.String("component", "output_stdout"),
					),
				),
			)
		case <-ticker.C:
			if err := o.flush(); err != nil {
				o.logger.Error("Failed to flush", zap.Error(err))
				return
			}
		}
	}
}

// writeLine writes one envelope followed by a newline.
func (o *StdoutOutput) writeLine(data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, err := o.buf.Write(data); err != nil {
		return fmt.Errorf("write envelope: %w", err)
	}
	if err := o.buf.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

// flush flushes the buffered writer.
func (o *StdoutOutput) flush() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.buf.Flush(); err != nil {
		return fmt.Errorf("flush stdout: %w", err)
	}
	return nil
}
