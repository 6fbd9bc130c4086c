package sequence

import (
	"context"
	"errors"
	"runtime"
	"time"
)

// ErrExhausted is returned by Next once a bounded generator has emitted
// its final record. It marks normal completion, not a failure.
var ErrExhausted = errors.New("sequence exhausted")

// Option configures a Generator.
type Option func(*Generator)

// WithProvider overrides the provider identifier attached to record
// metadata.
func WithProvider(name string) Option {
	return func(g *Generator) {
		g.provider = name
	}
}

// WithObserver registers a function called with every record just after
// it is produced. Useful for instrumentation without coupling the
// generator to a logging or metrics backend.
func WithObserver(fn func(Record)) Option {
	return func(g *Generator) {
		g.observe = fn
	}
}

// Generator produces the counter sequence one record at a time. It is
// not safe for concurrent use and cannot be restarted once stopped;
// construct a new one to start over.
type Generator struct {
	cfg      Config
	provider string
	observe  func(Record)

	seq     int64
	started bool
	done    error
}

// New creates a Generator for the given config. Construction fails with
// ErrInvalidConfig before any record exists if the config is invalid.
func New(cfg Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:      cfg,
		provider: DefaultProvider,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Next returns the next record of the sequence. Between records it
// waits the configured interval; the wait ends early if ctx is
// cancelled. Next returns ErrExhausted once MaxCount records have been
// emitted and ctx.Err() if cancelled. Both outcomes are terminal: every
// later call returns the same error and no further records are
// produced.
func (g *Generator) Next(ctx context.Context) (Record, error) {
	if g.done != nil {
		return Record{}, g.done
	}

	// Cancellation has priority over the count limit.
	if err := ctx.Err(); err != nil {
		g.done = err
		return Record{}, err
	}

	// The bound is checked before the delay so a bounded run ends
	// without a trailing wait.
	if g.cfg.MaxCount > 0 && g.seq >= int64(g.cfg.MaxCount) {
		g.done = ErrExhausted
		return Record{}, ErrExhausted
	}

	if g.started {
		if err := g.wait(ctx); err != nil {
			g.done = err
			return Record{}, err
		}
	}
	g.started = true

	g.seq++
	rec := Record{
		Value:     g.seq,
		Timestamp: time.Now().UTC(),
		Metadata: Metadata{
			Seq:        g.seq,
			IntervalMS: g.cfg.IntervalMS,
			Provider:   g.provider,
		},
	}

	if g.observe != nil {
		g.observe(rec)
	}

	return rec, nil
}

// wait blocks for the configured interval or until ctx is cancelled.
// With a zero interval it yields the scheduler once so a tight consumer
// loop cannot starve the host.
func (g *Generator) wait(ctx context.Context) error {
	if g.cfg.IntervalMS == 0 {
		runtime.Gosched()
		return ctx.Err()
	}

	timer := time.NewTimer(g.cfg.Interval())
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
