package provider

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cadencehq/cadence/sequence"
)

// mockWriter implements output.Writer for testing
type mockWriter struct {
	mu       sync.Mutex
	writes   [][]byte
	writeErr error
}

func newMockWriter() *mockWriter {
	return &mockWriter{
		writes: make([][]byte, 0),
	}
}

func (m *mockWriter) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}

	m.writes = append(m.writes, append([]byte(nil), data...))
	return nil
}

func (m *mockWriter) getWrites() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.writes...)
}

func TestNewCounter(t *testing.T) {
	logger := zaptest.NewLogger(t)

	p, err := NewCounter(logger, sequence.Config{IntervalMS: 100, MaxCount: 5})

	assert.NoError(t, err)
	assert.NotNil(t, p)
	assert.NotEmpty(t, p.instanceID)
	assert.NotNil(t, p.doneCh)
}

func TestNewCounter_NilLogger(t *testing.T) {
	p, err := NewCounter(nil, sequence.Config{})

	assert.Error(t, err)
	assert.Nil(t, p)
	assert.Contains(t, err.Error(), "logger cannot be nil")
}

func TestNewCounter_InvalidConfig(t *testing.T) {
	logger := zaptest.NewLogger(t)

	p, err := NewCounter(logger, sequence.Config{IntervalMS: -1})
	assert.Error(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, sequence.ErrInvalidConfig)

	p, err = NewCounter(logger, sequence.Config{MaxCount: -1})
	assert.Error(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, sequence.ErrInvalidConfig)
}

func TestCounterProvider_BoundedRun(t *testing.T) {
	logger := zaptest.NewLogger(t)
	writer := newMockWriter()
	p, err := NewCounter(logger, sequence.Config{IntervalMS: 0, MaxCount: 3})
	require.NoError(t, err)

	err = p.Start(writer)
	require.NoError(t, err)

	// A bounded run finishes on its own.
	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("bounded run did not complete")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Stop(ctx))

	writes := writer.getWrites()
	require.Len(t, writes, 3)

	for i, write := range writes {
		var env Envelope
		require.NoError(t, json.Unmarshal(write, &env), "envelope should be valid JSON")

		assert.Equal(t, int64(i+1), env.Payload.Value)
		assert.Equal(t, env.Payload.Value, env.Metadata.Seq)
		assert.Equal(t, 0, env.Metadata.IntervalMS)
		assert.Equal(t, sequence.DefaultProvider, env.Metadata.Provider)

		ts, err := ParseTimestamp(env.Payload.Timestamp)
		require.NoError(t, err, "timestamp should be ISO-8601")
		assert.False(t, ts.IsZero())
	}
}

func TestCounterProvider_EnvelopeShape(t *testing.T) {
	logger := zaptest.NewLogger(t)
	writer := newMockWriter()
	p, err := NewCounter(logger, sequence.Config{IntervalMS: 0, MaxCount: 1})
	require.NoError(t, err)

	require.NoError(t, p.Start(writer))
	<-p.Done()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Stop(ctx))

	writes := writer.getWrites()
	require.Len(t, writes, 1)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(writes[0], &raw))

	require.Contains(t, raw, "payload")
	require.Contains(t, raw, "metadata")
	assert.Contains(t, raw["payload"], "value")
	assert.Contains(t, raw["payload"], "timestamp")
	assert.Contains(t, raw["metadata"], "seq")
	assert.Contains(t, raw["metadata"], "interval_ms")
	assert.Contains(t, raw["metadata"], "provider")
}

func TestCounterProvider_StopDuringDelay(t *testing.T) {
	logger := zaptest.NewLogger(t)
	writer := newMockWriter()
	p, err := NewCounter(logger, sequence.Config{IntervalMS: 30_000})
	require.NoError(t, err)

	require.NoError(t, p.Start(writer))

	// Wait for the first envelope so the worker is parked in the delay.
	require.Eventually(t, func() bool {
		return len(writer.getWrites()) >= 1
	}, 5*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	err = p.Stop(ctx)
	duration := time.Since(start)

	assert.NoError(t, err)
	assert.Less(t, duration, 5*time.Second, "Stop must not wait out the full interval")

	select {
	case <-p.Done():
	default:
		t.Fatal("Done should be closed after Stop")
	}
}

func TestCounterProvider_UnboundedEmits(t *testing.T) {
	logger := zaptest.NewLogger(t)
	writer := newMockWriter()
	p, err := NewCounter(logger, sequence.Config{IntervalMS: 5})
	require.NoError(t, err)

	require.NoError(t, p.Start(writer))

	require.Eventually(t, func() bool {
		return len(writer.getWrites()) >= 5
	}, 5*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Stop(ctx))

	// Values are sequential with no gaps, in write order.
	writes := writer.getWrites()
	for i, write := range writes {
		var env Envelope
		require.NoError(t, json.Unmarshal(write, &env))
		assert.Equal(t, int64(i+1), env.Payload.Value)
		assert.Equal(t, 5, env.Metadata.IntervalMS)
	}
}

func TestParseTimestamp_RoundTrip(t *testing.T) {
	rec := sequence.Record{
		Value:     42,
		Timestamp: time.Date(2026, 3, 14, 9, 26, 53, 589_793_000, time.UTC),
	}

	env := newEnvelope(rec)
	assert.Equal(t, "2026-03-14T09:26:53.589793Z", env.Payload.Timestamp)

	ts, err := ParseTimestamp(env.Payload.Timestamp)
	require.NoError(t, err)
	assert.True(t, ts.Equal(rec.Timestamp.Truncate(time.Microsecond)))
}
