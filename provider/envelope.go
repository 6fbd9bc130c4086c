package provider

import (
	"time"

	"github.com/cadencehq/cadence/sequence"
)

// timestampLayout keeps sub-second precision even when the emission
// lands exactly on a second boundary.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Payload carries the sequence value and its emission timestamp.
type Payload struct {
	Value     int64  `json:"value"`
	Timestamp string `json:"timestamp"`
}

// Envelope is the wire shape handed to the output: one payload section
// and one metadata section per record.
type Envelope struct {
	Payload  Payload           `json:"payload"`
	Metadata sequence.Metadata `json:"metadata"`
}

// newEnvelope wraps a record for serialization. Timestamps are
// ISO-8601 in UTC.
func newEnvelope(rec sequence.Record) Envelope {
	return Envelope{
		Payload: Payload{
			Value:     rec.Value,
			Timestamp: rec.Timestamp.UTC().Format(timestampLayout),
		},
		Metadata: rec.Metadata,
	}
}

// ParseTimestamp parses an envelope timestamp back into a time.Time.
// Mostly useful for consumers and tests.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}
