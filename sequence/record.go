package sequence

import "time"

// DefaultProvider is the provider identifier attached to record metadata
// when none is configured.
const DefaultProvider = "cadence"

// Metadata describes a record. Seq always equals the record's Value and
// IntervalMS echoes the configured interval verbatim.
type Metadata struct {
	Seq        int64  `json:"seq"`
	IntervalMS int    `json:"interval_ms"`
	Provider   string `json:"provider"`
}

// Record is a single emission of the sequence. Value is 1-based and
// strictly increases by one per record with no gaps. Timestamp is
// captured in UTC at the moment of emission.
type Record struct {
	Value     int64
	Timestamp time.Time
	Metadata  Metadata
}
