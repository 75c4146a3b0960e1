// Package metrics records loader and aggregation telemetry.
package metrics

import (
	"time"
)

// Warning kinds reported through RecordSourceWarning.
const (
	KindMissingSource  = "missing_source"
	KindSchemaMismatch = "schema_mismatch"
)

// Recorder receives telemetry from the loader and the engine.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// RecordLoad is called once per completed (uncached) load.
	RecordLoad(duration time.Duration, sources, loaded, rows int)
	// RecordSourceWarning is called for every source skipped during a load.
	RecordSourceWarning(label, kind string)
	RecordCacheHit()
	RecordCacheMiss()
	// RecordAggregation is called for every Summarize/Rank call.
	RecordAggregation(op string, duration time.Duration)
}

// Noop discards everything.
type Noop struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() Recorder { return Noop{} }

func (Noop) RecordLoad(time.Duration, int, int, int) {}
func (Noop) RecordSourceWarning(string, string)      {}
func (Noop) RecordCacheHit()                         {}
func (Noop) RecordCacheMiss()                        {}
func (Noop) RecordAggregation(string, time.Duration) {}
