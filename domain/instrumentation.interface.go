package domain

import "time"

// Operation identifies which store entry point produced a latency sample.
type Operation string

const (
	Operation_ApplySnapshot Operation = "apply_snapshot"
	Operation_ApplyDelta    Operation = "apply_delta"
	Operation_QueryDepth    Operation = "query_depth"
)

// OpSample is one raw latency measurement: which operation ran, on which
// instrument, how long it took and whether it failed.
type OpSample struct {
	Op           Operation
	InstrumentID string
	Duration     time.Duration
	Failed       bool
}

// Usage is a point-in-time account of what the store is holding.
type Usage struct {
	Instruments  int
	Synchronized int
	BidLevels    int
	AskLevels    int
}

// Instrumentation receives raw samples from the store. The store calls it
// inline after every operation, so implementations must be safe for
// concurrent use and must return quickly. Aggregation (histograms,
// counters, export) is entirely the implementation's business; the store
// itself keeps no counters.
type Instrumentation interface {
	ObserveOp(sample OpSample)
	ObserveUsage(usage Usage)
}

// NopInstrumentation discards every sample. It is the default sink.
type NopInstrumentation struct{}

func (NopInstrumentation) ObserveOp(OpSample) {}
func (NopInstrumentation) ObserveUsage(Usage) {}
