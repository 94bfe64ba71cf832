package profiler

import (
	"math"
	"runtime/debug"
	"runtime/metrics"
)

const heapObjectsMetric = "/memory/classes/heap/objects:bytes"

// runtimeMemoryReporter reads live heap bytes from runtime/metrics.
// The ceiling is GOMEMLIMIT when one is set, otherwise the platform's physical memory.
type runtimeMemoryReporter struct {
	samples []metrics.Sample
}

var _ MemoryReporter = &runtimeMemoryReporter{}

// NewRuntimeMemoryReporter creates a MemoryReporter backed by the Go runtime.
//
// Returns:
//   - MemoryReporter: the reporter
func NewRuntimeMemoryReporter() MemoryReporter {
	return &runtimeMemoryReporter{
		samples: []metrics.Sample{{Name: heapObjectsMetric}},
	}
}

func (r *runtimeMemoryReporter) Usage() uint64 {
	metrics.Read(r.samples)
	if r.samples[0].Value.Kind() != metrics.KindUint64 {
		return 0
	}
	return r.samples[0].Value.Uint64()
}

func (r *runtimeMemoryReporter) Ceiling() uint64 {
	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit != math.MaxInt64 {
		return uint64(limit)
	}
	return systemMemory()
}
