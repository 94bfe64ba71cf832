package profiler

import (
	"math"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeMemoryReporterUsage(t *testing.T) {
	r := NewRuntimeMemoryReporter()
	assert.Positive(t, r.Usage())
}

func TestRuntimeMemoryReporterCeilingPrefersMemoryLimit(t *testing.T) {
	prev := debug.SetMemoryLimit(512 << 20)
	t.Cleanup(func() { debug.SetMemoryLimit(prev) })

	r := NewRuntimeMemoryReporter()
	assert.Equal(t, uint64(512<<20), r.Ceiling())

	debug.SetMemoryLimit(math.MaxInt64)
	assert.Equal(t, systemMemory(), r.Ceiling())
}
