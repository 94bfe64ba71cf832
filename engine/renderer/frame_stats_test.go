package renderer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameStatsPublishOnEnd(t *testing.T) {
	f := newFrameStats()
	start := time.Unix(0, 0)

	f.begin(start)
	f.recordDraw("scene", 36)
	f.recordDraw("scene", 36)
	f.recordDraw("overlay", 6*258)
	f.recordDraw("scene", 36)

	// nothing is visible until the frame completes
	assert.Zero(t, f.DrawCalls())

	f.end()
	assert.Equal(t, 4, f.DrawCalls())
	assert.Equal(t, 3, f.PassCalls())
	assert.Equal(t, 36*3+6*258, f.Vertices())

	// the next frame starts from zero but the completed counts stay readable
	f.begin(start.Add(16 * time.Millisecond))
	f.recordDraw("overlay", 6)
	assert.Equal(t, 4, f.DrawCalls())
	f.end()
	assert.Equal(t, 1, f.DrawCalls())
	assert.Equal(t, 1, f.PassCalls())
	assert.Equal(t, 6, f.Vertices())
}

func TestFrameTimingsNewestFirst(t *testing.T) {
	f := newFrameStats()
	now := time.Unix(0, 0)

	cpu := make([]float32, 4)
	gpu := []float32{9, 9, 9, 9}
	assert.Zero(t, f.FrameTimings(cpu, gpu))

	for _, ms := range []int{10, 20, 40} {
		f.begin(now)
		now = now.Add(time.Duration(ms) * time.Millisecond)
	}
	f.begin(now)

	n := f.FrameTimings(cpu, gpu)
	require.Equal(t, 3, n)
	assert.InDelta(t, 0.040, cpu[0], 1e-6)
	assert.InDelta(t, 0.020, cpu[1], 1e-6)
	assert.InDelta(t, 0.010, cpu[2], 1e-6)
	assert.Equal(t, []float32{0, 0, 0, 9}, gpu)
}

func TestFrameTimingsRingWraps(t *testing.T) {
	f := newFrameStats()
	now := time.Unix(0, 0)
	for i := range frameTimingCapacity + 10 {
		f.begin(now)
		now = now.Add(time.Duration(i+1) * time.Millisecond)
	}
	f.begin(now)

	cpu := make([]float32, frameTimingCapacity*2)
	gpu := make([]float32, frameTimingCapacity*2)
	n := f.FrameTimings(cpu, gpu)
	require.Equal(t, frameTimingCapacity, n)

	// newest interval was (capacity+10) ms, the oldest kept one is 11 ms
	assert.InDelta(t, float32(frameTimingCapacity+10)/1000, cpu[0], 1e-6)
	assert.InDelta(t, 0.011, cpu[n-1], 1e-6)
}
