package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayedValueDiffersIsReflexive(t *testing.T) {
	for _, x := range []float32{0, 0.05, 1, 99.95, 1234.5678} {
		for decimals := 0; decimals <= maxDecimals; decimals++ {
			assert.False(t, displayedValueDiffers(x, x, decimals))
		}
	}
}

func TestMemoryUsageDiffers(t *testing.T) {
	tests := []struct {
		name      string
		prev      uint64
		next      uint64
		decimals  int
		different bool
	}{
		{name: "same tenth", prev: 1_050_000, next: 1_060_000, decimals: 1},
		{name: "crosses 1.0MB", prev: 1_048_000, next: 1_100_000, decimals: 1, different: true},
		{name: "crosses a truncated digit", prev: 1_048_000, next: 1_049_000, decimals: 1, different: true},
		{name: "visible at three decimals", prev: 1_050_000, next: 1_060_000, decimals: 3, different: true},
		{name: "below a tenth", prev: 0, next: 1024, decimals: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.different, memoryUsageDiffers(tt.prev, tt.next, tt.decimals))
		})
	}
}

func TestDisplayedValueDiffersMatchesFormatting(t *testing.T) {
	values := []float32{0, 0.04, 0.05, 0.95, 0.999, 1, 12.08, 12.12, 12.15, 99.99, 100}
	for decimals := 0; decimals <= maxDecimals; decimals++ {
		for _, a := range values {
			for _, b := range values {
				var ta, tb textBuffer
				ta.appendFixed(a, decimals)
				tb.appendFixed(b, decimals)
				assert.Equal(t, ta.String() != tb.String(), displayedValueDiffers(a, b, decimals),
					"%v vs %v at %d decimals", a, b, decimals)
			}
		}
	}
}

func TestSampleFrameRateFromWindow(t *testing.T) {
	var s statisticsSampler

	for range 3 {
		_, _, ok := s.sampleFrameRate(0.03125, 0.125, nil)
		assert.False(t, ok)
	}
	cpu, gpu, ok := s.sampleFrameRate(0.03125, 0.125, nil)
	assert.True(t, ok)
	assert.Equal(t, 32, cpu)
	assert.Zero(t, gpu)
	assert.Zero(t, s.frameCount)
	assert.Zero(t, s.elapsed)
}

func TestSampleFrameRatePrefersTimings(t *testing.T) {
	var s statisticsSampler
	src := &fakeStats{cpuFrame: 1.0 / 64, gpuFrame: 1.0 / 32, timings: true}

	var cpu, gpu int
	var ok bool
	for !ok {
		cpu, gpu, ok = s.sampleFrameRate(0.03125, 0.125, src)
	}
	assert.Equal(t, 64, cpu)
	assert.Equal(t, 32, gpu)
	assert.Equal(t, 4, src.lastTimingsRequest)
}

func TestSampleFrameRateWithoutGPUTiming(t *testing.T) {
	var s statisticsSampler
	src := &fakeStats{cpuFrame: 1.0 / 64, timings: true}

	cpu, gpu, ok := s.sampleFrameRate(0.5, 0.1, src)
	assert.True(t, ok)
	assert.Equal(t, 64, cpu)
	assert.Zero(t, gpu)
}

func TestSampleDrawPass(t *testing.T) {
	var s statisticsSampler
	assert.True(t, s.sampleDrawPass(10, 3))
	assert.False(t, s.sampleDrawPass(10, 3))
	assert.True(t, s.sampleDrawPass(10, 4))
}

func TestSampleVerticesSuppressesInvisibleChanges(t *testing.T) {
	var s statisticsSampler
	assert.True(t, s.sampleVertices(12000, 1))
	assert.False(t, s.sampleVertices(12010, 1), "12.01k displays as 12.0k")
	assert.Equal(t, 12010, s.vertexCount)
	assert.True(t, s.sampleVertices(12500, 1))
}

func TestSampleVerticesSmallDriftsReachTheDisplay(t *testing.T) {
	var s statisticsSampler
	assert.True(t, s.sampleVertices(12000, 1))
	assert.False(t, s.sampleVertices(12080, 1), "12.08k still displays as 12.0k")
	assert.True(t, s.sampleVertices(12120, 1), "12.12k displays as 12.1k")
	assert.False(t, s.sampleVertices(12120, 1))
}

func TestSampleMemoryTracksPeakAndFill(t *testing.T) {
	var s statisticsSampler
	const mb = 1 << 20

	c := s.sampleMemory(100*mb, 400*mb, 1)
	assert.Equal(t, memoryChanges{limitText: true, usedText: true, peakText: true, bars: true}, c)
	assert.InDelta(t, 0.25, s.usedFill(), 1e-6)
	assert.InDelta(t, 0.25, s.peakFill(), 1e-6)

	c = s.sampleMemory(50*mb, 400*mb, 1)
	assert.Equal(t, memoryChanges{usedText: true, bars: true}, c)
	assert.Equal(t, uint64(100*mb), s.peakMemory)
	assert.InDelta(t, 0.125, s.usedFill(), 1e-6)
	assert.InDelta(t, 0.25, s.peakFill(), 1e-6)

	c = s.sampleMemory(50*mb, 400*mb, 1)
	assert.Equal(t, memoryChanges{}, c)
}

func TestMemoryFillGuardsUnknownCeiling(t *testing.T) {
	assert.Zero(t, memoryFill(1<<30, 0))
	assert.Equal(t, float32(1), memoryFill(2<<30, 1<<30))
}

func TestSamplerReset(t *testing.T) {
	s := statisticsSampler{drawCalls: 1, passCalls: 2, vertexCount: 3, memoryUsage: 4, peakMemory: 5, memoryLimit: 6, frameCount: 7, elapsed: 0.05}
	s.reset()
	assert.Zero(t, s.drawCalls)
	assert.Zero(t, s.passCalls)
	assert.Zero(t, s.vertexCount)
	assert.Zero(t, s.memoryUsage)
	assert.Zero(t, s.peakMemory)
	assert.Zero(t, s.memoryLimit)
	assert.Zero(t, s.frameCount)
	assert.Zero(t, s.elapsed)
}
