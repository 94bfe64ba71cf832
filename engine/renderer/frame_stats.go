package renderer

import (
	"sync"
	"time"
)

const frameTimingCapacity = 128

// frameStats counts the submissions of the frame being recorded and publishes them when the frame ends,
// so readers always see the last completed frame. CPU frame durations are the intervals between
// consecutive BeginFrame calls, kept in a fixed ring.
type frameStats struct {
	mu *sync.Mutex

	// in-progress frame
	drawCalls    int
	passCalls    int
	vertices     int
	lastPipeline string

	// last completed frame
	doneDrawCalls int
	donePassCalls int
	doneVertices  int

	lastBegin time.Time
	durations [frameTimingCapacity]float32
	head      int
	count     int
}

func newFrameStats() *frameStats {
	return &frameStats{mu: &sync.Mutex{}}
}

// begin starts counting a new frame and records the interval since the previous one.
func (f *frameStats) begin(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.lastBegin.IsZero() {
		f.durations[f.head] = float32(now.Sub(f.lastBegin).Seconds())
		f.head = (f.head + 1) % frameTimingCapacity
		f.count = min(f.count+1, frameTimingCapacity)
	}
	f.lastBegin = now

	f.drawCalls = 0
	f.passCalls = 0
	f.vertices = 0
	f.lastPipeline = ""
}

// recordDraw counts one draw submission. A pipeline different from the previous draw's counts as a pass switch.
func (f *frameStats) recordDraw(pipelineKey string, vertices int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.drawCalls++
	f.vertices += vertices
	if pipelineKey != f.lastPipeline {
		f.passCalls++
		f.lastPipeline = pipelineKey
	}
}

// end publishes the counters of the frame being recorded.
func (f *frameStats) end() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.doneDrawCalls = f.drawCalls
	f.donePassCalls = f.passCalls
	f.doneVertices = f.vertices
}

func (f *frameStats) DrawCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doneDrawCalls
}

func (f *frameStats) PassCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.donePassCalls
}

func (f *frameStats) Vertices() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doneVertices
}

// FrameTimings copies the most recent CPU frame durations, newest first, into cpu and zeroes the matching gpu
// entries.
// TODO: resolve GPU durations via timestamp queries (wgpu.FeatureNameTimestampQuery) when the adapter exposes them.
func (f *frameStats) FrameTimings(cpu, gpu []float32) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := min(len(cpu), len(gpu), f.count)
	for i := range n {
		idx := (f.head - 1 - i + frameTimingCapacity) % frameTimingCapacity
		cpu[i] = f.durations[idx]
		gpu[i] = 0
	}
	return n
}
