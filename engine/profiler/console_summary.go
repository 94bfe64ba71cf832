package profiler

import (
	"log"
	"runtime"
	"time"
)

// consoleSummary periodically logs frame rate, render counters and memory alongside GC activity.
type consoleSummary struct {
	interval   time.Duration
	frameCount int
	elapsed    time.Duration

	memStats    runtime.MemStats
	lastGCCount uint32
}

func newConsoleSummary(interval time.Duration) *consoleSummary {
	if interval <= 0 {
		interval = time.Second
	}
	return &consoleSummary{interval: interval}
}

// tick counts one frame and logs once the interval has elapsed.
//
// Returns:
//   - bool: true if a summary was logged this tick
func (c *consoleSummary) tick(dt float32, s *statisticsSampler) bool {
	c.frameCount++
	c.elapsed += time.Duration(float64(dt) * float64(time.Second))
	if c.elapsed < c.interval {
		return false
	}

	fps := float64(c.frameCount) / c.elapsed.Seconds()

	runtime.ReadMemStats(&c.memStats)
	gcCount := c.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		lastPauseUs = c.memStats.PauseNs[(gcCount-1)%256] / 1000
		start := c.lastGCCount
		if gcCount-start > 256 {
			start = gcCount - 256
		}
		for i := start; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, c.memStats.PauseNs[i%256]/1000)
		}
	}

	log.Printf("[Profiler] FPS: %.2f | Draw/Pass: %d/%d | Verts: %d | Used: %.2f MB | Peak: %.2f MB | Limit: %.2f MB | GC: %d (last: %d µs, max: %d µs)",
		fps, s.drawCalls, s.passCalls, s.vertexCount,
		bytesToMegabytes(s.memoryUsage), bytesToMegabytes(s.peakMemory), bytesToMegabytes(s.memoryLimit),
		gcCount, lastPauseUs, maxPauseUs)

	c.frameCount = 0
	c.elapsed = 0
	c.lastGCCount = gcCount
	return true
}
