package profiler

const maxFrameTimings = 128

// statisticsSampler accumulates the frame-rate window and caches the last sampled value of every statistic.
type statisticsSampler struct {
	frameCount int
	elapsed    float32

	cpuTimings [maxFrameTimings]float32
	gpuTimings [maxFrameTimings]float32

	drawCalls   int
	passCalls   int
	vertexCount int

	memoryUsage uint64
	peakMemory  uint64
	memoryLimit uint64
}

// reset zeroes every cached statistic and restarts the frame-rate window, so the next samples repaint all of
// them from fresh data.
func (s *statisticsSampler) reset() {
	s.frameCount = 0
	s.elapsed = 0
	s.drawCalls = 0
	s.passCalls = 0
	s.vertexCount = 0
	s.memoryUsage = 0
	s.peakMemory = 0
	s.memoryLimit = 0
}

// sampleFrameRate counts one frame of dt seconds. Once the window reaches sampleRate it returns the CPU and GPU
// frame rates and restarts the window. Backend timings, when present, take precedence over the window estimate.
// A GPU rate of 0 means no GPU timing is available.
func (s *statisticsSampler) sampleFrameRate(dt, sampleRate float32, src FrameStatsSource) (cpuRate, gpuRate int, ok bool) {
	s.frameCount++
	s.elapsed += max(dt, 0)
	if s.elapsed < sampleRate || s.elapsed <= 0 {
		return 0, 0, false
	}

	cpuRate = int(float32(s.frameCount) / s.elapsed)

	if src != nil {
		n := min(s.frameCount, maxFrameTimings)
		if count := src.FrameTimings(s.cpuTimings[:n], s.gpuTimings[:n]); count > 0 {
			cpuAvg, gpuAvg := averageTimings(s.cpuTimings[:min(count, n)], s.gpuTimings[:min(count, n)])
			if cpuAvg > 0 {
				cpuRate = int(1 / cpuAvg)
			}
			if gpuAvg > 0 {
				gpuRate = int(1 / gpuAvg)
			}
		}
	}

	s.frameCount = 0
	s.elapsed = 0
	return cpuRate, gpuRate, true
}

func averageTimings(cpu, gpu []float32) (cpuAvg, gpuAvg float32) {
	if len(cpu) == 0 {
		return 0, 0
	}
	var cpuSum, gpuSum float64
	for i := range cpu {
		cpuSum += float64(cpu[i])
		gpuSum += float64(gpu[i])
	}
	n := float64(len(cpu))
	return float32(cpuSum / n), float32(gpuSum / n)
}

// sampleDrawPass records the draw and pass counters and reports whether either changed.
func (s *statisticsSampler) sampleDrawPass(draw, pass int) bool {
	if draw == s.drawCalls && pass == s.passCalls {
		return false
	}
	s.drawCalls, s.passCalls = draw, pass
	return true
}

// sampleVertices records the vertex counter and reports whether its displayed value changed.
func (s *statisticsSampler) sampleVertices(vertices, decimals int) bool {
	if vertices == s.vertexCount {
		return false
	}
	differs := displayedValueDiffers(verticesToThousands(s.vertexCount), verticesToThousands(vertices), decimals)
	s.vertexCount = vertices
	return differs
}

// memoryChanges reports which memory visuals need regenerating after a sample.
type memoryChanges struct {
	limitText bool
	usedText  bool
	peakText  bool
	bars      bool
}

// sampleMemory records usage and limit, raises the peak when exceeded and reports which displayed values changed.
func (s *statisticsSampler) sampleMemory(usage, limit uint64, decimals int) memoryChanges {
	var c memoryChanges

	if limit != s.memoryLimit {
		c.limitText = memoryUsageDiffers(s.memoryLimit, limit, decimals)
		s.memoryLimit = limit
		c.bars = true
	}

	if usage != s.memoryUsage {
		c.usedText = memoryUsageDiffers(s.memoryUsage, usage, decimals)
		s.memoryUsage = usage
		c.bars = true
	}

	if s.memoryUsage > s.peakMemory {
		c.peakText = memoryUsageDiffers(s.peakMemory, s.memoryUsage, decimals)
		s.peakMemory = s.memoryUsage
		c.bars = true
	}

	return c
}

// usedFill returns the current usage as a fraction of the ceiling in [0, 1]. An unknown ceiling yields 0.
func (s *statisticsSampler) usedFill() float32 {
	return memoryFill(s.memoryUsage, s.memoryLimit)
}

// peakFill returns the peak usage as a fraction of the ceiling in [0, 1]. An unknown ceiling yields 0.
func (s *statisticsSampler) peakFill() float32 {
	return memoryFill(s.peakMemory, s.memoryLimit)
}

func memoryFill(bytes, limit uint64) float32 {
	if limit == 0 {
		return 0
	}
	return min(float32(float64(bytes)/float64(limit)), 1)
}

// displayedValueDiffers is the change-suppression predicate: it reports whether prev and next render to
// different text at the given number of decimal digits. It formats both with appendFixed, so suppressing a
// change keeps the shown text equal to a fresh format of the latest sample.
func displayedValueDiffers(prev, next float32, decimals int) bool {
	var a, b textBuffer
	a.appendFixed(prev, decimals)
	b.appendFixed(next, decimals)
	return a != b
}

func memoryUsageDiffers(prev, next uint64, decimals int) bool {
	return displayedValueDiffers(bytesToMegabytes(prev), bytesToMegabytes(next), decimals)
}
