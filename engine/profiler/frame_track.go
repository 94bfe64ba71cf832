package profiler

const defaultTargetFrameRate = 60

// frameTrack is the rolling record of frame-rate outcomes shown by the history strip. Index 0 is the newest.
type frameTrack struct {
	cells [FrameRange]bool
}

func newFrameTrack() frameTrack {
	var f frameTrack
	for i := range f.cells {
		f.cells[i] = true
	}
	return f
}

// push shifts every outcome one cell older, dropping the oldest, and records onTarget at cell 0.
func (f *frameTrack) push(onTarget bool) {
	copy(f.cells[1:], f.cells[:FrameRange-1])
	f.cells[0] = onTarget
}

// onTarget reports whether rate counts as meeting target. One frame of slack is allowed.
func onTarget(rate, target int) bool {
	return rate >= target-1
}

// targetFrameRate reads the display refresh rate, falling back to 60 when it is unknown.
func targetFrameRate(src RefreshRateSource) int {
	if src == nil {
		return defaultTargetFrameRate
	}
	if rate := src.RefreshRate(); rate > 0 {
		return rate
	}
	return defaultTargetFrameRate
}
