package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*visualProfiler)

// WithSettings replaces the default settings. The settings are normalized after all options are applied.
//
// Parameters:
//   - s: the initial settings
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithSettings(s Settings) ProfilerBuilderOption {
	return func(p *visualProfiler) {
		p.settings = s
	}
}

// WithFrameStats sets the source of draw-call, pass, vertex and frame timing statistics.
//
// Parameters:
//   - src: the statistics source, typically the renderer
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithFrameStats(src FrameStatsSource) ProfilerBuilderOption {
	return func(p *visualProfiler) {
		p.stats = src
	}
}

// WithMemoryReporter sets the memory reporter. Defaults to NewRuntimeMemoryReporter.
//
// Parameters:
//   - m: the memory reporter
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithMemoryReporter(m MemoryReporter) ProfilerBuilderOption {
	return func(p *visualProfiler) {
		p.memory = m
	}
}

// WithPoseProvider sets the viewpoint the window follows, typically the camera.
//
// Parameters:
//   - pose: the pose provider
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithPoseProvider(pose PoseProvider) ProfilerBuilderOption {
	return func(p *visualProfiler) {
		p.pose = pose
	}
}

// WithRefreshRate sets the source of the target frame rate. Without one the target is 60.
//
// Parameters:
//   - src: the refresh rate source, typically the window
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithRefreshRate(src RefreshRateSource) ProfilerBuilderOption {
	return func(p *visualProfiler) {
		p.refresh = src
	}
}

// WithTrigger attaches an external visibility trigger. May be given more than once; a nil trigger is ignored.
//
// Parameters:
//   - t: the trigger
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithTrigger(t Trigger) ProfilerBuilderOption {
	return func(p *visualProfiler) {
		if t != nil {
			p.triggers = append(p.triggers, t)
		}
	}
}

// WithSubmitter sets the draw facility. Its instancing capability is checked once, at construction.
//
// Parameters:
//   - s: the submitter
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithSubmitter(s Submitter) ProfilerBuilderOption {
	return func(p *visualProfiler) {
		p.submitter = s
	}
}

// WithGlyphAtlas shares an atlas with the submitter so texture regions match the uploaded bitmap.
//
// Parameters:
//   - a: the glyph atlas
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithGlyphAtlas(a *GlyphAtlas) ProfilerBuilderOption {
	return func(p *visualProfiler) {
		p.atlas = a
	}
}

// WithConsoleSummary logs a one-line summary of frame rate, render counters and memory every interval.
//
// Parameters:
//   - interval: time between summaries (defaults to 1 second if <= 0)
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithConsoleSummary(interval time.Duration) ProfilerBuilderOption {
	return func(p *visualProfiler) {
		p.console = newConsoleSummary(interval)
	}
}
