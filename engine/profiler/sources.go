package profiler

import "github.com/go-gl/mathgl/mgl32"

// FrameStatsSource reports render statistics for the most recently completed frame.
type FrameStatsSource interface {
	// DrawCalls returns the number of draw submissions in the last frame.
	DrawCalls() int

	// PassCalls returns the number of pass or pipeline state switches in the last frame.
	PassCalls() int

	// Vertices returns the number of vertices submitted in the last frame.
	Vertices() int

	// FrameTimings copies the most recent per-frame CPU and GPU durations, in seconds, into cpu and gpu.
	// Both slices have the same length. A GPU duration of 0 means no GPU timing is available.
	//
	// Parameters:
	//   - cpu: destination for CPU frame durations
	//   - gpu: destination for GPU frame durations
	//
	// Returns:
	//   - int: the number of entries written, 0 if timings are unsupported
	FrameTimings(cpu, gpu []float32) int
}

// MemoryReporter reports process memory figures in bytes.
type MemoryReporter interface {
	// Usage returns the bytes currently allocated by the process.
	Usage() uint64

	// Ceiling returns the platform memory ceiling, or 0 if it is unknown.
	Ceiling() uint64
}

// PoseProvider exposes the pose of the active viewpoint. The orientation is right-handed with forward along -Z.
type PoseProvider interface {
	// Pose returns the world position and orientation of the viewpoint.
	Pose() (mgl32.Vec3, mgl32.Quat)

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Near returns the near clipping plane distance.
	Near() float32
}

// RefreshRateSource reports the display refresh rate in Hz, or 0 if it is unknown.
type RefreshRateSource interface {
	RefreshRate() int
}

// Command is a visibility request issued by a Trigger.
type Command int

const (
	CommandToggle Command = iota
	CommandShow
	CommandHide
)

func (c Command) String() string {
	switch c {
	case CommandToggle:
		return "toggle"
	case CommandShow:
		return "show"
	case CommandHide:
		return "hide"
	default:
		return "unknown"
	}
}

// Trigger is an external event source that requests visibility changes.
type Trigger interface {
	Commands() <-chan Command
}
