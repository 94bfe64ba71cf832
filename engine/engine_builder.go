package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-vprof/engine/camera"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vprof/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithTickRate sets the engine tick rate in frames per second.
// The tick callback will be called at this rate for game logic updates.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer that owns the frame lifecycle. Without one, layers are updated but never drawn.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithCamera sets the camera whose controller and matrices are updated at the start of each frame.
// Window resizes also update its aspect ratio.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithLayer registers a layer at the given z-index key during engine construction.
// Layers are updated and drawn in ascending key order.
//
// Parameters:
//   - key: the z-index determining draw order (lower draws first)
//   - l: the Layer to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLayer(key int, l Layer) EngineBuilderOption {
	return func(e *engine) {
		e.layers[key] = l
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
