package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
// Higher values (MSAA8x, MSAA16x) are adapter-dependent and may not be supported
// by all hardware.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff, MSAA4x, MSAA8x, or MSAA16x)
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe). Useful for benchmarking CPU vs GPU rendering performance.
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithInstancing enables or disables instanced draws. Instancing is on by default; turning it off makes
// SupportsInstancing report false so callers fall back to one draw call per instance.
//
// Parameters:
//   - enabled: true to allow instanced draws
//
// Returns:
//   - RendererBuilderOption: a function that applies the instancing option to a renderer
func WithInstancing(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.instancing = enabled
	}
}
