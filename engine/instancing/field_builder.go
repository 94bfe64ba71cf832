package instancing

import "github.com/Carmen-Shannon/oxy-vprof/engine/renderer"

// FieldBuilderOption is a functional option for configuring a PointMassField.
type FieldBuilderOption func(*field)

// WithCount sets the number of instances. Defaults to 20000.
//
// Parameters:
//   - count: the instance count
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithCount(count int) FieldBuilderOption {
	return func(f *field) {
		f.count = count
	}
}

// WithRadius sets the radius of the containment sphere. Defaults to 3.
//
// Parameters:
//   - radius: the sphere radius
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithRadius(radius float32) FieldBuilderOption {
	return func(f *field) {
		f.radius = radius
	}
}

// WithSizeRange sets the range instance sizes are drawn from. Defaults to [0.02, 0.08].
//
// Parameters:
//   - minSize: the smallest cube edge
//   - maxSize: the largest cube edge
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithSizeRange(minSize, maxSize float32) FieldBuilderOption {
	return func(f *field) {
		f.minSize = minSize
		f.maxSize = maxSize
	}
}

// WithSeed makes spawning deterministic.
func WithSeed(seed uint64) FieldBuilderOption {
	return func(f *field) {
		f.seed = seed
	}
}

// WithWorkers sets the worker pool size. Defaults to one less than the CPU count.
//
// Parameters:
//   - workers: the maximum number of concurrent workers
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithWorkers(workers int) FieldBuilderOption {
	return func(f *field) {
		f.workers = max(workers, 1)
	}
}

// WithChunkSize sets how many instances one worker task updates.
func WithChunkSize(size int) FieldBuilderOption {
	return func(f *field) {
		f.chunkSize = size
	}
}

// WithRenderer draws the field through r, projected by view.
//
// Parameters:
//   - r: the renderer
//   - view: the view-projection source, typically the camera
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer, view ViewProjectionSource) FieldBuilderOption {
	return func(f *field) {
		f.renderer = r
		f.view = view
	}
}
