package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroupLayout shares an existing bind group layout, so InitBindGroup reuses it instead of creating one.
//
// Parameters:
//   - bgl: the bind group layout
//
// Returns:
//   - BindGroupProviderOption: a function that sets the bind group layout for this provider
func WithBindGroupLayout(bgl *wgpu.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroupLayout = bgl
	}
}

// WithBuffer attaches an existing buffer at a binding index, so InitBindGroup binds it instead of allocating.
//
// Parameters:
//   - binding: the binding index
//   - buf: the buffer
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for this provider
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}
