package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithEntryPoint overrides the entry point parsed from the source.
//
// Parameters:
//   - name: the entry point function name
//
// Returns:
//   - ShaderBuilderOption: a function that sets the entry point
func WithEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = name
	}
}

// WithBindGroupLayout declares the layout of one bind group used by the shader.
// Entry visibility is set to this shader's stage.
//
// Parameters:
//   - group: the bind group index
//   - descriptor: the layout descriptor
//
// Returns:
//   - ShaderBuilderOption: a function that records the bind group layout
func WithBindGroupLayout(group int, descriptor wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		visibility := wgpu.ShaderStageVertex
		if s.shaderType == ShaderTypeFragment {
			visibility = wgpu.ShaderStageFragment
		}
		entries := make([]wgpu.BindGroupLayoutEntry, len(descriptor.Entries))
		for i, e := range descriptor.Entries {
			e.Visibility |= visibility
			entries[i] = e
		}
		descriptor.Entries = entries
		s.bindGroupLayoutDescriptors[group] = descriptor
	}
}

// WithVertexLayouts sets the vertex buffer layouts, one per vertex buffer slot.
//
// Parameters:
//   - layouts: the layouts in slot order
//
// Returns:
//   - ShaderBuilderOption: a function that sets the vertex layouts
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = layouts
	}
}
