package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadSource = `
struct Out { @builtin(position) pos: vec4<f32> };

// @vertex fn commented_out() {}
/* @fragment
fn also_commented() {} */

@vertex
fn vs_main(@location(0) p: vec3<f32>) -> Out {
	var o: Out;
	o.pos = vec4<f32>(p, 1.0);
	return o;
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
	return vec4<f32>(1.0);
}
`

func TestEntryPointParsing(t *testing.T) {
	vs := NewShader("quad_vs", ShaderTypeVertex, quadSource)
	fs := NewShader("quad_fs", ShaderTypeFragment, quadSource)

	assert.Equal(t, "vs_main", vs.EntryPoint())
	assert.Equal(t, "fs_main", fs.EntryPoint())
	assert.Equal(t, "quad_vs", vs.Module().Label)
	assert.Equal(t, quadSource, vs.Module().WGSLDescriptor.Code)
}

func TestEntryPointOverride(t *testing.T) {
	s := NewShader("quad_vs", ShaderTypeVertex, quadSource, WithEntryPoint("main"))
	assert.Equal(t, "main", s.EntryPoint())
}

func TestNewShaderPanics(t *testing.T) {
	assert.Panics(t, func() { NewShader("empty", ShaderTypeVertex, "  \n") })
	assert.Panics(t, func() { NewShader("no_entry", ShaderTypeVertex, "fn helper() {}") })
}

func TestBindGroupLayoutVisibility(t *testing.T) {
	desc := wgpu.BindGroupLayoutDescriptor{
		Label: "overlay",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: wgpu.ShaderStageVertex, Sampler: wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}},
		},
	}

	fs := NewShader("quad_fs", ShaderTypeFragment, quadSource, WithBindGroupLayout(0, desc))
	got := fs.BindGroupLayoutDescriptor(0)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, wgpu.ShaderStageFragment, got.Entries[0].Visibility)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, got.Entries[1].Visibility)

	// the caller's descriptor is left untouched
	assert.Equal(t, wgpu.ShaderStageNone, desc.Entries[0].Visibility)
}
