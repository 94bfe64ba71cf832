package instancing

import (
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

type cubeVertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
}

const cubeVertexStride = 24

// fieldUniform mirrors FieldUniform in the shader.
type fieldUniform struct {
	ViewProj [16]float32
	LightDir mgl32.Vec4
}

const fieldUniformSize = 80

// cubeMesh builds a unit cube centered on the origin with counter-clockwise faces seen from outside.
func cubeMesh() ([]cubeVertex, []uint32) {
	faces := [6][3]mgl32.Vec3{
		// normal, u, v with u x v = normal
		{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
		{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}},
		{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
		{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, -1}, {0, 1, 0}, {1, 0, 0}},
	}

	vertices := make([]cubeVertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		n, u, v := f[0], f[1], f[2]
		center := n.Mul(0.5)
		u, v = u.Mul(0.5), v.Mul(0.5)

		base := uint32(len(vertices))
		for _, corner := range [4]mgl32.Vec3{
			center.Sub(u).Sub(v),
			center.Add(u).Sub(v),
			center.Add(u).Add(v),
			center.Sub(u).Add(v),
		} {
			vertices = append(vertices, cubeVertex{Position: corner, Normal: n})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

func cubeLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: cubeVertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		},
	}
}

func instanceLayout() wgpu.VertexBufferLayout {
	attrs := make([]wgpu.VertexAttribute, 0, 5)
	for i := range 5 {
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         uint64(i * 16),
			ShaderLocation: uint32(2 + i),
		})
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: instanceStride,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes:  attrs,
	}
}

func uniformLayout(visibility wgpu.ShaderStage) wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Point Mass Field",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: visibility,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: fieldUniformSize,
			},
		}},
	}
}

func fieldShaders(key string) (vs, fs shader.Shader) {
	vs = shader.NewShader(key+"_vs", shader.ShaderTypeVertex, fieldSource,
		shader.WithVertexLayouts(cubeLayout(), instanceLayout()),
		shader.WithBindGroupLayout(0, uniformLayout(0)),
	)
	fs = shader.NewShader(key+"_fs", shader.ShaderTypeFragment, fieldSource,
		shader.WithBindGroupLayout(0, uniformLayout(0)),
	)
	return vs, fs
}

const fieldSource = `
struct FieldUniform {
	view_proj: mat4x4<f32>,
	light_dir: vec4<f32>,
};

@group(0) @binding(0) var<uniform> field: FieldUniform;

struct VertexOut {
	@builtin(position) position: vec4<f32>,
	@location(0) normal: vec3<f32>,
	@location(1) color: vec4<f32>,
};

@vertex
fn vs_main(
	@location(0) position: vec3<f32>,
	@location(1) normal: vec3<f32>,
	@location(2) m0: vec4<f32>,
	@location(3) m1: vec4<f32>,
	@location(4) m2: vec4<f32>,
	@location(5) m3: vec4<f32>,
	@location(6) color: vec4<f32>,
) -> VertexOut {
	let model = mat4x4<f32>(m0, m1, m2, m3);
	var out: VertexOut;
	out.position = field.view_proj * model * vec4<f32>(position, 1.0);
	out.normal = (model * vec4<f32>(normal, 0.0)).xyz;
	out.color = color;
	return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	let diffuse = max(dot(normalize(in.normal), -normalize(field.light_dir.xyz)), 0.0);
	return vec4<f32>(in.color.rgb * (0.35 + 0.65 * diffuse), in.color.a);
}
`
