package gpu_overlay

// overlaySource draws one textured quad per instance. Solid quads sample the atlas' white cell with zero
// UV scale, so one pipeline covers both glyphs and plain rectangles.
const overlaySource = `
struct OverlayUniform {
	view_proj: mat4x4<f32>,
	window: mat4x4<f32>,
	base_color: vec4<f32>,
};

@group(0) @binding(0) var<uniform> overlay: OverlayUniform;
@group(0) @binding(1) var atlas: texture_2d<f32>;
@group(0) @binding(2) var atlas_sampler: sampler;

struct VertexOut {
	@builtin(position) position: vec4<f32>,
	@location(0) uv: vec2<f32>,
	@location(1) color: vec4<f32>,
};

@vertex
fn vs_main(
	@location(0) corner: vec2<f32>,
	@location(1) corner_uv: vec2<f32>,
	@location(2) m0: vec4<f32>,
	@location(3) m1: vec4<f32>,
	@location(4) m2: vec4<f32>,
	@location(5) m3: vec4<f32>,
	@location(6) color: vec4<f32>,
	@location(7) region: vec4<f32>,
) -> VertexOut {
	let local = mat4x4<f32>(m0, m1, m2, m3);
	var out: VertexOut;
	out.position = overlay.view_proj * overlay.window * local * vec4<f32>(corner, 0.0, 1.0);
	out.uv = region.xy + corner_uv * region.zw;
	out.color = select(overlay.base_color, color, color.a > 0.0);
	return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	let texel = textureSample(atlas, atlas_sampler, in.uv);
	return in.color * texel;
}
`
