package gpu_overlay

import (
	"github.com/Carmen-Shannon/oxy-vprof/common"
	"github.com/Carmen-Shannon/oxy-vprof/engine/profiler"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// quadVertex is one corner of the unit quad centered on the origin. UV v grows downwards to match image rows.
type quadVertex struct {
	Position [2]float32
	UV       [2]float32
}

const quadVertexStride = 16

var (
	quadVertices = []quadVertex{
		{Position: [2]float32{-0.5, -0.5}, UV: [2]float32{0, 1}},
		{Position: [2]float32{0.5, -0.5}, UV: [2]float32{1, 1}},
		{Position: [2]float32{0.5, 0.5}, UV: [2]float32{1, 0}},
		{Position: [2]float32{-0.5, 0.5}, UV: [2]float32{0, 0}},
	}
	quadIndices = []uint32{0, 1, 2, 0, 2, 3}
)

// overlayUniform mirrors OverlayUniform in the shader.
type overlayUniform struct {
	ViewProj  [16]float32
	Window    mgl32.Mat4
	BaseColor mgl32.Vec4
}

const overlayUniformSize = 144

func quadLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: quadVertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
		},
	}
}

// slotLayout describes profiler.Slot as a per-instance stream: four matrix columns, color, texture region.
func slotLayout() wgpu.VertexBufferLayout {
	attrs := make([]wgpu.VertexAttribute, 0, 6)
	for i := range 6 {
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         uint64(i * 16),
			ShaderLocation: uint32(2 + i),
		})
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: profiler.SlotStride,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes:  attrs,
	}
}

func uniformEntry(visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: visibility,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: overlayUniformSize,
		},
	}
}

func atlasEntries() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    1,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
		{
			Binding:    2,
			Visibility: wgpu.ShaderStageFragment,
			Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			},
		},
	}
}

// stageDescriptor builds a group 0 layout for one shader stage; the shader adds its own stage visibility.
func stageDescriptor(entries ...wgpu.BindGroupLayoutEntry) wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label:   "Profiler Overlay",
		Entries: entries,
	}
}

// bindGroupDescriptor is the full group 0 layout used to create the bind group.
func bindGroupDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label:   "Profiler Overlay",
		Entries: append([]wgpu.BindGroupLayoutEntry{uniformEntry(wgpu.ShaderStageVertex | wgpu.ShaderStageFragment)}, atlasEntries()...),
	}
}

// nearestSampler keeps glyph edges crisp and the white cell solid.
func nearestSampler() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		Nearest:      true,
	}
}
