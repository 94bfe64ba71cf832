package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label prefixes the debug labels of every GPU object created for this provider.
	label string

	// The following fields are GPU allocated resources populated by the Renderer and released by Release.

	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	buffers         map[int]*wgpu.Buffer
	textureViews    map[int]*wgpu.TextureView
	samplers        map[int]*wgpu.Sampler

	// Mesh and per-instance vertex streams.

	vertexBuffer   *wgpu.Buffer
	indexBuffer    *wgpu.Buffer
	indexCount     int
	instanceBuffer *wgpu.Buffer
	instanceStride uint64
}

// BindGroupProvider holds the GPU resources one drawable needs: the bind group and its buffers,
// textures and samplers, plus the vertex, index and per-instance buffers bound at draw time.
//
// Usage pattern:
//  1. Create a provider with NewBindGroupProvider and a debug label
//  2. Call Renderer.InitTextureView / InitSampler for any texture bindings
//  3. Call Renderer.InitBindGroup to create buffers and the bind group
//  4. Call Renderer.InitMeshBuffers / InitInstanceBuffer for vertex data
//  5. Pass the provider to Renderer.DrawCall
type BindGroupProvider interface {
	// Release releases every GPU resource held by this provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group, or nil if it has not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the bind group layout, or nil if it has not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer bound at a binding index, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view bound at a binding index, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler bound at a binding index, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// VertexBuffer returns the mesh vertex buffer, or nil if not initialized.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the mesh index buffer, or nil if not initialized.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices in the index buffer.
	IndexCount() int

	// InstanceBuffer returns the per-instance vertex buffer bound at vertex slot 1, or nil if the
	// provider draws without per-instance data.
	InstanceBuffer() *wgpu.Buffer

	// InstanceStride returns the byte size of one instance record.
	InstanceStride() uint64

	SetBindGroup(bg *wgpu.BindGroup)
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)
	SetBuffer(binding int, buf *wgpu.Buffer)
	SetTextureView(binding int, tv *wgpu.TextureView)
	SetSampler(binding int, s *wgpu.Sampler)
	SetVertexBuffer(buf *wgpu.Buffer)
	SetIndexBuffer(buf *wgpu.Buffer)
	SetIndexCount(count int)

	// SetInstanceBuffer stores the per-instance vertex buffer and its record stride.
	//
	// Parameters:
	//   - buf: the instance buffer
	//   - stride: the byte size of one instance record
	SetInstanceBuffer(buf *wgpu.Buffer, stride uint64)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider. GPU resources are attached by the Renderer.
//
// Parameters:
//   - label: the debug label used for every GPU object created for this provider
//   - options: variadic list of BindGroupProviderOption functions
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) InstanceBuffer() *wgpu.Buffer {
	return p.instanceBuffer
}

func (p *bindGroupProvider) InstanceStride() uint64 {
	return p.instanceStride
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

func (p *bindGroupProvider) SetInstanceBuffer(buf *wgpu.Buffer, stride uint64) {
	p.instanceBuffer = buf
	p.instanceStride = stride
}

func (p *bindGroupProvider) Release() {
	for i, tv := range p.textureViews {
		if tv != nil {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}

	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	if p.instanceBuffer != nil {
		p.instanceBuffer.Release()
		p.instanceBuffer = nil
	}
	p.indexCount = 0
	p.instanceStride = 0
}
