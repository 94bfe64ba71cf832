package renderer

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-vprof/common"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vprof/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex
	*frameStats

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	instancing bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer manages a cache of pipelines, creates GPU resources on BindGroupProviders, and encodes
// draw calls between BeginFrame and EndFrame. It also counts the draw calls, pipeline switches and
// vertices of every completed frame and keeps a ring of recent frame durations.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU render pipeline for each Pipeline via the backend and caches it by
	// PipelineKey. Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// SupportsInstancing reports whether one draw call may cover many instances with per-instance data.
	// Callers that get false should issue one DrawCallRange per instance.
	//
	// Returns:
	//   - bool: true if instanced draws are enabled
	SupportsInstancing() bool

	// InitMeshBuffers creates GPU vertex and index buffers from raw byte data and stores them
	// on the given BindGroupProvider for later use in draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes (uint32 indices) to upload to the GPU
	//   - indexCount: the number of indices, used for draw calls
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitInstanceBuffer creates a per-instance vertex buffer bound at vertex slot 1 in draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffer on
	//   - stride: the byte size of one instance record
	//   - capacity: the maximum number of instances
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, stride uint64, capacity int) error

	// InitBindGroup creates GPU buffers and a bind group from a layout descriptor and stores them
	// on the given BindGroupProvider. Textures and samplers must be initialized via InitTextureView
	// and InitSampler before calling this method. Buffer usage and size can be overridden per binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//   - bufferUsageOverrides: additional buffer usage flags to OR into the derived usage, keyed by binding index (nil safe)
	//   - bufferSizeOverrides: custom buffer sizes to use instead of MinBindingSize, keyed by binding index (nil safe)
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// InitTextureView creates a GPU texture from staging data and stores the resulting texture view
	// on the given BindGroupProvider at the specified binding index.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created texture view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the pixel data and dimensions for the texture
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a GPU sampler from staging data and stores it on the given BindGroupProvider
	// at the specified binding index.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// WriteInstanceBuffer writes instance records into the provider's instance buffer.
	//
	// Parameters:
	//   - provider: the BindGroupProvider owning the instance buffer
	//   - offset: the byte offset to write at
	//   - data: the instance bytes
	WriteInstanceBuffer(provider bind_group_provider.BindGroupProvider, offset uint64, data []byte)

	// BeginFrame acquires the swapchain texture, begins the main render pass and starts counting a new frame.
	// Must be paired with EndFrame after all DrawCall invocations within a single frame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawCall encodes a single instanced draw of instances [0, instanceCount) within the current render pass.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached render Pipeline to use
	//   - meshProvider: the BindGroupProvider holding vertex, index and instance buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: a slice of BindGroupProviders whose BindGroups will be set on the render pass
	//
	// Returns:
	//   - error: an error if the pipeline is not found
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// DrawCallRange encodes a draw of instances [firstInstance, firstInstance+instanceCount).
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached render Pipeline to use
	//   - meshProvider: the BindGroupProvider holding vertex, index and instance buffers
	//   - firstInstance: the first instance to draw
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: a slice of BindGroupProviders whose BindGroups will be set on the render pass
	//
	// Returns:
	//   - error: an error if the pipeline is not found
	DrawCallRange(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, firstInstance, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the current render pass, submits the command buffer and publishes the frame's counters.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// DrawCalls returns the number of draw calls in the last completed frame.
	DrawCalls() int

	// PassCalls returns the number of pipeline switches in the last completed frame.
	PassCalls() int

	// Vertices returns the number of vertices (indices times instances) submitted in the last completed frame.
	Vertices() int

	// FrameTimings copies the most recent frame durations in seconds, newest first.
	// GPU durations are reported as 0.
	//
	// Parameters:
	//   - cpu: destination for CPU frame durations
	//   - gpu: destination for GPU frame durations
	//
	// Returns:
	//   - int: the number of entries written
	FrameTimings(cpu, gpu []float32) int
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type, drawing into the window's surface.
// Panics if no GPU adapter or device can be acquired.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window whose surface the renderer presents to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		frameStats:    newFrameStats(),
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		instancing:    true,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SupportsInstancing() bool {
	return r.instancing
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return err
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, stride uint64, capacity int) error {
	return r.backend.InitInstanceBuffer(provider, stride, capacity)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) WriteInstanceBuffer(provider bind_group_provider.BindGroupProvider, offset uint64, data []byte) {
	r.backend.WriteInstanceBuffer(provider, offset, data)
}

func (r *renderer) BeginFrame() error {
	if err := r.backend.BeginFrame(); err != nil {
		return err
	}
	r.frameStats.begin(time.Now())
	return nil
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	return r.DrawCallRange(pipelineKey, meshProvider, 0, instanceCount, bindGroups)
}

func (r *renderer) DrawCallRange(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, firstInstance, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}

	r.backend.DrawCall(p, meshProvider, firstInstance, instanceCount, bindGroups)
	r.frameStats.recordDraw(pipelineKey, meshProvider.IndexCount()*int(instanceCount))
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
	r.frameStats.end()
}

func (r *renderer) Present() {
	r.backend.Present()
}
