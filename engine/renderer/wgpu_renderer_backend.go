package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-vprof/common"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	sampleCount MSAASampleCount  // MSAA sample count for the main render pass

	// Frame state for batched rendering across multiple draw calls
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	// ConfigureSurface is a wrapper for boilerplate logic required when calling ConfigureSurface on a surface.
	// This is required when the surface size changes, such as when the window is resized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync, Uncapped, or TripleBuffered)
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline is a high-level function that creates a render pipeline based on the provided pipeline.
	// It handles creating the shader module, pipeline layout, and render pipeline based on the pipeline's configuration.
	//
	// Parameters:
	//   - p: the pipeline object containing the source code and configuration for the pipeline
	//
	// Returns:
	//   - error: an error if the pipeline could not be created, otherwise nil
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers inits the vertex and index buffers for a mesh based on the provided vertex and index data, and stores them on the given BindGroupProvider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created vertex and index buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU
	//   - indexCount: the number of indices represented in the indexData, used for draw calls
	//
	// Returns:
	//   - error: an error if the buffers could not be created or initialized, otherwise nil
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitInstanceBuffer creates a per-instance vertex buffer of capacity records and stores it on the given provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the instance buffer on
	//   - stride: the byte size of one instance record
	//   - capacity: the maximum number of instances
	//
	// Returns:
	//   - error: an error if the buffer could not be created, otherwise nil
	InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, stride uint64, capacity int) error

	// WriteInstanceBuffer writes raw instance records into the provider's instance buffer at a byte offset.
	//
	// Parameters:
	//   - provider: the BindGroupProvider owning the instance buffer
	//   - offset: the byte offset to write at
	//   - data: the instance bytes
	WriteInstanceBuffer(provider bind_group_provider.BindGroupProvider, offset uint64, data []byte)

	// InitBindGroup is a high-level function that creates GPU buffers and a bind group based on a BindGroupProvider's layout entries.
	// It handles creating the necessary GPU resources and storing them back on the provider for later use.
	//
	// Parameters:
	//   - provider: the BindGroupProvider describing the layout entries and storage for the bind group
	//   - descriptor: the BindGroupLayoutDescriptor describing the layout of the bind group
	//   - bufferUsageOverrides: a map of binding indices to buffer usage flags, allowing customization of buffer usage
	//   - bufferSizeOverrides: a map of binding indices to buffer sizes, allowing customization of buffer sizes
	//
	// Returns:
	//   - error: an error if the bind group could not be initialized, otherwise nil
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// InitTextureView creates a GPU texture and texture view based on the provided staging data, and stores the view on the given BindGroupProvider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created texture view on
	//   - bindingKey: the integer key identifying the bind group layout entry for this texture
	//   - stagingData: the TextureStagingData containing the raw texture data and metadata for creating the texture
	//
	// Returns:
	//   - error: an error if the texture view could not be created or initialized, otherwise nil
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a GPU sampler based on the provided staging data, and stores it on the given BindGroupProvider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - bindingKey: the integer key identifying the bind group layout entry for this sampler
	//   - stagingData: the SamplerStagingData containing the configuration for creating the sampler
	//
	// Returns:
	//   - error: an error if the sampler could not be created or initialized, otherwise nil
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	// Each BufferWrite targets a specific buffer on a BindGroupProvider at a given binding and offset.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next swapchain texture, creates a command encoder, and begins
	// the main render pass. Must be paired with EndFrame after all DrawCall invocations.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawCall encodes a single instanced draw command within the current render pass started by BeginFrame.
	// The provider's instance buffer, if any, is bound at vertex slot 1.
	//
	// Parameters:
	//   - p: the cached Pipeline containing the render pipeline to use
	//   - meshProvider: the BindGroupProvider holding vertex, index and instance buffers
	//   - firstInstance: the first instance to draw
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: a slice of BindGroupProviders whose BindGroups will be set on the render pass
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, firstInstance, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider)

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	// Must be called after BeginFrame and all DrawCall invocations.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: sampleCount,
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	limits := wgpu.DefaultLimits()

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// Create the MSAA texture that the render pass draws into; the resolved
		// result is written to the swapchain view as the ResolveTarget.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	} else {
		// No MSAA, the render pass draws directly to the swapchain view.
		b.msaaTextureView = nil
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	// Build the cached render pass descriptor for the main render target.
	// When MSAA is enabled, View is the MSAA texture and ResolveTarget is
	// set per-frame to the swapchain view. When disabled, View is set
	// per-frame to the swapchain view and ResolveTarget remains nil.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard // Don't store MSAA data, just resolve
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				ResolveTarget: nil,               // set per-frame when MSAA is on
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue: wgpu.Color{
					R: 0.1, G: 0.1, B: 0.1, A: 1.0,
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView, // Persistent until resize
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard, // Depth not needed after resolving
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if p.Shader(shader.ShaderTypeVertex) == nil || p.Shader(shader.ShaderTypeFragment) == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return fmt.Errorf("failed to create vertex module %q: %w", vertexShader.Key(), err)
	}
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return fmt.Errorf("failed to create fragment module %q: %w", fragmentShader.Key(), err)
	}

	merged := mergeBindGroupLayouts(vertexShader.BindGroupLayoutDescriptors(), fragmentShader.BindGroupLayoutDescriptors())
	groups, ok := pipelineLayoutGroups(merged)
	if !ok {
		return fmt.Errorf("pipeline %q declares non-contiguous bind groups %v", p.PipelineKey(), groups)
	}
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, len(groups))
	for _, g := range groups {
		desc := merged[g]
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return err
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets: []wgpu.ColorTargetState{
				func() wgpu.ColorTargetState {
					state := wgpu.ColorTargetState{
						Format:    *b.surfaceFormat,
						WriteMask: p.WriteMask(),
					}
					if p.BlendEnabled() {
						state.Blend = p.BlendState()
					}
					return state
				}(),
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: func() *wgpu.DepthStencilState {
			depthCompare := wgpu.CompareFunctionLess
			if !p.DepthTestEnabled() {
				depthCompare = wgpu.CompareFunctionAlways
			}
			return &wgpu.DepthStencilState{
				Format:              wgpu.TextureFormatDepth24Plus,
				DepthWriteEnabled:   p.DepthWriteEnabled(),
				DepthCompare:        depthCompare,
				DepthBias:           p.DepthBias(),
				DepthBiasSlopeScale: p.DepthBiasSlopeScale(),
				StencilFront: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
				StencilBack: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
			}
		}(),
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline %q: %w", p.PipelineKey(), err)
	}

	p.SetRenderPipeline(created)

	return nil
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            provider.Label() + " Vertex Buffer",
			Size:             uint64(len(vertexData)),
			Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			return err
		}
		b.queue.WriteBuffer(buf, 0, vertexData)
		provider.SetVertexBuffer(buf)
	}

	if len(indexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            provider.Label() + " Index Buffer",
			Size:             uint64(len(indexData)),
			Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			return err
		}
		b.queue.WriteBuffer(buf, 0, indexData)
		provider.SetIndexBuffer(buf)
	}

	provider.SetIndexCount(indexCount)

	return nil
}

func (b *wgpuRendererBackendImpl) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, stride uint64, capacity int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if stride == 0 || capacity <= 0 {
		return fmt.Errorf("instance buffer %q needs a positive stride and capacity", provider.Label())
	}

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Instance Buffer",
		Size:  stride * uint64(capacity),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	provider.SetInstanceBuffer(buf, stride)
	return nil
}

func (b *wgpuRendererBackendImpl) WriteInstanceBuffer(provider bind_group_provider.BindGroupProvider, offset uint64, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := provider.InstanceBuffer()
	if buf == nil || len(data) == 0 {
		return
	}
	b.queue.WriteBuffer(buf, offset, data)
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return nil
	}

	layout := provider.BindGroupLayout()
	if layout == nil {
		var err error
		layout, err = b.device.CreateBindGroupLayout(&descriptor)
		if err != nil {
			return err
		}
		provider.SetBindGroupLayout(layout)
	}

	bindGroupEntries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		isTexture := entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined
		isSampler := entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined

		if isTexture {
			tv := provider.TextureView(binding)
			if tv == nil {
				return fmt.Errorf("texture binding %d has no texture view, call InitTextureView first", binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding:     entry.Binding,
				TextureView: tv,
			}
		} else if isSampler {
			samp := provider.Sampler(binding)
			if samp == nil {
				return fmt.Errorf("sampler binding %d has no sampler, call InitSampler first", binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Sampler: samp,
			}
		} else {
			// Buffer binding, create if not already present
			var usage wgpu.BufferUsage
			switch entry.Buffer.Type {
			case wgpu.BufferBindingTypeUniform:
				usage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
			case wgpu.BufferBindingTypeStorage:
				usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
			case wgpu.BufferBindingTypeReadOnlyStorage:
				usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
			}
			if overrideUsage, ok := bufferUsageOverrides[binding]; ok {
				usage |= overrideUsage
			}

			buf := provider.Buffer(binding)
			if buf == nil {
				var bufErr error
				bufSize := entry.Buffer.MinBindingSize
				if overrideSize, ok := bufferSizeOverrides[binding]; ok {
					bufSize = overrideSize
				}
				buf, bufErr = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: provider.Label() + " Buffer",
					Size:  bufSize,
					Usage: usage,
				})
				if bufErr != nil {
					return bufErr
				}
				provider.SetBuffer(binding, buf)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: bindGroupEntries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)

	return nil
}

func (b *wgpuRendererBackendImpl) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     provider.Label() + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        textureFormat(stagingData),
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  stagingData.Width * 4,
			RowsPerImage: stagingData.Height,
		},
		&wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		return err
	}
	provider.SetTextureView(bindingKey, view)

	return nil
}

func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	magFilter := common.Coalesce(samplerStagingData.MagFilter, wgpu.FilterModeLinear)
	minFilter := common.Coalesce(samplerStagingData.MinFilter, wgpu.FilterModeLinear)
	mipmapFilter := common.Coalesce(samplerStagingData.MipmapFilter, wgpu.MipmapFilterModeLinear)
	if samplerStagingData.Nearest {
		magFilter, minFilter, mipmapFilter = wgpu.FilterModeNearest, wgpu.FilterModeNearest, wgpu.MipmapFilterModeNearest
	}

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " Sampler",
		AddressModeU:  common.Coalesce(samplerStagingData.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(samplerStagingData.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(samplerStagingData.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     magFilter,
		MinFilter:     minFilter,
		MipmapFilter:  mipmapFilter,
		LodMinClamp:   common.Coalesce(samplerStagingData.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(samplerStagingData.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(samplerStagingData.MaxAnisotropy, 1),
		Compare:       samplerStagingData.Compare,
	})
	if err != nil {
		return err
	}
	provider.SetSampler(bindingKey, samp)

	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Defensive: if a previous frame's surface texture is still held, avoid
	// attempting to acquire another one. This prevents wgpu-native validation
	// errors like "Surface image is already acquired" when frames overlap.
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	// When MSAA is enabled, the MSAA texture is the color attachment View and
	// the swapchain view is the ResolveTarget. When MSAA is off, the swapchain
	// view is the color attachment View directly and ResolveTarget is nil.
	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(
	p pipeline.Pipeline,
	meshProvider bind_group_provider.BindGroupProvider,
	firstInstance, instanceCount uint32,
	bindGroups []bind_group_provider.BindGroupProvider,
) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}

	b.framePass.SetPipeline(p.RenderPipeline())

	for i, bg := range bindGroups {
		b.framePass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}

	b.framePass.SetVertexBuffer(0, meshProvider.VertexBuffer(), 0, wgpu.WholeSize)
	if instances := meshProvider.InstanceBuffer(); instances != nil {
		b.framePass.SetVertexBuffer(1, instances, 0, wgpu.WholeSize)
	}
	b.framePass.SetIndexBuffer(meshProvider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(meshProvider.IndexCount()), instanceCount, 0, 0, firstInstance)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if b.frameSurface == nil {
		return
	}

	// Present the acquired surface image and release local references.
	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

// textureFormat picks a linear format for data textures such as glyph masks and an sRGB format for color images.
func textureFormat(stagingData common.TextureStagingData) wgpu.TextureFormat {
	if stagingData.Linear {
		return wgpu.TextureFormatRGBA8Unorm
	}
	return wgpu.TextureFormatRGBA8UnormSrgb
}
