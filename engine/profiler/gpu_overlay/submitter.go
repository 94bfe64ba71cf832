// Package gpu_overlay draws the profiler overlay through the engine renderer: one quad mesh, one per-instance
// buffer holding every slot, and the glyph atlas as the only texture.
package gpu_overlay

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-vprof/common"
	"github.com/Carmen-Shannon/oxy-vprof/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineKey is the renderer cache key of the overlay pipeline.
const PipelineKey = "profiler_overlay"

// ErrNotInitialized is returned when drawing through a released submitter.
var ErrNotInitialized = errors.New("gpu_overlay: submitter is not initialized")

// ViewProjectionSource supplies the camera matrix the overlay is projected with. camera.Camera implements it.
type ViewProjectionSource interface {
	ViewProjectionMatrix() [16]float32
}

// submitter is the implementation of profiler.Submitter backed by the engine renderer.
type submitter struct {
	mu *sync.Mutex

	renderer renderer.Renderer
	view     ViewProjectionSource

	pipeline  pipeline.Pipeline
	resources bind_group_provider.BindGroupProvider
	uniform   overlayUniform
}

var _ profiler.Submitter = &submitter{}

// NewSubmitter creates the overlay's GPU resources and registers its pipeline with the renderer.
// The atlas must be the same one handed to the profiler so texture regions line up.
//
// Parameters:
//   - r: the renderer to draw through
//   - view: the source of the view-projection matrix, typically the camera
//   - atlas: the glyph atlas to upload
//
// Returns:
//   - profiler.Submitter: the submitter, to be passed to profiler.WithSubmitter
//   - error: an error if any GPU resource could not be created
func NewSubmitter(r renderer.Renderer, view ViewProjectionSource, atlas *profiler.GlyphAtlas) (profiler.Submitter, error) {
	s := &submitter{
		mu:        &sync.Mutex{},
		renderer:  r,
		view:      view,
		resources: bind_group_provider.NewBindGroupProvider("Profiler Overlay"),
	}

	if err := s.init(atlas); err != nil {
		s.resources.Release()
		return nil, err
	}
	return s, nil
}

func (s *submitter) init(atlas *profiler.GlyphAtlas) error {
	if err := s.renderer.InitMeshBuffers(s.resources, common.SliceToBytes(quadVertices), common.SliceToBytes(quadIndices), len(quadIndices)); err != nil {
		return fmt.Errorf("failed to create overlay quad: %w", err)
	}
	if err := s.renderer.InitInstanceBuffer(s.resources, profiler.SlotStride, profiler.SlotCount); err != nil {
		return fmt.Errorf("failed to create overlay instance buffer: %w", err)
	}
	if err := s.renderer.InitTextureView(s.resources, 1, common.TextureStagingDataFromRGBA(atlas.Image(), true)); err != nil {
		return fmt.Errorf("failed to upload glyph atlas: %w", err)
	}
	if err := s.renderer.InitSampler(s.resources, 2, nearestSampler()); err != nil {
		return fmt.Errorf("failed to create atlas sampler: %w", err)
	}
	if err := s.renderer.InitBindGroup(s.resources, bindGroupDescriptor(), nil, nil); err != nil {
		return fmt.Errorf("failed to create overlay bind group: %w", err)
	}

	if p := s.renderer.Pipeline(PipelineKey); p != nil {
		s.pipeline = p
		return nil
	}

	vs := shader.NewShader(PipelineKey+"_vs", shader.ShaderTypeVertex, overlaySource,
		shader.WithVertexLayouts(quadLayout(), slotLayout()),
		shader.WithBindGroupLayout(0, stageDescriptor(uniformEntry(0))),
	)
	fs := shader.NewShader(PipelineKey+"_fs", shader.ShaderTypeFragment, overlaySource,
		shader.WithBindGroupLayout(0, stageDescriptor(append([]wgpu.BindGroupLayoutEntry{uniformEntry(0)}, atlasEntries()...)...)),
	)
	p := pipeline.NewPipeline(PipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithOverlay(),
	)
	if err := s.renderer.RegisterPipelines(p); err != nil {
		return fmt.Errorf("failed to register overlay pipeline: %w", err)
	}
	s.pipeline = p
	return nil
}

func (s *submitter) SupportsInstancing() bool {
	return s.renderer.SupportsInstancing()
}

func (s *submitter) Upload(params profiler.OverlayParams, slots []profiler.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pipeline == nil {
		return ErrNotInitialized
	}

	s.uniform.ViewProj = s.view.ViewProjectionMatrix()
	s.uniform.Window = params.World
	s.uniform.BaseColor = params.BaseColor
	s.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: s.resources,
		Binding:  0,
		Data:     common.StructToBytes(&s.uniform),
	}})

	if slots != nil {
		if len(slots) > profiler.SlotCount {
			return fmt.Errorf("overlay upload of %d slots exceeds capacity %d", len(slots), profiler.SlotCount)
		}
		s.renderer.WriteInstanceBuffer(s.resources, 0, common.SliceToBytes(slots))
	}
	return nil
}

func (s *submitter) DrawBatch(count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pipeline == nil {
		return ErrNotInitialized
	}
	return s.renderer.DrawCall(PipelineKey, s.resources, uint32(count), []bind_group_provider.BindGroupProvider{s.resources})
}

func (s *submitter) DrawSlot(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pipeline == nil {
		return ErrNotInitialized
	}
	return s.renderer.DrawCallRange(PipelineKey, s.resources, uint32(index), 1, []bind_group_provider.BindGroupProvider{s.resources})
}

// Release frees the overlay's buffers, texture and bind group. The pipeline stays cached in the renderer
// so a later submitter can reuse it.
func (s *submitter) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resources.Release()
	s.pipeline = nil
}
