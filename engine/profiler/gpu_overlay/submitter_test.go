package gpu_overlay

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-vprof/common"
	"github.com/Carmen-Shannon/oxy-vprof/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawRecord struct {
	first, count uint32
}

// fakeRenderer records the calls the submitter makes. Methods the submitter never calls panic through the
// nil embedded interface.
type fakeRenderer struct {
	renderer.Renderer

	instancing     bool
	failBindGroup  bool
	registered     []pipeline.Pipeline
	textures       map[int]common.TextureStagingData
	instanceStride uint64
	instanceCap    int
	uniformWrites  [][]byte
	instanceWrites [][]byte
	draws          []drawRecord
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{instancing: true, textures: map[int]common.TextureStagingData{}}
}

func (f *fakeRenderer) SupportsInstancing() bool { return f.instancing }

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline {
	for _, p := range f.registered {
		if p.PipelineKey() == key {
			return p
		}
	}
	return nil
}

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	f.registered = append(f.registered, pipelines...)
	return nil
}

func (f *fakeRenderer) InitMeshBuffers(p bind_group_provider.BindGroupProvider, _, _ []byte, indexCount int) error {
	p.SetIndexCount(indexCount)
	return nil
}

func (f *fakeRenderer) InitInstanceBuffer(_ bind_group_provider.BindGroupProvider, stride uint64, capacity int) error {
	f.instanceStride = stride
	f.instanceCap = capacity
	return nil
}

func (f *fakeRenderer) InitTextureView(_ bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error {
	f.textures[binding] = data
	return nil
}

func (f *fakeRenderer) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (f *fakeRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]wgpu.BufferUsage, map[int]uint64) error {
	if f.failBindGroup {
		return errors.New("device lost")
	}
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		f.uniformWrites = append(f.uniformWrites, append([]byte(nil), w.Data...))
	}
}

func (f *fakeRenderer) WriteInstanceBuffer(_ bind_group_provider.BindGroupProvider, _ uint64, data []byte) {
	f.instanceWrites = append(f.instanceWrites, append([]byte(nil), data...))
}

func (f *fakeRenderer) DrawCall(key string, mesh bind_group_provider.BindGroupProvider, count uint32, groups []bind_group_provider.BindGroupProvider) error {
	return f.DrawCallRange(key, mesh, 0, count, groups)
}

func (f *fakeRenderer) DrawCallRange(_ string, _ bind_group_provider.BindGroupProvider, first, count uint32, _ []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, drawRecord{first, count})
	return nil
}

type fixedView struct{}

func (fixedView) ViewProjectionMatrix() [16]float32 {
	return mgl32.Ident4()
}

func TestGPULayoutsMatchSlot(t *testing.T) {
	assert.Equal(t, uintptr(overlayUniformSize), unsafe.Sizeof(overlayUniform{}))
	assert.Equal(t, uintptr(quadVertexStride), unsafe.Sizeof(quadVertex{}))
	assert.Equal(t, uintptr(profiler.SlotStride), unsafe.Sizeof(profiler.Slot{}))

	layout := slotLayout()
	assert.Equal(t, wgpu.VertexStepModeInstance, layout.StepMode)
	require.Len(t, layout.Attributes, 6)
	for i, a := range layout.Attributes {
		assert.Equal(t, uint32(2+i), a.ShaderLocation)
		assert.Equal(t, uint64(16*i), a.Offset)
	}
}

func TestNewSubmitterRegistersPipelineOnce(t *testing.T) {
	r := newFakeRenderer()
	atlas := profiler.NewGlyphAtlas()

	first, err := NewSubmitter(r, fixedView{}, atlas)
	require.NoError(t, err)
	_, err = NewSubmitter(r, fixedView{}, atlas)
	require.NoError(t, err)

	require.Len(t, r.registered, 1)
	assert.Equal(t, PipelineKey, r.registered[0].PipelineKey())
	assert.True(t, r.registered[0].BlendEnabled())
	assert.False(t, r.registered[0].DepthTestEnabled())

	assert.Equal(t, uint64(profiler.SlotStride), r.instanceStride)
	assert.Equal(t, profiler.SlotCount, r.instanceCap)
	assert.True(t, r.textures[1].Linear)
	assert.Equal(t, uint32(atlas.Image().Bounds().Dx()), r.textures[1].Width)
	assert.True(t, first.SupportsInstancing())
}

func TestNewSubmitterFailure(t *testing.T) {
	r := newFakeRenderer()
	r.failBindGroup = true

	s, err := NewSubmitter(r, fixedView{}, profiler.NewGlyphAtlas())
	assert.Nil(t, s)
	assert.ErrorContains(t, err, "device lost")
}

func TestUploadAndDraw(t *testing.T) {
	r := newFakeRenderer()
	s, err := NewSubmitter(r, fixedView{}, profiler.NewGlyphAtlas())
	require.NoError(t, err)

	slots := make([]profiler.Slot, profiler.SlotCount)
	require.NoError(t, s.Upload(profiler.OverlayParams{World: mgl32.Ident4()}, slots))
	require.NoError(t, s.Upload(profiler.OverlayParams{World: mgl32.Ident4()}, nil))

	assert.Len(t, r.uniformWrites, 2)
	assert.Len(t, r.uniformWrites[0], overlayUniformSize)
	require.Len(t, r.instanceWrites, 1, "unchanged slots are not re-uploaded")
	assert.Len(t, r.instanceWrites[0], profiler.SlotCount*profiler.SlotStride)

	assert.Error(t, s.Upload(profiler.OverlayParams{}, make([]profiler.Slot, profiler.SlotCount+1)))

	require.NoError(t, s.DrawBatch(profiler.SlotCount))
	require.NoError(t, s.DrawSlot(42))
	assert.Equal(t, []drawRecord{{0, profiler.SlotCount}, {42, 1}}, r.draws)

	s.Release()
	assert.ErrorIs(t, s.DrawBatch(1), ErrNotInitialized)
	assert.ErrorIs(t, s.DrawSlot(0), ErrNotInitialized)
	assert.ErrorIs(t, s.Upload(profiler.OverlayParams{}, nil), ErrNotInitialized)
}
