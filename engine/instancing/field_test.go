package instancing

import (
	"math/rand/v2"
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnPointMass(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 1000 {
		p, color := spawnPointMass(rng, 3, 0.02, 0.08)

		assert.LessOrEqual(t, p.position.Len(), float32(3.0001))
		assert.GreaterOrEqual(t, p.size, float32(0.02))
		assert.LessOrEqual(t, p.size, float32(0.08))
		assert.GreaterOrEqual(t, p.mass, float32(0))
		assert.Less(t, p.mass, float32(1))
		assert.InDelta(t, (1-p.mass)*0.2, p.velocity.Len(), 1e-5)
		assert.Equal(t, float32(1), color.W())
	}
}

func TestStepReflectsOncePerExit(t *testing.T) {
	p := pointMass{position: mgl32.Vec3{0.95, 0, 0}, velocity: mgl32.Vec3{1, 0, 0}}

	assert.True(t, p.step(0.1, 1), "first step outside reflects")
	assert.True(t, p.reflecting)
	assert.InDelta(t, -1, p.velocity.X(), 1e-5)
	assert.InDelta(t, 0, p.velocity.Y(), 1e-5)

	// Still outside after moving back in a little: the latch prevents a second flip.
	p.position = mgl32.Vec3{1.01, 0, 0}
	assert.False(t, p.step(0.001, 1))
	assert.InDelta(t, -1, p.velocity.X(), 1e-5)

	p.position = mgl32.Vec3{0.5, 0, 0}
	assert.False(t, p.step(0.001, 1))
	assert.False(t, p.reflecting, "re-entering clears the latch")
}

func TestTransformOrientsAlongVelocity(t *testing.T) {
	p := pointMass{position: mgl32.Vec3{1, 2, 3}, velocity: mgl32.Vec3{0, 0.3, 0}, size: 0.5}
	m := p.transform()

	assert.Equal(t, mgl32.Vec3{1, 2, 3}, m.Col(3).Vec3())
	forward := m.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
	assert.InDelta(t, 0, forward.X(), 1e-5, "got %v", forward)
	assert.InDelta(t, 0.5, forward.Y(), 1e-5, "got %v", forward)
	assert.InDelta(t, 0, forward.Z(), 1e-5, "got %v", forward)
}

func TestHSVToRGB(t *testing.T) {
	assert.Equal(t, mgl32.Vec4{0.5, 0, 0, 1}, hsvToRGB(1, 1, 0.5))
	assert.Equal(t, mgl32.Vec4{0.5, 0, 0, 1}, hsvToRGB(0, 1, 0.5))
	c := hsvToRGB(0.6, 1, 0.5)
	assert.Greater(t, c.Z(), c.X())
	assert.Greater(t, c.Z(), c.Y())
}

func TestCubeMeshWinding(t *testing.T) {
	vertices, indices := cubeMesh()
	require.Len(t, vertices, 24)
	require.Len(t, indices, 36)

	for i := 0; i < len(indices); i += 3 {
		a, b, c := vertices[indices[i]], vertices[indices[i+1]], vertices[indices[i+2]]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		assert.Greater(t, n.Dot(a.Normal), float32(0), "triangle %d faces outwards", i/3)
	}
	assert.Equal(t, uintptr(cubeVertexStride), unsafe.Sizeof(cubeVertex{}))
	assert.Equal(t, uintptr(instanceStride), unsafe.Sizeof(instanceData{}))
	assert.Equal(t, uintptr(fieldUniformSize), unsafe.Sizeof(fieldUniform{}))
}

func TestFieldUpdateStaysContained(t *testing.T) {
	f := NewPointMassField(WithCount(3000), WithSeed(7), WithWorkers(4), WithChunkSize(256)).(*field)
	require.Equal(t, 3000, f.Count())

	var total int64
	for range 200 {
		f.Update(0.1)
		total += f.Reflections()
	}
	assert.Positive(t, total)

	for i, m := range f.masses {
		assert.LessOrEqual(t, m.position.Len(), float32(3.021), "instance %d escaped", i)
		assert.Equal(t, m.position, f.instances[i].Model.Col(3).Vec3())
	}
}

func TestFieldIsDeterministicForASeed(t *testing.T) {
	a := NewPointMassField(WithCount(100), WithSeed(42)).(*field)
	b := NewPointMassField(WithCount(100), WithSeed(42)).(*field)
	a.Update(0.05)
	b.Update(0.05)
	assert.Equal(t, a.masses, b.masses)
	assert.Equal(t, a.instances, b.instances)
}

func TestFieldWithoutRendererDrawsNothing(t *testing.T) {
	f := NewPointMassField(WithCount(10))
	assert.NoError(t, f.Draw())
	f.SetActive(false)
	assert.False(t, f.Active())
	f.Release()
}

type fakeRenderer struct {
	renderer.Renderer

	registered     []pipeline.Pipeline
	instanceStride uint64
	instanceWrites int
	drawn          uint32
}

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

func (f *fakeRenderer) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}

func (f *fakeRenderer) InitInstanceBuffer(_ bind_group_provider.BindGroupProvider, stride uint64, _ int) error {
	f.instanceStride = stride
	return nil
}

func (f *fakeRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]wgpu.BufferUsage, map[int]uint64) error {
	return nil
}

func (f *fakeRenderer) WriteBuffers([]bind_group_provider.BufferWrite) {}

func (f *fakeRenderer) WriteInstanceBuffer(bind_group_provider.BindGroupProvider, uint64, []byte) {
	f.instanceWrites++
}

func (f *fakeRenderer) DrawCall(_ string, _ bind_group_provider.BindGroupProvider, count uint32, _ []bind_group_provider.BindGroupProvider) error {
	f.drawn = count
	return nil
}

type identityView struct{}

func (identityView) ViewProjectionMatrix() [16]float32 { return mgl32.Ident4() }

func TestFieldDrawsOneInstancedCall(t *testing.T) {
	r := &fakeRenderer{}
	f := NewPointMassField(WithCount(500), WithSeed(1), WithRenderer(r, identityView{}))
	NewPointMassField(WithCount(10), WithRenderer(r, identityView{}))

	require.Len(t, r.registered, 1, "pipeline is shared between fields")
	assert.Equal(t, uint64(instanceStride), r.instanceStride)

	require.NoError(t, f.Draw())
	assert.Equal(t, uint32(500), r.drawn)
	assert.Equal(t, 1, r.instanceWrites)
}
