// Package instancing provides the point-mass field: thousands of small cubes drifting inside a sphere, updated
// in parallel on a worker pool and drawn with a single instanced draw call. It gives the profiler overlay a
// real CPU and GPU load to measure.
package instancing

import (
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-vprof/common"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer/pipeline"
	"github.com/go-gl/mathgl/mgl32"
)

// PipelineKey is the renderer cache key of the field's pipeline.
const PipelineKey = "point_mass_field"

// maxStep bounds the integration step so a stalled frame cannot carry instances far outside the sphere.
const maxStep = 0.1

// ViewProjectionSource supplies the camera matrix the field is drawn with. camera.Camera implements it.
type ViewProjectionSource interface {
	ViewProjectionMatrix() [16]float32
}

// PointMassField is a layer of independently moving instances contained in a sphere.
type PointMassField interface {
	// Active reports whether the field is updated and drawn.
	Active() bool

	// SetActive pauses or resumes the field.
	//
	// Parameters:
	//   - active: the new state
	SetActive(active bool)

	// Update integrates every instance over dt, spread across the worker pool. Returns once all instances
	// are updated.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// Draw uploads the instance data and records one instanced draw call. A field built without a renderer
	// draws nothing.
	//
	// Returns:
	//   - error: an error if the draw call could not be recorded
	Draw() error

	// Count returns the number of instances.
	Count() int

	// Reflections returns how many instances bounced off the containment sphere during the last Update.
	Reflections() int64

	// Release frees the field's GPU resources.
	Release()
}

// field is the implementation of the PointMassField interface.
type field struct {
	mu *sync.Mutex

	count     int
	radius    float32
	minSize   float32
	maxSize   float32
	seed      uint64
	workers   int
	chunkSize int

	active      atomic.Bool
	reflections atomic.Int64

	masses    []pointMass
	instances []instanceData
	pool      worker.DynamicWorkerPool

	renderer  renderer.Renderer
	view      ViewProjectionSource
	resources bind_group_provider.BindGroupProvider
	uniform   fieldUniform
}

var _ PointMassField = &field{}

// NewPointMassField spawns the instances and, when a renderer is configured, creates the cube mesh, the
// instance buffer and the pipeline. GPU setup failures are fatal, as elsewhere in the engine.
//
// Parameters:
//   - options: functional options to configure the field
//
// Returns:
//   - PointMassField: the new field, active
func NewPointMassField(options ...FieldBuilderOption) PointMassField {
	f := &field{
		mu:        &sync.Mutex{},
		count:     20000,
		radius:    3,
		minSize:   0.02,
		maxSize:   0.08,
		seed:      uint64(time.Now().UnixNano()),
		workers:   max(runtime.NumCPU()-1, 1),
		chunkSize: 1024,
	}
	for _, option := range options {
		option(f)
	}
	f.count = max(f.count, 0)
	f.chunkSize = max(f.chunkSize, 1)

	rng := rand.New(rand.NewPCG(f.seed, f.seed^0x9e3779b97f4a7c15))
	f.masses = make([]pointMass, f.count)
	f.instances = make([]instanceData, f.count)
	for i := range f.masses {
		m, color := spawnPointMass(rng, f.radius, f.minSize, f.maxSize)
		f.masses[i] = m
		f.instances[i] = instanceData{Model: m.transform(), Color: color}
	}

	f.pool = worker.NewDynamicWorkerPool(f.workers, 256, 1*time.Second)
	f.active.Store(true)

	if f.renderer != nil {
		if err := f.initGPU(); err != nil {
			panic(fmt.Sprintf("instancing: %v", err))
		}
	}
	return f
}

func (f *field) initGPU() error {
	f.resources = bind_group_provider.NewBindGroupProvider("Point Mass Field")

	vertices, indices := cubeMesh()
	if err := f.renderer.InitMeshBuffers(f.resources, common.SliceToBytes(vertices), common.SliceToBytes(indices), len(indices)); err != nil {
		return fmt.Errorf("failed to create cube mesh: %w", err)
	}
	if err := f.renderer.InitInstanceBuffer(f.resources, instanceStride, max(f.count, 1)); err != nil {
		return fmt.Errorf("failed to create instance buffer: %w", err)
	}
	if err := f.renderer.InitBindGroup(f.resources, uniformLayout(0), nil, nil); err != nil {
		return fmt.Errorf("failed to create field bind group: %w", err)
	}

	if f.renderer.Pipeline(PipelineKey) != nil {
		return nil
	}
	vs, fs := fieldShaders(PipelineKey)
	return f.renderer.RegisterPipelines(pipeline.NewPipeline(PipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	))
}

func (f *field) Active() bool {
	return f.active.Load()
}

func (f *field) SetActive(active bool) {
	f.active.Store(active)
}

func (f *field) Count() int {
	return f.count
}

func (f *field) Reflections() int64 {
	return f.reflections.Load()
}

func (f *field) Update(dt float32) {
	f.mu.Lock()
	defer f.mu.Unlock()

	dt = common.Clamp(dt, 0, maxStep)
	var reflections atomic.Int64

	// Workers are reused across frames; the WaitGroup is the per-frame barrier.
	var wg sync.WaitGroup
	taskID := 0
	for lo := 0; lo < f.count; lo += f.chunkSize {
		hi := min(lo+f.chunkSize, f.count)
		masses := f.masses[lo:hi]
		instances := f.instances[lo:hi]
		radius := f.radius

		wg.Add(1)
		f.pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				var local int64
				for i := range masses {
					if masses[i].step(dt, radius) {
						local++
					}
					instances[i].Model = masses[i].transform()
				}
				reflections.Add(local)
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()

	f.reflections.Store(reflections.Load())
}

func (f *field) Draw() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.renderer == nil || f.resources == nil || f.count == 0 {
		return nil
	}

	f.uniform.ViewProj = f.view.ViewProjectionMatrix()
	f.uniform.LightDir = mgl32.Vec4{-0.4, -1, -0.3, 0}
	f.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: f.resources,
		Binding:  0,
		Data:     common.StructToBytes(&f.uniform),
	}})
	f.renderer.WriteInstanceBuffer(f.resources, 0, common.SliceToBytes(f.instances))

	return f.renderer.DrawCall(PipelineKey, f.resources, uint32(f.count), []bind_group_provider.BindGroupProvider{f.resources})
}

func (f *field) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resources != nil {
		f.resources.Release()
		f.resources = nil
	}
}
