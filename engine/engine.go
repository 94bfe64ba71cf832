package engine

import (
	"log"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-vprof/engine/camera"
	"github.com/Carmen-Shannon/oxy-vprof/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vprof/engine/window"
)

// Layer is one independently updated and drawn part of a frame. The profiler overlay and the demo workloads
// are layers.
type Layer interface {
	// Active reports whether the layer takes part in the current frame.
	Active() bool

	// Update advances the layer's state. Called on the render goroutine before the frame begins.
	//
	// Parameters:
	//   - dt: seconds since the previous frame
	Update(dt float32)

	// Draw records the layer's draw calls into the open frame.
	//
	// Returns:
	//   - error: an error if a draw call could not be recorded
	Draw() error
}

// engine implements the Engine interface.
// Coordinates engine, render, and window threads.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	camera   camera.Camera

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	layers     map[int]Layer
	drawErrors map[int]string

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine.
// It orchestrates the engine loop, render loop, and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer frames are drawn with, or nil if none was configured.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Camera returns the camera updated each frame, or nil if none was configured.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for game logic and input processing.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each presented frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddLayer registers a layer at the given z-index key, replacing any layer already there.
	// Layers are updated and drawn in ascending key order.
	//
	// Parameters:
	//   - key: the z-index determining draw order (lower draws first)
	//   - l: the Layer to register
	AddLayer(key int, l Layer)

	// RemoveLayer removes the layer at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the layer to remove
	RemoveLayer(key int)

	// Layer retrieves the layer registered at the given z-index key.
	// Returns nil if no layer exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the layer to retrieve
	//
	// Returns:
	//   - Layer: the layer at the key, or nil if not found
	Layer(key int) Layer

	// Run starts the main engine loop (blocks until window closes).
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, layers, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		layers:          make(map[int]Layer),
		drawErrors:      make(map[int]string),
		running:         false,
		wg:              sync.WaitGroup{},
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Run() {
	e.running = true
	e.handle()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// resize reconfigures the surface and the camera aspect. A minimized window reports a zero size, which both ignore.
func (e *engine) resize(width, height int) {
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	if e.camera != nil && height > 0 {
		e.camera.SetAspect(float32(width) / float32(height))
	}
}

// handle launches the engine, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			e.renderFrame(dt)

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// renderFrame runs one frame: camera and layer updates, then a single render pass holding every active
// layer's draw calls. Layers still update when the surface is unavailable so their clocks keep running.
func (e *engine) renderFrame(dt float32) {
	if e.camera != nil {
		if ctrl := e.camera.Controller(); ctrl != nil {
			ctrl.Update(dt)
		}
		e.camera.Update()
	}

	keys, active := e.activeLayers()
	for _, l := range active {
		l.Update(dt)
	}

	if e.renderer == nil {
		return
	}
	if err := e.renderer.BeginFrame(); err != nil {
		return
	}
	for i, l := range active {
		e.reportDrawError(keys[i], l.Draw())
	}
	e.renderer.EndFrame()
	e.renderer.Present()
}

// activeLayers snapshots the active layers in ascending key order.
func (e *engine) activeLayers() ([]int, []Layer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]int, 0, len(e.layers))
	for k, l := range e.layers {
		if l.Active() {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	active := make([]Layer, len(keys))
	for i, k := range keys {
		active[i] = e.layers[k]
	}
	return keys, active
}

// reportDrawError logs a layer's draw error once until the layer draws cleanly again.
func (e *engine) reportDrawError(key int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err == nil {
		delete(e.drawErrors, key)
		return
	}
	if e.drawErrors[key] == err.Error() {
		return
	}
	e.drawErrors[key] = err.Error()
	log.Printf("layer %d draw failed: %v", key, err)
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddLayer(key int, l Layer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.layers[key] = l
}

func (e *engine) RemoveLayer(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.layers, key)
	delete(e.drawErrors, key)
}

func (e *engine) Layer(key int) Layer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layers[key]
}
