package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in, negative = down/zoom out)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetDragCallback sets the callback for mouse movement while the left button is held.
	//
	// Parameters:
	//   - callback: function receiving the cursor movement in pixels since the previous event
	SetDragCallback(callback func(dx, dy float32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// RefreshRate returns the refresh rate of the monitor the window opened on, sampled at creation.
	//
	// Returns:
	//   - int: the refresh rate in Hz, or 0 if the platform does not report one
	RefreshRate() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// Resize limits, 0 for unbounded.
	minWidth, minHeight int
	maxWidth, maxHeight int

	// width is the current window client area width in pixels.
	width int

	// height is the current window client area height in pixels.
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onResize is called when the window is resized.
	onResize func(width, height int)

	// onScroll is called for mouse wheel events.
	// Positive delta = scroll up (zoom in), negative = scroll down (zoom out).
	onScroll func(delta float32)

	// onKeyDown is called when a key is pressed.
	onKeyDown func(keyCode uint32)

	// onKeyUp is called when a key is released.
	onKeyUp func(keyCode uint32)

	// onDrag is called when the mouse moves with the left button held.
	onDrag func(dx, dy float32)

	// refreshRate is the monitor refresh rate in Hz, 0 if unknown.
	refreshRate int

	// refreshRateOverride replaces the sampled refresh rate when > 0.
	refreshRateOverride int
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window (not yet spawned)
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:     "Oxy",
		minWidth:  320,
		minHeight: 180,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetDragCallback(callback func(dx, dy float32)) {
	w.onDrag = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) RefreshRate() int {
	return w.refreshRate
}
