package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-vprof/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	up [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	position             [3]float32
	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	controller CameraController
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and computes view/projection matrices
// from an attached CameraController each frame via Update().
type Camera interface {
	// Up returns the camera's up vector.
	//
	// Returns:
	//   - x, y, z: up vector components
	Up() (x, y, z float32)

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// Pose returns the world position and orientation of the camera as of the last Update.
	// The orientation maps -Z to the view direction and +Y to the view's up axis.
	//
	// Returns:
	//   - mgl32.Vec3: the camera position
	//   - mgl32.Quat: the camera orientation
	Pose() (mgl32.Vec3, mgl32.Quat)

	// Controller returns the attached CameraController.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// Update reads position/target from controller and recomputes matrices.
	// Should be called once per frame (typically in the tick callback).
	// If no controller is attached, this method does nothing.
	Update()

	// SetUp sets the camera's up vector.
	//
	// Parameters:
	//   - x, y, z: up vector components
	SetUp(x, y, z float32)

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	// Non-positive values are ignored, which happens while the window is minimized.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetController attaches a CameraController to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings.
// A controller must be attached via SetController or WithController option
// before position/target data is available.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		up:     [3]float32{0, 1, 0},
		fov:    45.0 * (math32.Pi / 180.0), // radians
		aspect: 1.0,
		near:   0.1,
		far:    100.0,
	}
	common.Identity(c.viewMatrix[:])
	common.Identity(c.projectionMatrix[:])
	common.Identity(c.viewProjectionMatrix[:])
	for _, option := range options {
		option(c)
	}
	if c.controller != nil {
		c.updateMatrices()
	}
	return c
}

func (c *cameraImpl) Up() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up[0], c.up[1], c.up[2]
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Pose() (mgl32.Vec3, mgl32.Quat) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// The view matrix rows are the camera's right, up and back axes.
	m := c.viewMatrix
	right := mgl32.Vec3{m[0], m[4], m[8]}
	up := mgl32.Vec3{m[1], m[5], m[9]}
	back := mgl32.Vec3{m[2], m[6], m[10]}
	rotation := mgl32.Mat4ToQuat(mgl32.Mat3FromCols(right, up, back).Mat4()).Normalize()
	return mgl32.Vec3(c.position), rotation
}

func (c *cameraImpl) SetUp(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 || math32.IsNaN(aspect) || math32.IsInf(aspect, 0) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// It reads position and target from the attached controller. This is a no-op when the controller is nil.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.controller == nil {
		return
	}

	px, py, pz := c.controller.Position()
	tx, ty, tz := c.controller.Target()
	c.position = [3]float32{px, py, pz}

	common.LookAt(c.viewMatrix[:], c.position, [3]float32{tx, ty, tz}, c.up)
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
