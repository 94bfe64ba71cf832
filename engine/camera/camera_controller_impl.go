package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-vprof/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// orbitController is the implementation of CameraController.
type orbitController struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3

	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	zoomSpeed float32
	panSpeed  float32
	autoOrbit float32
}

var _ CameraController = &orbitController{}

// NewOrbitController creates a controller orbiting the origin at a distance of 8, slightly above the horizon.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewOrbitController(options ...CameraControllerOption) CameraController {
	cc := &orbitController{
		mu: &sync.Mutex{},

		radius:    8,
		elevation: math32.Pi / 12,

		minRadius:    1,
		maxRadius:    100,
		minElevation: -math32.Pi/2 + 0.1,
		maxElevation: math32.Pi/2 - 0.1,

		zoomSpeed: 0.5,
		panSpeed:  1,
	}
	for _, option := range options {
		option(cc)
	}

	cc.radius = common.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = common.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
	return cc
}

// updatePosition recomputes the position from the spherical coordinates. Caller must hold the mutex.
func (cc *orbitController) updatePosition() {
	sinElev, cosElev := math32.Sincos(cc.elevation)
	sinAzim, cosAzim := math32.Sincos(cc.azimuth)
	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

// localAxes returns the right and up axes consistent with common.LookAt and a +Y world up.
// Caller must hold the mutex.
func (cc *orbitController) localAxes() (right, up mgl32.Vec3) {
	back := common.Normalize3(common.Sub3(cc.position, cc.target))
	right = common.Normalize3(common.Cross3([3]float32{0, 1, 0}, back))
	up = common.Cross3(back, right)
	return right, up
}

func (cc *orbitController) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position.Elem()
}

func (cc *orbitController) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target.Elem()
}

func (cc *orbitController) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = mgl32.Vec3{x, y, z}
	cc.updatePosition()
}

func (cc *orbitController) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = common.Clamp(cc.radius-delta*cc.zoomSpeed, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *orbitController) Orbit(dAzimuth, dElevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.orbit(dAzimuth, dElevation)
}

// orbit applies an angular step. Caller must hold the mutex.
func (cc *orbitController) orbit(dAzimuth, dElevation float32) {
	cc.azimuth = math32.Mod(cc.azimuth+dAzimuth, 2*math32.Pi)
	cc.elevation = common.Clamp(cc.elevation+dElevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *orbitController) Pan(right, up float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	r, u := cc.localAxes()
	offset := r.Mul(right * cc.panSpeed).Add(u.Mul(up * cc.panSpeed))
	cc.target = cc.target.Add(offset)
	cc.position = cc.position.Add(offset)
}

func (cc *orbitController) Update(dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.autoOrbit == 0 || dt <= 0 {
		return
	}
	cc.orbit(cc.autoOrbit*dt, 0)
}

func (cc *orbitController) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *orbitController) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *orbitController) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}
