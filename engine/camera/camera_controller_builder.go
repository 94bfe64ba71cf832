package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*orbitController)

// WithRadius sets the initial orbit radius (distance from target).
//
// Parameters:
//   - radius: distance from the orbit target
//
// Returns:
//   - CameraControllerOption: functional option to set the radius
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *orbitController) {
		cc.radius = radius
	}
}

// WithAzimuth sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - azimuth: horizontal angle in radians (0 = +Z axis)
//
// Returns:
//   - CameraControllerOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(cc *orbitController) {
		cc.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle above the horizontal plane.
//
// Parameters:
//   - elevation: vertical angle in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the elevation
func WithElevation(elevation float32) CameraControllerOption {
	return func(cc *orbitController) {
		cc.elevation = elevation
	}
}

// WithTarget sets the initial look-at point.
//
// Parameters:
//   - x, y, z: world-space target position
//
// Returns:
//   - CameraControllerOption: functional option to set the target
func WithTarget(x, y, z float32) CameraControllerOption {
	return func(cc *orbitController) {
		cc.target = [3]float32{x, y, z}
	}
}

// WithRadiusBounds sets the minimum and maximum orbit radius.
//
// Parameters:
//   - min: minimum zoom distance
//   - max: maximum zoom distance
//
// Returns:
//   - CameraControllerOption: functional option to set radius bounds
func WithRadiusBounds(min, max float32) CameraControllerOption {
	return func(cc *orbitController) {
		cc.minRadius = min
		cc.maxRadius = max
	}
}

// WithElevationBounds sets the minimum and maximum elevation angles.
//
// Parameters:
//   - min: minimum vertical angle in radians
//   - max: maximum vertical angle in radians (keep below Pi/2 to avoid flipping over)
//
// Returns:
//   - CameraControllerOption: functional option to set elevation bounds
func WithElevationBounds(min, max float32) CameraControllerOption {
	return func(cc *orbitController) {
		cc.minElevation = min
		cc.maxElevation = max
	}
}

// WithZoomSpeed sets the zoom speed multiplier.
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *orbitController) {
		cc.zoomSpeed = speed
	}
}

// WithPanSpeed sets the pan speed multiplier.
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *orbitController) {
		cc.panSpeed = speed
	}
}

// WithAutoOrbit makes Update spin the camera around its target.
//
// Parameters:
//   - speed: azimuth change in radians per second, negative to spin the other way
//
// Returns:
//   - CameraControllerOption: functional option to set the automatic orbit speed
func WithAutoOrbit(speed float32) CameraControllerOption {
	return func(cc *orbitController) {
		cc.autoOrbit = speed
	}
}
