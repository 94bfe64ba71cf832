package camera

// CameraController owns the positional state of a camera (position and target). The camera reads it on every
// Update and computes its matrices from it.
//
// The controller orbits its target on a sphere described by radius, azimuth and elevation, and can pan the
// target along the camera's local axes while keeping that orbit.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// SetTarget sets the look-at/pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// Zoom adjusts the orbit radius, clamped to the radius bounds. Positive delta zooms in.
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// Orbit rotates the camera around the target. Elevation is clamped to the elevation bounds.
	//
	// Parameters:
	//   - dAzimuth: change of the horizontal angle in radians
	//   - dElevation: change of the vertical angle in radians
	Orbit(dAzimuth, dElevation float32)

	// Pan moves target and position together along the camera's right and up axes.
	//
	// Parameters:
	//   - right: distance along the right axis, scaled by the pan speed
	//   - up: distance along the up axis, scaled by the pan speed
	Pan(right, up float32)

	// Update advances the automatic orbit, if one is configured.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// Radius returns the distance between position and target.
	Radius() float32

	// Azimuth returns the horizontal angle in radians, 0 facing down -Z from +Z.
	Azimuth() float32

	// Elevation returns the vertical angle above the horizontal plane in radians.
	Elevation() float32
}
