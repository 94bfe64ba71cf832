package profiler

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	windowDistanceFactor = 16.0
	nearClipMargin       = 0.25

	horizontalTiltDegrees = 20.0
	verticalTiltDegrees   = 10.0
)

// anchorPlacement describes one anchor. The signs select the camera right/up offsets;
// the tilt selectors pick the inverse (-1), no (0) or forward (+1) tilt quaternion.
type anchorPlacement struct {
	horizontal     float32
	vertical       float32
	horizontalTilt int
	verticalTilt   int
}

var anchorTable = [anchorCount]anchorPlacement{
	AnchorUpperLeft:    {-1, 1, -1, -1},
	AnchorUpperCenter:  {0, 1, -1, 0},
	AnchorUpperRight:   {1, 1, -1, 1},
	AnchorMiddleLeft:   {-1, 0, 0, -1},
	AnchorMiddleCenter: {0, 0, 0, 0},
	AnchorMiddleRight:  {1, 0, 0, 1},
	AnchorLowerLeft:    {-1, -1, 1, -1},
	AnchorLowerCenter:  {0, -1, 1, 0},
	AnchorLowerRight:   {1, -1, 1, 1},
}

// windowPlacement owns the smoothed overlay pose and computes its target from the camera.
type windowPlacement struct {
	position mgl32.Vec3
	rotation mgl32.Quat

	// tilts[0] is the inverse, tilts[1] identity, tilts[2] the forward rotation.
	horizontalTilts [3]mgl32.Quat
	verticalTilts   [3]mgl32.Quat
}

func newWindowPlacement() windowPlacement {
	// Negative angles turn the window's +Z face back toward a viewer looking down -Z.
	h := mgl32.QuatRotate(mgl32.DegToRad(-horizontalTiltDegrees), mgl32.Vec3{1, 0, 0})
	v := mgl32.QuatRotate(mgl32.DegToRad(-verticalTiltDegrees), mgl32.Vec3{0, 1, 0})
	return windowPlacement{
		rotation:        mgl32.QuatIdent(),
		horizontalTilts: [3]mgl32.Quat{h.Inverse(), mgl32.QuatIdent(), h},
		verticalTilts:   [3]mgl32.Quat{v.Inverse(), mgl32.QuatIdent(), v},
	}
}

// windowDistance keeps the window in front of the near plane while holding a roughly constant apparent size.
func windowDistance(fovRadians, near float32) float32 {
	minDistance := near + nearClipMargin
	fovDegrees := mgl32.RadToDeg(fovRadians)
	if fovDegrees <= 0 {
		return minDistance
	}
	return math32.Max(windowDistanceFactor/fovDegrees, minDistance)
}

// target computes the pose the window should settle at for the given camera.
func (w *windowPlacement) target(cameraPosition mgl32.Vec3, cameraRotation mgl32.Quat, fov, near float32, anchor Anchor, offset mgl32.Vec2) (mgl32.Vec3, mgl32.Quat) {
	a := anchorTable[anchor]

	forward := cameraRotation.Rotate(mgl32.Vec3{0, 0, -1})
	right := cameraRotation.Rotate(mgl32.Vec3{1, 0, 0})
	up := cameraRotation.Rotate(mgl32.Vec3{0, 1, 0})

	position := cameraPosition.
		Add(forward.Mul(windowDistance(fov, near))).
		Add(right.Mul(offset.X() * a.horizontal)).
		Add(up.Mul(offset.Y() * a.vertical))

	rotation := cameraRotation.
		Mul(w.horizontalTilts[a.horizontalTilt+1]).
		Mul(w.verticalTilts[a.verticalTilt+1])

	return position, rotation
}

// follow moves the current pose toward the target by t, clamped to [0, 1].
func (w *windowPlacement) follow(position mgl32.Vec3, rotation mgl32.Quat, t float32) {
	t = mgl32.Clamp(t, 0, 1)
	w.position = w.position.Add(position.Sub(w.position).Mul(t))

	if w.rotation.Dot(rotation) < 0 {
		rotation = rotation.Scale(-1)
	}
	w.rotation = mgl32.QuatSlerp(w.rotation, rotation, t).Normalize()
}

// world returns the window's local-to-world matrix.
func (w *windowPlacement) world(scale float32) mgl32.Mat4 {
	return mgl32.Translate3D(w.position.X(), w.position.Y(), w.position.Z()).
		Mul4(w.rotation.Mat4()).
		Mul4(mgl32.Scale3D(scale, scale, scale))
}
