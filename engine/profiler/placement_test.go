package profiler

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

var fov45 = mgl32.DegToRad(45)

func assertVec3Near(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d: want %v, got %v", i, want, got)
	}
}

func TestWindowDistance(t *testing.T) {
	assert.InDelta(t, 16.0/45.0, windowDistance(fov45, 0.1), 1e-5)
	assert.InDelta(t, 1.25, windowDistance(fov45, 1), 1e-6)
	assert.InDelta(t, 0.35, windowDistance(0, 0.1), 1e-6)
}

func TestCenterAnchorAppliesNoOffsetOrTilt(t *testing.T) {
	w := newWindowPlacement()
	camPos := mgl32.Vec3{1, 2, 3}
	camRot := mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 1, 0})

	pos, rot := w.target(camPos, camRot, fov45, 0.1, AnchorMiddleCenter, mgl32.Vec2{0.1, 0.1})

	assert.True(t, rot.OrientationEqualThreshold(camRot, 1e-6), "got %v want %v", rot, camRot)
	forward := camRot.Rotate(mgl32.Vec3{0, 0, -1})
	want := camPos.Add(forward.Mul(windowDistance(fov45, 0.1)))
	assertVec3Near(t, want, pos, 1e-5)
}

func TestAnchorOffsets(t *testing.T) {
	w := newWindowPlacement()
	d := windowDistance(fov45, 0.1)
	offset := mgl32.Vec2{0.1, 0.05}

	tests := []struct {
		anchor Anchor
		want   mgl32.Vec3
	}{
		{AnchorUpperLeft, mgl32.Vec3{-0.1, 0.05, -d}},
		{AnchorUpperCenter, mgl32.Vec3{0, 0.05, -d}},
		{AnchorUpperRight, mgl32.Vec3{0.1, 0.05, -d}},
		{AnchorMiddleLeft, mgl32.Vec3{-0.1, 0, -d}},
		{AnchorMiddleRight, mgl32.Vec3{0.1, 0, -d}},
		{AnchorLowerLeft, mgl32.Vec3{-0.1, -0.05, -d}},
		{AnchorLowerCenter, mgl32.Vec3{0, -0.05, -d}},
		{AnchorLowerRight, mgl32.Vec3{0.1, -0.05, -d}},
	}
	for _, tt := range tests {
		t.Run(tt.anchor.String(), func(t *testing.T) {
			pos, _ := w.target(mgl32.Vec3{}, mgl32.QuatIdent(), fov45, 0.1, tt.anchor, offset)
			assertVec3Near(t, tt.want, pos, 1e-5)
		})
	}
}

func TestAnchorTiltFacesTheViewer(t *testing.T) {
	w := newWindowPlacement()
	for a := range anchorCount {
		if a == AnchorMiddleCenter {
			continue
		}
		t.Run(a.String(), func(t *testing.T) {
			pos, rot := w.target(mgl32.Vec3{}, mgl32.QuatIdent(), fov45, 0.1, a, mgl32.Vec2{0.1, 0.1})
			normal := rot.Rotate(mgl32.Vec3{0, 0, 1})
			toViewer := pos.Mul(-1).Normalize()

			// Tilted toward the viewer, the window normal points more directly at the camera than the straight one.
			assert.Greater(t, normal.Dot(toViewer), mgl32.Vec3{0, 0, 1}.Dot(toViewer))
		})
	}
}

func TestFollowInterpolatesAndClamps(t *testing.T) {
	w := newWindowPlacement()
	target := mgl32.Vec3{2, 0, 0}
	rot := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})

	w.follow(target, rot, 0)
	assert.Equal(t, mgl32.Vec3{}, w.position)

	w.follow(target, rot, 0.5)
	assert.InDelta(t, 1, w.position.X(), 1e-6)

	w.follow(target, rot, 10)
	assertVec3Near(t, target, w.position, 1e-6)
	assert.True(t, w.rotation.OrientationEqualThreshold(rot, 1e-5))
}

func TestWorldMatrix(t *testing.T) {
	w := newWindowPlacement()
	w.position = mgl32.Vec3{1, 2, 3}

	m := w.world(2)
	assert.Equal(t, mgl32.Vec4{1, 2, 3, 1}, m.Col(3))
	assert.InDelta(t, 2, m.At(0, 0), 1e-6)
}
