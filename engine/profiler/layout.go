package profiler

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Field identifies one of the overlay's text runs.
type Field int

const (
	FieldCPUFrameRate Field = iota
	FieldGPUFrameRate
	FieldDrawPass
	FieldVertices
	FieldUsedMemory
	FieldPeakMemory
	FieldLimitMemory

	fieldCount
)

var fieldNames = [fieldCount]string{"cpu", "gpu", "draw_pass", "vertices", "used", "peak", "limit"}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

const (
	// FrameRange is the depth of the frame-rate history strip.
	FrameRange = 30

	// SlotCount is the fixed number of instance slots: backplate, history strip, three memory bars and seven text runs.
	SlotCount = 1 + FrameRange + 3 + int(fieldCount)*MaxStringLength
)

// Window-local geometry. The window is 0.2 x 0.04 units before scaling.
var (
	windowSize = mgl32.Vec3{0.2, 0.04, 1}
	edgeX      = windowSize.X() * 0.5

	// glyphSize is the world size of one character cell.
	glyphSize = mgl32.Vec3{16 * 0.00023, 30 * 0.00028, 1}

	frameStripY = float32(0.008)
	frameCell   = windowSize.X() / FrameRange

	memoryBarY         = float32(-0.0075)
	memoryBarFootprint = mgl32.Vec3{windowSize.X() * 0.99, windowSize.Y() * 0.15, 1}
)

// slotRange is a contiguous run of slots in the instance table.
type slotRange struct {
	start int
	count int
}

// index returns the absolute slot index of the i-th slot in the range.
func (r slotRange) index(i int) int {
	if i < 0 || i >= r.count {
		panic(fmt.Sprintf("profiler: slot %d outside range of %d", i, r.count))
	}
	return r.start + i
}

func (r slotRange) end() int {
	return r.start + r.count
}

// textField is the immutable placement of one text run.
type textField struct {
	slots        slotRange
	position     mgl32.Vec3
	rightAligned bool
}

// layout maps every overlay region to its slots. It is built once and never mutated.
type layout struct {
	backplate slotRange
	frames    slotRange
	limitBar  slotRange
	peakBar   slotRange
	usedBar   slotRange
	text      [fieldCount]textField
}

func newLayout() layout {
	next := 0
	take := func(n int) slotRange {
		r := slotRange{start: next, count: n}
		next += n
		return r
	}

	l := layout{
		backplate: take(1),
		frames:    take(FrameRange),
		limitBar:  take(1),
		peakBar:   take(1),
		usedBar:   take(1),
	}

	placements := [fieldCount]struct {
		position     mgl32.Vec3
		rightAligned bool
	}{
		FieldCPUFrameRate: {mgl32.Vec3{-edgeX, 0.02, 0}, false},
		FieldGPUFrameRate: {mgl32.Vec3{edgeX, 0.02, 0}, true},
		FieldDrawPass:     {mgl32.Vec3{-edgeX, 0.0045, 0}, false},
		FieldVertices:     {mgl32.Vec3{edgeX, 0.0045, 0}, true},
		FieldUsedMemory:   {mgl32.Vec3{-edgeX, -0.011, 0}, false},
		FieldPeakMemory:   {mgl32.Vec3{-0.03, -0.011, 0}, false},
		FieldLimitMemory:  {mgl32.Vec3{edgeX, -0.011, 0}, true},
	}
	for f := range fieldCount {
		l.text[f] = textField{
			slots:        take(MaxStringLength),
			position:     placements[f].position,
			rightAligned: placements[f].rightAligned,
		}
	}

	if next != SlotCount {
		panic(fmt.Sprintf("profiler: layout covers %d slots, want %d", next, SlotCount))
	}
	return l
}

// frameCellTransform places history cell i. Cell 0 holds the newest sample and sits at the right edge.
func frameCellTransform(i int) mgl32.Mat4 {
	x := edgeX - frameCell*0.5 - float32(i)*frameCell
	return trs(mgl32.Vec3{x, frameStripY, 0}, mgl32.Vec3{frameCell * 0.8, frameCell * 0.8, 1})
}

// memoryBarTransform returns a bar anchored at the window's left edge whose width is fill times the bar footprint.
// A fill of 0 yields the zero matrix so the bar is not drawn.
func memoryBarTransform(fill float32) mgl32.Mat4 {
	if fill <= 0 {
		return mgl32.Mat4{}
	}
	fill = min(fill, 1)
	width := memoryBarFootprint.X() * fill
	x := -memoryBarFootprint.X()*0.5 + width*0.5
	return trs(mgl32.Vec3{x, memoryBarY, 0}, mgl32.Vec3{width, memoryBarFootprint.Y(), 1})
}

// trs composes a translation and scale with identity rotation.
func trs(position, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}
