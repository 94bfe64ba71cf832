package profiler

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Slot is one renderable quad. The layout matches the per-instance vertex buffer: four matrix columns,
// then color, then the texture region as (offset.x, offset.y, scale.x, scale.y).
type Slot struct {
	Transform mgl32.Mat4
	Color     mgl32.Vec4
	UV        mgl32.Vec4
}

// SlotStride is the size of a Slot in bytes.
const SlotStride = 96

// Degenerate reports whether the slot has a zeroed transform and therefore renders nothing.
func (s Slot) Degenerate() bool {
	return s.Transform == mgl32.Mat4{}
}

// InstanceTable is the fixed set of slots that make up the overlay.
// Slots are never added or removed; hiding a slot zeroes its transform.
type InstanceTable struct {
	slots [SlotCount]Slot
	dirty bool
}

// Slots returns a view of every slot in draw order.
func (t *InstanceTable) Slots() []Slot {
	return t.slots[:]
}

// Slot returns a copy of slot i.
func (t *InstanceTable) Slot(i int) Slot {
	return t.slots[i]
}

// Dirty reports whether any slot changed since the last clearDirty.
func (t *InstanceTable) Dirty() bool {
	return t.dirty
}

func (t *InstanceTable) clearDirty() {
	t.dirty = false
}

func (t *InstanceTable) set(i int, s Slot) {
	t.slots[i] = s
	t.dirty = true
}

func (t *InstanceTable) setTransform(i int, m mgl32.Mat4) {
	t.slots[i].Transform = m
	t.dirty = true
}

func (t *InstanceTable) setColor(i int, c mgl32.Vec4) {
	t.slots[i].Color = c
	t.dirty = true
}

// setText lays out text on the glyph run of field, one slot per character.
// Right-aligned runs are written last character first, moving left. Unused slots of the run are zeroed.
func (t *InstanceTable) setText(field textField, text []byte, color mgl32.Vec4, atlas *GlyphAtlas) {
	if len(text) > field.slots.count {
		panic("profiler: text longer than its glyph run")
	}

	step := glyphSize.X()
	if field.rightAligned {
		step = -step
	}
	pen := field.position
	pen[1] -= glyphSize.Y() * 0.5
	pen[0] += step * 0.5

	for i := 0; i < field.slots.count; i++ {
		idx := field.slots.index(i)
		if i >= len(text) {
			t.slots[idx].Transform = mgl32.Mat4{}
			continue
		}

		c := text[i]
		if field.rightAligned {
			c = text[len(text)-i-1]
		}
		t.slots[idx] = Slot{
			Transform: trs(pen, glyphSize),
			Color:     color,
			UV:        atlas.GlyphUV(c),
		}
		pen[0] += step
	}
	t.dirty = true
}

// clearText zeroes every slot of a text run.
func (t *InstanceTable) clearText(field textField) {
	for i := field.slots.start; i < field.slots.end(); i++ {
		t.slots[i].Transform = mgl32.Mat4{}
	}
	t.dirty = true
}
