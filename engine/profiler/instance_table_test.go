package profiler

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

var testAtlas = NewGlyphAtlas()

// glyphAt returns the character whose texture region equals uv, or 0 if none does.
func glyphAt(a *GlyphAtlas, uv mgl32.Vec4) byte {
	for c := byte(atlasFirstChar); c <= '~'; c++ {
		if a.GlyphUV(c) == uv {
			return c
		}
	}
	return 0
}

func readRun(table *InstanceTable, field textField) string {
	var out []byte
	for i := field.slots.start; i < field.slots.end(); i++ {
		s := table.Slot(i)
		if s.Degenerate() {
			break
		}
		out = append(out, glyphAt(testAtlas, s.UV))
	}
	return string(out)
}

func TestSetTextLeftAligned(t *testing.T) {
	var table InstanceTable
	field := textField{slots: slotRange{start: 0, count: MaxStringLength}, position: mgl32.Vec3{-0.1, 0.02, 0}}
	color := mgl32.Vec4{1, 0, 0, 1}

	table.setText(field, []byte("Peak: 12MB"), color, testAtlas)

	assert.True(t, table.Dirty())
	assert.Equal(t, "Peak: 12MB", readRun(&table, field))
	assert.Equal(t, color, table.Slot(0).Color)

	first := table.Slot(0).Transform.Col(3)
	second := table.Slot(1).Transform.Col(3)
	assert.InDelta(t, -0.1+glyphSize.X()*0.5, first.X(), 1e-6)
	assert.InDelta(t, 0.02-glyphSize.Y()*0.5, first.Y(), 1e-6)
	assert.InDelta(t, glyphSize.X(), second.X()-first.X(), 1e-6)

	for i := len("Peak: 12MB"); i < MaxStringLength; i++ {
		assert.True(t, table.Slot(i).Degenerate())
	}
}

func TestSetTextRightAlignedWritesBackwards(t *testing.T) {
	var table InstanceTable
	field := textField{slots: slotRange{start: 10, count: MaxStringLength}, position: mgl32.Vec3{0.1, 0, 0}, rightAligned: true}

	table.setText(field, []byte("abc"), textWhite, testAtlas)

	// The first slot holds the last character, nearest the right edge.
	assert.Equal(t, "cba", readRun(&table, field))
	first := table.Slot(10).Transform.Col(3)
	second := table.Slot(11).Transform.Col(3)
	assert.Less(t, second.X(), first.X())
	assert.InDelta(t, 0.1-glyphSize.X()*0.5, first.X(), 1e-6)
}

func TestSetTextShorterStringZeroesTail(t *testing.T) {
	var table InstanceTable
	field := textField{slots: slotRange{start: 0, count: MaxStringLength}}

	table.setText(field, []byte("123456"), textWhite, testAtlas)
	table.setText(field, []byte("12"), textWhite, testAtlas)

	assert.Equal(t, "12", readRun(&table, field))
	assert.True(t, table.Slot(2).Degenerate())
}

func TestSetTextTooLongPanics(t *testing.T) {
	var table InstanceTable
	field := textField{slots: slotRange{start: 0, count: 4}}
	assert.Panics(t, func() { table.setText(field, []byte("12345"), textWhite, testAtlas) })
}

func TestClearText(t *testing.T) {
	var table InstanceTable
	field := textField{slots: slotRange{start: 0, count: MaxStringLength}}
	table.setText(field, []byte("xyz"), textWhite, testAtlas)
	table.clearDirty()

	table.clearText(field)
	assert.True(t, table.Dirty())
	assert.Equal(t, "", readRun(&table, field))
}
