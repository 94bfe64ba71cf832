package profiler

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	atlasColumns   = 32
	atlasRows      = 3
	atlasFirstChar = ' '
	atlasLastChar  = '~'
	// atlasWhiteCell is the cell after '~', filled solid white for untextured quads.
	atlasWhiteCell = int(atlasLastChar-atlasFirstChar) + 1
)

// GlyphAtlas is a fixed-cell bitmap font covering printable ASCII, plus one solid white cell.
type GlyphAtlas struct {
	image  *image.RGBA
	cellW  int
	cellH  int
	glyphs [atlasWhiteCell]mgl32.Vec4
	white  mgl32.Vec4
}

// NewGlyphAtlas rasterizes basicfont.Face7x13 into a 32x3 grid of cells, white glyphs on transparent.
//
// Returns:
//   - *GlyphAtlas: the atlas with its image and per-character texture regions
func NewGlyphAtlas() *GlyphAtlas {
	face := basicfont.Face7x13
	a := &GlyphAtlas{
		cellW: face.Advance,
		cellH: face.Height,
	}
	width, height := atlasColumns*a.cellW, atlasRows*a.cellH
	a.image = image.NewRGBA(image.Rect(0, 0, width, height))

	d := &font.Drawer{
		Dst:  a.image,
		Src:  image.White,
		Face: face,
	}
	texW, texH := float32(width), float32(height)
	scale := mgl32.Vec2{float32(a.cellW) / texW, float32(a.cellH) / texH}

	for c := atlasFirstChar; c <= atlasLastChar; c++ {
		cell := int(c - atlasFirstChar)
		x, y := a.cellOrigin(cell)
		d.Dot = fixed.P(x, y+face.Ascent)
		d.DrawString(string(rune(c)))
		a.glyphs[cell] = mgl32.Vec4{float32(x) / texW, float32(y) / texH, scale.X(), scale.Y()}
	}

	x, y := a.cellOrigin(atlasWhiteCell)
	draw.Draw(a.image, image.Rect(x, y, x+a.cellW, y+a.cellH), image.NewUniform(color.White), image.Point{}, draw.Src)
	a.white = mgl32.Vec4{(float32(x) + float32(a.cellW)*0.5) / texW, (float32(y) + float32(a.cellH)*0.5) / texH, 0, 0}

	return a
}

func (a *GlyphAtlas) cellOrigin(cell int) (x, y int) {
	return (cell % atlasColumns) * a.cellW, (cell / atlasColumns) * a.cellH
}

// Image returns the RGBA atlas bitmap.
func (a *GlyphAtlas) Image() *image.RGBA {
	return a.image
}

// GlyphUV returns the texture region for c. Bytes outside printable ASCII map to '?'.
func (a *GlyphAtlas) GlyphUV(c byte) mgl32.Vec4 {
	if c < atlasFirstChar || c > atlasLastChar {
		c = '?'
	}
	return a.glyphs[c-atlasFirstChar]
}

// WhiteUV returns a zero-scale texture region inside the solid white cell.
func (a *GlyphAtlas) WhiteUV() mgl32.Vec4 {
	return a.white
}
