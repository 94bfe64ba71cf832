package profiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-vprof/common"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrUnknownAnchor is returned by ParseAnchor when the name matches none of the nine anchors.
	ErrUnknownAnchor = errors.New("profiler: unknown anchor")

	// ErrInvalidColor is returned by ColorFromSlice when the slice is not 3 or 4 components long.
	ErrInvalidColor = errors.New("profiler: color must have 3 or 4 components")
)

// Anchor is one of nine screen-relative placement presets for the overlay window.
type Anchor int

const (
	AnchorUpperLeft Anchor = iota
	AnchorUpperCenter
	AnchorUpperRight
	AnchorMiddleLeft
	AnchorMiddleCenter
	AnchorMiddleRight
	AnchorLowerLeft
	AnchorLowerCenter
	AnchorLowerRight

	anchorCount
)

var anchorNames = [anchorCount]string{
	"UpperLeft", "UpperCenter", "UpperRight",
	"MiddleLeft", "MiddleCenter", "MiddleRight",
	"LowerLeft", "LowerCenter", "LowerRight",
}

func (a Anchor) String() string {
	if a < 0 || a >= anchorCount {
		return fmt.Sprintf("Anchor(%d)", int(a))
	}
	return anchorNames[a]
}

// Valid reports whether a is one of the nine defined anchors.
func (a Anchor) Valid() bool {
	return a >= 0 && a < anchorCount
}

// ParseAnchor resolves an anchor by name. Matching ignores case and the separators '_', '-' and ' ',
// so "LowerCenter", "lower_center" and "lower-center" are equivalent.
//
// Parameters:
//   - name: the anchor name
//
// Returns:
//   - Anchor: the matching anchor
//   - error: ErrUnknownAnchor if nothing matches
func ParseAnchor(name string) (Anchor, error) {
	key := normalizeAnchorName(name)
	for i, n := range anchorNames {
		if normalizeAnchorName(n) == key {
			return Anchor(i), nil
		}
	}
	return AnchorLowerCenter, fmt.Errorf("%w: %q", ErrUnknownAnchor, name)
}

func normalizeAnchorName(name string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.TrimSpace(name)))
}

// Palette holds the six overlay colors as linear RGBA.
type Palette struct {
	Base   mgl32.Vec4
	Target mgl32.Vec4
	Missed mgl32.Vec4
	Used   mgl32.Vec4
	Peak   mgl32.Vec4
	Limit  mgl32.Vec4
}

// DefaultPalette returns the stock overlay colors.
func DefaultPalette() Palette {
	return Palette{
		Base:   rgb256(20, 20, 20),
		Target: rgb256(127, 186, 0),
		Missed: rgb256(242, 80, 34),
		Used:   rgb256(0, 164, 239),
		Peak:   rgb256(255, 185, 0),
		Limit:  rgb256(50, 50, 50),
	}
}

func rgb256(r, g, b float32) mgl32.Vec4 {
	return mgl32.Vec4{r / 256, g / 256, b / 256, 1}
}

// ColorFromSlice builds an RGBA color from 3 or 4 components. A missing alpha defaults to 1.
//
// Parameters:
//   - c: the color components
//
// Returns:
//   - mgl32.Vec4: the color
//   - error: ErrInvalidColor if the component count is wrong
func ColorFromSlice(c []float32) (mgl32.Vec4, error) {
	switch len(c) {
	case 3:
		return mgl32.Vec4{c[0], c[1], c[2], 1}, nil
	case 4:
		return mgl32.Vec4{c[0], c[1], c[2], c[3]}, nil
	default:
		return mgl32.Vec4{}, fmt.Errorf("%w: got %d", ErrInvalidColor, len(c))
	}
}

const (
	defaultSampleRate  = 0.1
	defaultFollowSpeed = 5.0
	minWindowScale     = 0.5
	maxWindowScale     = 5.0
	maxDecimals        = 3
)

// Settings is the runtime configuration surface of the profiler. Every field can be changed while running.
type Settings struct {
	// Visible is the visibility flag.
	Visible bool
	// SampleRate is the frame-rate sampling window in seconds.
	SampleRate float32
	// Anchor selects where the window sits relative to the view.
	Anchor Anchor
	// Offset is the window offset along the camera's right (X) and up (Y) axes.
	Offset mgl32.Vec2
	// Scale is the uniform window scale, clamped to [0.5, 5].
	Scale float32
	// FollowSpeed controls how quickly the window catches up with its target pose. Clamped to >= 0.
	FollowSpeed float32
	// Decimals is the number of fractional digits displayed, clamped to [0, 3].
	Decimals int
	// Palette holds the overlay colors.
	Palette Palette
}

// DefaultSettings returns the stock configuration: visible, 0.1s sampling, lower-center anchor.
func DefaultSettings() Settings {
	return Settings{
		Visible:     true,
		SampleRate:  defaultSampleRate,
		Anchor:      AnchorLowerCenter,
		Offset:      mgl32.Vec2{0.1, 0.1},
		Scale:       1,
		FollowSpeed: defaultFollowSpeed,
		Decimals:    1,
		Palette:     DefaultPalette(),
	}
}

// Normalize returns a copy of s with every field forced into its valid range.
func (s Settings) Normalize() Settings {
	if s.SampleRate <= 0 {
		s.SampleRate = defaultSampleRate
	}
	if !s.Anchor.Valid() {
		s.Anchor = AnchorLowerCenter
	}
	s.Scale = common.Clamp(s.Scale, minWindowScale, maxWindowScale)
	s.FollowSpeed = max(s.FollowSpeed, 0)
	s.Decimals = common.Clamp(s.Decimals, 0, maxDecimals)
	return s
}
