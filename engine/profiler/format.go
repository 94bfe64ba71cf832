package profiler

import (
	"strconv"

	"github.com/chewxy/math32"
)

const (
	// MaxStringLength is the capacity of every text field in glyphs.
	MaxStringLength = 32

	maxTargetFrameRate = 120
)

const (
	drawPassPrefix    = "Draw/Pass: "
	verticesPrefix    = "Verts: "
	usedMemoryPrefix  = "Used: "
	peakMemoryPrefix  = "Peak: "
	limitMemoryPrefix = "Limit: "
)

// textBuffer is a fixed-capacity character buffer. Appending never allocates; overflowing it panics.
type textBuffer struct {
	buf [MaxStringLength]byte
	n   int
}

func (t *textBuffer) reset() {
	t.n = 0
}

func (t *textBuffer) Len() int {
	return t.n
}

func (t *textBuffer) bytes() []byte {
	return t.buf[:t.n]
}

func (t *textBuffer) String() string {
	return string(t.buf[:t.n])
}

func (t *textBuffer) appendByte(c byte) {
	if t.n >= MaxStringLength {
		panic("profiler: text exceeds " + strconv.Itoa(MaxStringLength) + " characters")
	}
	t.buf[t.n] = c
	t.n++
}

func (t *textBuffer) appendString(s string) {
	for i := 0; i < len(s); i++ {
		t.appendByte(s[i])
	}
}

// appendInt writes the decimal digits of v. Negative values are written as 0.
func (t *textBuffer) appendInt(v int) {
	if v <= 0 {
		t.appendByte('0')
		return
	}

	start := t.n
	for ; v != 0; v /= 10 {
		t.appendByte(byte('0' + v%10))
	}
	for i, j := start, t.n-1; i < j; i, j = i+1, j-1 {
		t.buf[i], t.buf[j] = t.buf[j], t.buf[i]
	}
}

// appendFixed writes x with exactly decimals fractional digits. The fraction is truncated, not rounded.
func (t *textBuffer) appendFixed(x float32, decimals int) {
	if !(x > 0) {
		x = 0
	}
	whole := math32.Floor(x)
	t.appendInt(int(whole))
	if decimals <= 0 {
		return
	}

	t.appendByte('.')
	power := 1
	for range decimals {
		power *= 10
	}
	frac := min(int(math32.Floor((x-whole)*float32(power))), power-1)

	digits := 1
	for p := 10; frac >= p; p *= 10 {
		digits++
	}
	for range decimals - digits {
		t.appendByte('0')
	}
	t.appendInt(frac)
}

func (t *textBuffer) appendUnit(x float32, decimals int, unit string) {
	t.appendFixed(x, decimals)
	t.appendString(unit)
}

// formatDrawPass writes "Draw/Pass: <draw>/<pass>".
func formatDrawPass(t *textBuffer, draw, pass int) {
	t.reset()
	t.appendString(drawPassPrefix)
	t.appendInt(draw)
	t.appendByte('/')
	t.appendInt(pass)
}

// formatVertices writes "Verts: <thousands>k".
func formatVertices(t *textBuffer, vertices int, decimals int) {
	t.reset()
	t.appendString(verticesPrefix)
	t.appendUnit(verticesToThousands(vertices), decimals, "k")
}

// formatMemory writes "<prefix><megabytes>MB".
func formatMemory(t *textBuffer, prefix string, bytes uint64, decimals int) {
	t.reset()
	t.appendString(prefix)
	t.appendUnit(bytesToMegabytes(bytes), decimals, "MB")
}

func bytesToMegabytes(bytes uint64) float32 {
	return float32(bytes) / 1024 / 1024
}

func verticesToThousands(vertices int) float32 {
	return float32(vertices) / 1000
}

// frameRateStrings holds the precomputed frame-rate captions for every displayable rate.
type frameRateStrings struct {
	cpu [maxTargetFrameRate + 1]textBuffer
	gpu [maxTargetFrameRate + 1]textBuffer
}

// build fills the captions "<n> fps (<ms> ms)" and "GPU: <n> fps (<ms> ms)" for n in [0, 120].
// Index 0 reads "- fps (-.- ms)". Milliseconds are rounded to the requested decimal count.
func (f *frameRateStrings) build(decimals int) {
	var scratch [16]byte
	for i := range f.cpu {
		frame, ms := []byte("-"), []byte("-.-")
		if i != 0 {
			frame = strconv.AppendInt(scratch[:0:8], int64(i), 10)
			ms = strconv.AppendFloat(scratch[8:8], float64(1000/float32(i)), 'f', decimals, 32)
		}

		cpu, gpu := &f.cpu[i], &f.gpu[i]
		cpu.reset()
		gpu.reset()
		gpu.appendString("GPU: ")
		for _, t := range []*textBuffer{cpu, gpu} {
			t.appendString(string(frame))
			t.appendString(" fps (")
			t.appendString(string(ms))
			t.appendString(" ms)")
		}
	}
}

func (f *frameRateStrings) forCPU(rate int) *textBuffer {
	return &f.cpu[clampFrameRate(rate)]
}

func (f *frameRateStrings) forGPU(rate int) *textBuffer {
	return &f.gpu[clampFrameRate(rate)]
}

func clampFrameRate(rate int) int {
	return min(max(rate, 0), maxTargetFrameRate)
}
