package profiler

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendIntRoundTrip(t *testing.T) {
	values := []int{0, 1, 9, 10, 42, 99, 100, 1000, 65535, 1 << 20, 123456789, 2147483647}
	for v := 0; v < 20000; v += 7 {
		values = append(values, v)
	}

	var buf textBuffer
	for _, v := range values {
		buf.reset()
		buf.appendInt(v)
		got, err := strconv.Atoi(buf.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestAppendIntNegativeWritesZero(t *testing.T) {
	var buf textBuffer
	buf.appendInt(-12)
	assert.Equal(t, "0", buf.String())
}

func TestAppendFixed(t *testing.T) {
	tests := []struct {
		name     string
		x        float32
		decimals int
		want     string
	}{
		{"whole number keeps trailing zero", 100, 1, "100.0"},
		{"zero decimals drops the point", 100, 0, "100"},
		{"fraction is truncated", 1.25, 1, "1.2"},
		{"short fraction is left padded", 7.0625, 2, "7.06"},
		{"three digits", 7.125, 3, "7.125"},
		{"padding for zero fraction", 2, 3, "2.000"},
		{"zero", 0, 2, "0.00"},
		{"negative clamps to zero", -3.5, 1, "0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf textBuffer
			buf.appendFixed(tt.x, tt.decimals)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestAppendFixedDigitCount(t *testing.T) {
	values := []float32{0, 0.001, 0.5, 0.999, 1, 3.14159, 12.05, 99.99, 1023.9, 100000.5}
	for _, v := range values {
		for decimals := 0; decimals <= maxDecimals; decimals++ {
			var buf textBuffer
			buf.appendFixed(v, decimals)
			s := buf.String()

			point := strings.IndexByte(s, '.')
			if decimals == 0 {
				assert.Equal(t, -1, point, "value %v: %q", v, s)
				continue
			}
			require.NotEqual(t, -1, point, "value %v: %q", v, s)
			assert.Len(t, s[point+1:], decimals, "value %v: %q", v, s)
		}
	}
}

func TestTextBufferOverflowPanics(t *testing.T) {
	var buf textBuffer
	buf.appendString(strings.Repeat("x", MaxStringLength))
	assert.Panics(t, func() { buf.appendByte('y') })
}

func TestFormatters(t *testing.T) {
	var buf textBuffer

	formatDrawPass(&buf, 10, 3)
	assert.Equal(t, "Draw/Pass: 10/3", buf.String())

	formatVertices(&buf, 12345, 1)
	assert.Equal(t, "Verts: 12.3k", buf.String())

	formatMemory(&buf, usedMemoryPrefix, 104_857_600, 1)
	assert.Equal(t, "Used: 100.0MB", buf.String())

	formatMemory(&buf, limitMemoryPrefix, 8<<30, 0)
	assert.Equal(t, "Limit: 8192MB", buf.String())
}

func TestFormattersDoNotAllocate(t *testing.T) {
	var buf textBuffer
	allocs := testing.AllocsPerRun(100, func() {
		formatMemory(&buf, peakMemoryPrefix, 123_456_789, 2)
		formatVertices(&buf, 987654, 3)
		formatDrawPass(&buf, 250, 12)
	})
	assert.Zero(t, allocs)
}

func TestFrameRateStrings(t *testing.T) {
	var f frameRateStrings
	f.build(1)

	assert.Equal(t, "- fps (-.- ms)", f.cpu[0].String())
	assert.Equal(t, "GPU: - fps (-.- ms)", f.gpu[0].String())
	assert.Equal(t, "60 fps (16.7 ms)", f.cpu[60].String())
	assert.Equal(t, "GPU: 60 fps (16.7 ms)", f.gpu[60].String())
	assert.Equal(t, "120 fps (8.3 ms)", f.forCPU(500).String())
	assert.Equal(t, "- fps (-.- ms)", f.forCPU(-4).String())

	f.build(0)
	assert.Equal(t, "60 fps (17 ms)", f.cpu[60].String())

	f.build(3)
	assert.Equal(t, "1 fps (1000.000 ms)", f.cpu[1].String())
}
