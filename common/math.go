package common

import (
	"unsafe"

	"github.com/chewxy/math32"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}

// Mul4 multiplies two 4x4 column-major matrices and stores a * b in out.
// out may alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective creates a perspective projection matrix for the WebGPU clip space [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / math32.Tan(fovY/2.0)
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
}

// LookAt creates a right-handed view matrix looking from eye towards center.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation (typically 0,1,0)
func LookAt(out []float32, eye, center, up [3]float32) {
	back := Normalize3(Sub3(eye, center))
	right := Normalize3(Cross3(up, back))
	trueUp := Cross3(back, right)

	out[0], out[4], out[8], out[12] = right[0], right[1], right[2], -Dot3(right, eye)
	out[1], out[5], out[9], out[13] = trueUp[0], trueUp[1], trueUp[2], -Dot3(trueUp, eye)
	out[2], out[6], out[10], out[14] = back[0], back[1], back[2], -Dot3(back, eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// Sub3 returns a - b.
func Sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Dot3 returns the dot product of a and b.
func Dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross3 returns the cross product a x b.
func Cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Normalize3 returns v scaled to unit length. A zero-length vector is returned unchanged.
func Normalize3(v [3]float32) [3]float32 {
	l := math32.Sqrt(Dot3(v, v))
	if l < 1e-8 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
