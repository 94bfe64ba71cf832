package instancing

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// pointMass is one simulated instance. Each instance is only ever touched by the task that owns its chunk.
type pointMass struct {
	position mgl32.Vec3
	velocity mgl32.Vec3
	size     float32
	mass     float32

	// reflecting latches while the instance is outside the containment sphere so a slow exit reflects once.
	reflecting bool
}

// instanceData is the per-instance vertex stream: model matrix columns followed by the color.
type instanceData struct {
	Model mgl32.Mat4
	Color mgl32.Vec4
}

const instanceStride = 80

// spawnPointMass places an instance uniformly inside the sphere of the given radius.
//
// Parameters:
//   - rng: the random source
//   - radius: the containment radius
//   - minSize, maxSize: the size range
//
// Returns:
//   - pointMass: the new instance
//   - mgl32.Vec4: its color
func spawnPointMass(rng *rand.Rand, radius, minSize, maxSize float32) (pointMass, mgl32.Vec4) {
	size := minSize + rng.Float32()*(maxSize-minSize)
	mass := (size*size*size - minSize*minSize*minSize) / (maxSize * maxSize * maxSize)

	p := pointMass{
		position: randomDirection(rng).Mul(radius * math32.Cbrt(rng.Float32())),
		velocity: randomDirection(rng).Mul((1 - mass) * 0.2),
		size:     size,
		mass:     mass,
	}
	hue := 1 + (0.6-1)*mass
	return p, hsvToRGB(hue, 1, 0.5)
}

// randomDirection returns a unit vector uniformly distributed on the sphere.
func randomDirection(rng *rand.Rand) mgl32.Vec3 {
	z := 2*rng.Float32() - 1
	theta := 2 * math32.Pi * rng.Float32()
	r := math32.Sqrt(1 - z*z)
	sin, cos := math32.Sincos(theta)
	return mgl32.Vec3{r * cos, r * sin, z}
}

// step integrates the instance over dt and reflects its velocity off the containment sphere on the first
// tick it spends outside.
//
// Parameters:
//   - dt: the time step in seconds
//   - radius: the containment radius
//
// Returns:
//   - bool: true if the velocity was reflected this step
func (p *pointMass) step(dt, radius float32) bool {
	p.position = p.position.Add(p.velocity.Mul(dt))

	dist := p.position.Len()
	if dist <= radius {
		p.reflecting = false
		return false
	}
	if p.reflecting {
		return false
	}

	normal := p.position.Mul(1 / dist)
	p.velocity = p.velocity.Sub(normal.Mul(2 * p.velocity.Dot(normal)))
	p.reflecting = true
	return true
}

// transform builds the model matrix: the instance's unit cube scaled to its size, with +Z along the velocity.
func (p *pointMass) transform() mgl32.Mat4 {
	rotation := mgl32.QuatIdent()
	if speed := p.velocity.Len(); speed > 1e-6 {
		rotation = mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, 1}, p.velocity.Mul(1/speed))
	}
	return mgl32.Translate3D(p.position.Elem()).
		Mul4(rotation.Mat4()).
		Mul4(mgl32.Scale3D(p.size, p.size, p.size))
}

// hsvToRGB converts a color with hue in [0, 1] to opaque RGBA.
func hsvToRGB(h, s, v float32) mgl32.Vec4 {
	h = math32.Mod(h, 1)
	if h < 0 {
		h++
	}
	h *= 6
	sector := int(h) % 6
	f := h - math32.Floor(h)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch sector {
	case 0:
		return mgl32.Vec4{v, t, p, 1}
	case 1:
		return mgl32.Vec4{q, v, p, 1}
	case 2:
		return mgl32.Vec4{p, v, t, 1}
	case 3:
		return mgl32.Vec4{p, q, v, 1}
	case 4:
		return mgl32.Vec4{t, p, v, 1}
	default:
		return mgl32.Vec4{v, p, q, 1}
	}
}
