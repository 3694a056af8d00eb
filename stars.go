package greetcard

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
)

const (
	DefaultStarCount = 3000
	starRadius       = 150.0
	starDepth        = 50.0
	starBrightness   = 0.9
)

// GenerateStars scatters a backdrop shell of stars. Radii shrink from
// radius+depth toward radius as i grows, so later stars sit nearer.
func GenerateStars(rng *rand.Rand, count int, radius, depth float32) ParticleBuffer {
	buf := NewParticleBuffer(count)
	n := buf.Len()
	if n == 0 {
		return buf
	}
	r := radius + depth
	step := depth / float32(n)
	for i := 0; i < n; i++ {
		r -= step * rng.Float32()
		// uniform direction on the sphere
		cosPhi := 2*rng.Float32() - 1
		sinPhi := math32.Sqrt(1 - cosPhi*cosPhi)
		theta := rng.Float32() * 2 * math32.Pi
		buf.SetPosition(i,
			r*sinPhi*math32.Cos(theta),
			r*cosPhi,
			r*sinPhi*math32.Sin(theta),
		)
	}
	buf.Fill(Color{starBrightness, starBrightness, starBrightness})
	return buf
}
