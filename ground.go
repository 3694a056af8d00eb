package greetcard

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
)

const (
	DefaultGroundParticles = 160000
	DefaultRingParticles   = 90000

	groundRadius     = 6.0
	groundY          = -2.5
	groundThickness  = 0.1
	groundFalloffExp = 1.5
	ringY            = -2.48
	ringJitter       = 0.25
)

var (
	RingRadii  = []float32{1.3, 2.4, 3.6, 4.8, 5.8}
	groundTint = MustHex("#FFF5F8")
)

// GroundProfile is a flat disc, uniform by area. The tint is strongest at
// the centre and fades to white at the rim.
func GroundProfile() PointProfile {
	return PointProfile{
		Radius: func(float32) float32 { return groundRadius },
		Place: func(rng *rand.Rand, _, base, _ float32) Placement {
			return Placement{
				Radius: math32.Sqrt(rng.Float32()) * base,
				Height: groundY + signedUnit(rng)*groundThickness,
			}
		},
		Color: func(_ *rand.Rand, p Placement, base float32) Color {
			mix := math32.Pow(p.Radius/base, groundFalloffExp)
			return White.Lerp(groundTint, 1-mix)
		},
	}
}

func GenerateGround(rng *rand.Rand, count int) ParticleBuffer {
	return GeneratePointCloud(rng, count, GroundProfile())
}

// GenerateRings spreads count particles evenly over the given radii. Any
// remainder of count/len(radii) is dropped, so the buffer may be shorter
// than count.
func GenerateRings(rng *rand.Rand, count int, radii []float32) ParticleBuffer {
	if len(radii) == 0 || count <= 0 {
		return NewParticleBuffer(0)
	}
	perRing := count / len(radii)
	buf := NewParticleBuffer(perRing * len(radii))

	idx := 0
	for _, baseR := range radii {
		for i := 0; i < perRing; i++ {
			theta := rng.Float32() * 2 * math32.Pi
			r := baseR + signedUnit(rng)*ringJitter
			buf.SetPosition(idx, r*math32.Cos(theta), ringY, r*math32.Sin(theta))
			idx++
		}
	}
	buf.Fill(White)
	return buf
}
