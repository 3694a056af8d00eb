package greetcard

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
)

const (
	DefaultSnowParticles = 3000

	snowSpread    = 25.0
	snowStartTop  = 15.0
	snowFloor     = -4.0
	snowCeiling   = 12.0
	snowMinSpeed  = 0.02
	snowSpeedSpan = 0.06
	snowSwayAmp   = 0.01

	// Dye cone: radius shrinks linearly to zero at the apex height.
	dyeApex      = 12.0
	dyeSlope     = 0.25
	dyeBandLow   = -2.0
	dyeBandHigh  = 6.0
	snowDecayRef = 0.05
)

var SnowDye = Color{1, 0.4, 0.7}

// FallingSnowField is the only particle set mutated after creation. Each
// particle keeps a fixed fall speed and a sway phase; color is recomputed
// from position every tick.
type FallingSnowField struct {
	Buffer ParticleBuffer
	Speeds []float32
	Phases []float32

	rng *rand.Rand
}

func NewFallingSnowField(rng *rand.Rand, count int) *FallingSnowField {
	buf := NewParticleBuffer(count)
	n := buf.Len()
	f := &FallingSnowField{
		Buffer: buf,
		Speeds: make([]float32, n),
		Phases: make([]float32, n),
		rng:    rng,
	}
	for i := 0; i < n; i++ {
		buf.SetPosition(i,
			signedUnit(rng)*snowSpread,
			rng.Float32()*snowStartTop,
			signedUnit(rng)*snowSpread,
		)
		f.Speeds[i] = snowMinSpeed + rng.Float32()*snowSpeedSpan
		f.Phases[i] = rng.Float32() * 2 * math32.Pi
	}
	buf.Fill(White)
	return f
}

// Tick advances every particle by one frame. Fall and sway are per frame;
// the color decay is scaled by dt so it fades at the same wall-clock rate
// regardless of frame rate.
func (f *FallingSnowField) Tick(elapsed, dt float32) {
	decay := SnowDecayBlend(dt)
	for i := 0; i < f.Buffer.Len(); i++ {
		x, y, z := f.Buffer.Position(i)
		y -= f.Speeds[i]
		x += math32.Sin(elapsed+f.Phases[i]) * snowSwayAmp

		if y < snowFloor {
			y = snowCeiling
			x = signedUnit(f.rng) * snowSpread
			z = signedUnit(f.rng) * snowSpread
		}
		f.Buffer.SetPosition(i, x, y, z)

		if InsideDyeCone(x, y, z) {
			f.Buffer.SetColor(i, SnowDye)
		} else {
			f.Buffer.SetColor(i, f.Buffer.Color(i).Lerp(White, decay))
		}
	}
}

// InsideDyeCone reports whether a point lies in the inverted cone around the
// tree that tints snow pink. It depends on position only.
func InsideDyeCone(x, y, z float32) bool {
	if y <= dyeBandLow || y >= dyeBandHigh {
		return false
	}
	r := (dyeApex - y) * dyeSlope
	return x*x+z*z < r*r
}

// SnowDecayBlend is the per-tick blend toward white: 0.05 at 60 fps.
func SnowDecayBlend(dt float32) float32 {
	if dt <= 0 {
		return snowDecayRef
	}
	return 1 - math32.Pow(1-snowDecayRef, dt*60)
}
