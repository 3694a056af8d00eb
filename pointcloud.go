package greetcard

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
)

// ParticleBuffer holds index-aligned xyz positions and rgb colors. Both
// slices always have length 3*Len().
type ParticleBuffer struct {
	Positions []float32
	Colors    []float32
}

func NewParticleBuffer(n int) ParticleBuffer {
	if n < 0 {
		n = 0
	}
	return ParticleBuffer{
		Positions: make([]float32, n*3),
		Colors:    make([]float32, n*3),
	}
}

func (b ParticleBuffer) Len() int {
	return len(b.Positions) / 3
}

func (b ParticleBuffer) Position(i int) (x, y, z float32) {
	return b.Positions[i*3], b.Positions[i*3+1], b.Positions[i*3+2]
}

func (b ParticleBuffer) SetPosition(i int, x, y, z float32) {
	b.Positions[i*3], b.Positions[i*3+1], b.Positions[i*3+2] = x, y, z
}

func (b ParticleBuffer) Color(i int) Color {
	return Color{b.Colors[i*3], b.Colors[i*3+1], b.Colors[i*3+2]}
}

func (b ParticleBuffer) SetColor(i int, c Color) {
	b.Colors[i*3], b.Colors[i*3+1], b.Colors[i*3+2] = c.R, c.G, c.B
}

// Fill sets every color to c.
func (b ParticleBuffer) Fill(c Color) {
	for i := 0; i < b.Len(); i++ {
		b.SetColor(i, c)
	}
}

// Placement is where a profile put one particle, before the angle is applied.
type Placement struct {
	Radius float32
	Height float32
	Droop  float32
	DriftX float32
	DriftZ float32
}

// PointProfile describes a shape swept around the Y axis. Radius gives the
// nominal radius at a height fraction in [0,1), Place draws the radial sample
// for one particle and Color picks its color.
type PointProfile struct {
	Radius func(h float32) float32
	Place  func(rng *rand.Rand, h, baseRadius, angle float32) Placement
	Color  func(rng *rand.Rand, p Placement, baseRadius float32) Color
}

// GeneratePointCloud samples count particles from profile. Every call draws
// fresh values from rng; nothing is shared between calls.
func GeneratePointCloud(rng *rand.Rand, count int, profile PointProfile) ParticleBuffer {
	buf := NewParticleBuffer(count)
	for i := 0; i < buf.Len(); i++ {
		h := rng.Float32()
		base := profile.Radius(h)
		angle := rng.Float32() * 2 * math32.Pi

		p := profile.Place(rng, h, base, angle)
		buf.SetPosition(i,
			p.Radius*math32.Cos(angle)+p.DriftX,
			p.Height-p.Droop,
			p.Radius*math32.Sin(angle)+p.DriftZ,
		)
		buf.SetColor(i, profile.Color(rng, p, base))
	}
	return buf
}

// NewRand returns a generator seeded from the runtime's entropy, so every
// process start produces a different cloud.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededRand is the deterministic variant used by tests and --seed.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// signedUnit returns a value in [-0.5, 0.5).
func signedUnit(rng *rand.Rand) float32 {
	return rng.Float32() - 0.5
}
