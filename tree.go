package greetcard

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
)

const (
	DefaultTreeParticles = 400000

	treeHeight      = 6.5
	treeBaseY       = -2.5
	treeConeScale   = 3.4
	treeCoreShare   = 0.05
	treeMaxClump    = 0.6
	treeJitter      = 0.3
	treeHighlightK  = 1.2
	treeHighlightAt = 0.4
)

var (
	treePalette = []Color{
		MustHex("#FFB6C1"),
		MustHex("#FF69B4"),
		MustHex("#FF1493"),
		MustHex("#DB7093"),
		MustHex("#FF007F"),
	}
	treeHighlight = MustHex("#FFF0F5")
)

// TreeRadius is the nominal cone radius at height fraction h. Twelve
// horizontal bands each get their own fixed bulge so the outline is uneven.
func TreeRadius(h float32) float32 {
	segmentNoise := math32.Sin(math32.Floor(h*12)*2.8) * 0.25
	return math32.Pow(1.15-h, 1.4) * treeConeScale * (0.8 + segmentNoise)
}

// treeClumps bunches particles into branch-like lobes around the trunk.
func treeClumps(angle, h, height float32) float32 {
	freq := 4 + math32.Floor(h*6)
	return math32.Sin(angle*freq+height*2)*0.45 + math32.Cos(angle*2.5)*0.15
}

func placeTreeParticle(rng *rand.Rand, h, base, angle float32) Placement {
	height := h * treeHeight
	p := Placement{
		DriftX: math32.Sin(h*math32.Pi) * 0.15,
		DriftZ: math32.Cos(h*math32.Pi*0.5) * 0.1,
	}

	if rng.Float32() < treeCoreShare {
		p.Radius = rng.Float32() * base * 0.2
	} else {
		clumps := treeClumps(angle, h, height)
		p.Radius = math32.Pow(rng.Float32(), 0.6) * base * (1.1 + clumps)
		p.Droop = math32.Pow(p.Radius/treeConeScale, 2.6) * 0.6
	}

	p.Height = height + treeBaseY + signedUnit(rng)*treeJitter
	return p
}

func treeColor(rng *rand.Rand, p Placement, base float32) Color {
	c := treePalette[rng.IntN(len(treePalette))]
	outer := p.Radius / (base * 1.5)
	return c.Lerp(treeHighlight, math32.Pow(outer, treeHighlightK)*treeHighlightAt)
}

func TreeProfile() PointProfile {
	return PointProfile{
		Radius: TreeRadius,
		Place:  placeTreeParticle,
		Color:  treeColor,
	}
}

func GenerateTree(rng *rand.Rand, count int) ParticleBuffer {
	return GeneratePointCloud(rng, count, TreeProfile())
}
