package greetcard

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CatmullRomCurve is an open uniform Catmull-Rom spline
// through its control points, parameterised over [0,1].
type CatmullRomCurve struct {
	Points []mgl32.Vec3
}

func NewCatmullRomCurve(points []mgl32.Vec3) *CatmullRomCurve {
	return &CatmullRomCurve{Points: points}
}

// Point evaluates the curve at t in [0,1]. Control points are hit exactly at
// t = i/(n-1); end segments reflect the first and last point as phantoms.
func (c *CatmullRomCurve) Point(t float32) mgl32.Vec3 {
	n := len(c.Points)
	switch n {
	case 0:
		return mgl32.Vec3{}
	case 1:
		return c.Points[0]
	}
	t = mgl32.Clamp(t, 0, 1)

	p := float32(n-1) * t
	seg := int(p)
	if seg >= n-1 {
		seg = n - 2
	}
	w := p - float32(seg)

	p1 := c.Points[seg]
	p2 := c.Points[seg+1]
	var p0, p3 mgl32.Vec3
	if seg > 0 {
		p0 = c.Points[seg-1]
	} else {
		p0 = p1.Mul(2).Sub(p2)
	}
	if seg+2 < n {
		p3 = c.Points[seg+2]
	} else {
		p3 = p2.Mul(2).Sub(p1)
	}

	return catmullRom(p0, p1, p2, p3, w)
}

// Tangent is the normalised derivative, estimated by central difference.
func (c *CatmullRomCurve) Tangent(t float32) mgl32.Vec3 {
	const eps = 1e-4
	a := c.Point(mgl32.Clamp(t-eps, 0, 1))
	b := c.Point(mgl32.Clamp(t+eps, 0, 1))
	d := b.Sub(a)
	if d.Len() < 1e-9 {
		return mgl32.Vec3{0, 1, 0}
	}
	return d.Normalize()
}

func catmullRom(p0, p1, p2, p3 mgl32.Vec3, t float32) mgl32.Vec3 {
	t2 := t * t
	t3 := t2 * t
	v0 := p2.Sub(p0).Mul(0.5)
	v1 := p3.Sub(p1).Mul(0.5)
	a := p1.Mul(2).Sub(p2.Mul(2)).Add(v0).Add(v1)
	b := p1.Mul(-3).Add(p2.Mul(3)).Sub(v0.Mul(2)).Sub(v1)
	return a.Mul(t3).Add(b.Mul(t2)).Add(v0.Mul(t)).Add(p1)
}
