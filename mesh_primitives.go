package greetcard

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type MeshVertex struct {
	Position [3]float32 `gekko:"layout" format:"float3" location:"0"`
	Normal   [3]float32 `gekko:"layout" format:"float3" location:"1"`
}

// Geometry is an indexed triangle list. Winding is not relied on; the mesh
// pass draws both faces.
type Geometry struct {
	Vertices []MeshVertex
	Indices  []uint32
}

func (g *Geometry) addVertex(pos, normal mgl32.Vec3) {
	g.Vertices = append(g.Vertices, MeshVertex{Position: pos, Normal: normal})
}

func (g *Geometry) addQuad(a, b, c, d uint32) {
	g.Indices = append(g.Indices, a, b, d, b, c, d)
}

// gridIndices stitches a (rows+1) x (cols+1) vertex grid starting at base.
func (g *Geometry) gridIndices(base uint32, rows, cols int) {
	stride := uint32(cols + 1)
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			a := base + stride*uint32(r-1) + uint32(c-1)
			b := base + stride*uint32(r) + uint32(c-1)
			cc := base + stride*uint32(r) + uint32(c)
			d := base + stride*uint32(r-1) + uint32(c)
			g.addQuad(a, b, cc, d)
		}
	}
}

func SphereGeometry(radius float32, widthSegments, heightSegments int) Geometry {
	widthSegments = max(3, widthSegments)
	heightSegments = max(2, heightSegments)

	var g Geometry
	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		theta := v * math32.Pi
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			phi := u * 2 * math32.Pi
			n := mgl32.Vec3{
				-math32.Cos(phi) * math32.Sin(theta),
				math32.Cos(theta),
				math32.Sin(phi) * math32.Sin(theta),
			}
			g.addVertex(n.Mul(radius), n)
		}
	}

	stride := uint32(widthSegments + 1)
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := stride*uint32(iy) + uint32(ix) + 1
			b := stride*uint32(iy) + uint32(ix)
			c := stride*uint32(iy+1) + uint32(ix)
			d := stride*uint32(iy+1) + uint32(ix) + 1
			// the pole rows collapse to a single triangle each
			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

func BoxGeometry(width, height, depth float32) Geometry {
	hw, hh, hd := width/2, height/2, depth/2
	faces := []struct {
		normal, u, v mgl32.Vec3
		du, dv, dn   float32
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, hd, hh, hw},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}, hd, hh, hw},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, hw, hd, hh},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}, hw, hd, hh},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, hw, hh, hd},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}, hw, hh, hd},
	}

	var g Geometry
	for _, f := range faces {
		base := uint32(len(g.Vertices))
		center := f.normal.Mul(f.dn)
		u := f.u.Mul(f.du)
		v := f.v.Mul(f.dv)
		g.addVertex(center.Sub(u).Sub(v), f.normal)
		g.addVertex(center.Add(u).Sub(v), f.normal)
		g.addVertex(center.Add(u).Add(v), f.normal)
		g.addVertex(center.Sub(u).Add(v), f.normal)
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return g
}

// CylinderGeometry is centred on the origin along Y. A zero radius end gets
// no cap, which makes it a cone.
func CylinderGeometry(radiusTop, radiusBottom, height float32, radialSegments int) Geometry {
	radialSegments = max(3, radialSegments)
	var g Geometry

	slope := (radiusBottom - radiusTop) / height
	for y := 0; y <= 1; y++ {
		v := float32(y)
		r := v*(radiusBottom-radiusTop) + radiusTop
		for x := 0; x <= radialSegments; x++ {
			theta := float32(x) / float32(radialSegments) * 2 * math32.Pi
			sin, cos := math32.Sin(theta), math32.Cos(theta)
			pos := mgl32.Vec3{r * sin, -v*height + height/2, r * cos}
			g.addVertex(pos, mgl32.Vec3{sin, slope, cos}.Normalize())
		}
	}
	g.gridIndices(0, 1, radialSegments)

	cylinderCap(&g, radiusTop, height/2, 1, radialSegments)
	cylinderCap(&g, radiusBottom, -height/2, -1, radialSegments)
	return g
}

func cylinderCap(g *Geometry, radius, y, sign float32, segments int) {
	if radius <= 0 {
		return
	}
	normal := mgl32.Vec3{0, sign, 0}
	center := uint32(len(g.Vertices))
	g.addVertex(mgl32.Vec3{0, y, 0}, normal)
	for x := 0; x <= segments; x++ {
		theta := float32(x) / float32(segments) * 2 * math32.Pi
		g.addVertex(mgl32.Vec3{radius * math32.Sin(theta), y, radius * math32.Cos(theta)}, normal)
	}
	for x := 0; x < segments; x++ {
		g.Indices = append(g.Indices, center, center+1+uint32(x), center+2+uint32(x))
	}
}

// TorusGeometry lies in the XY plane. arc below 2π leaves an open ring, as
// used for bow loops.
func TorusGeometry(radius, tube float32, radialSegments, tubularSegments int, arc float32) Geometry {
	radialSegments = max(3, radialSegments)
	tubularSegments = max(3, tubularSegments)
	var g Geometry

	for j := 0; j <= radialSegments; j++ {
		v := float32(j) / float32(radialSegments) * 2 * math32.Pi
		for i := 0; i <= tubularSegments; i++ {
			u := float32(i) / float32(tubularSegments) * arc
			ring := radius + tube*math32.Cos(v)
			pos := mgl32.Vec3{ring * math32.Cos(u), ring * math32.Sin(u), tube * math32.Sin(v)}
			center := mgl32.Vec3{radius * math32.Cos(u), radius * math32.Sin(u), 0}
			g.addVertex(pos, pos.Sub(center).Normalize())
		}
	}
	g.gridIndices(0, radialSegments, tubularSegments)
	return g
}

// TubeGeometry sweeps a circle along curve. Frames are parallel-transported
// from the start so the tube does not twist at inflection points.
func TubeGeometry(curve *CatmullRomCurve, tubularSegments int, radius float32, radialSegments int) Geometry {
	tubularSegments = max(1, tubularSegments)
	radialSegments = max(3, radialSegments)
	var g Geometry

	tangents := make([]mgl32.Vec3, tubularSegments+1)
	normals := make([]mgl32.Vec3, tubularSegments+1)
	for i := range tangents {
		tangents[i] = curve.Tangent(float32(i) / float32(tubularSegments))
	}
	normals[0] = initialNormal(tangents[0])
	for i := 1; i <= tubularSegments; i++ {
		normals[i] = normals[i-1]
		axis := tangents[i-1].Cross(tangents[i])
		if axis.Len() > 1e-6 {
			angle := math32.Acos(mgl32.Clamp(tangents[i-1].Dot(tangents[i]), -1, 1))
			normals[i] = mgl32.QuatRotate(angle, axis.Normalize()).Rotate(normals[i])
		}
	}

	for i := 0; i <= tubularSegments; i++ {
		p := curve.Point(float32(i) / float32(tubularSegments))
		n := normals[i]
		b := tangents[i].Cross(n)
		for j := 0; j <= radialSegments; j++ {
			v := float32(j) / float32(radialSegments) * 2 * math32.Pi
			dir := n.Mul(-math32.Cos(v)).Add(b.Mul(math32.Sin(v))).Normalize()
			g.addVertex(p.Add(dir.Mul(radius)), dir)
		}
	}
	g.gridIndices(0, tubularSegments, radialSegments)
	return g
}

func initialNormal(t mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	ax, ay, az := math32.Abs(t.X()), math32.Abs(t.Y()), math32.Abs(t.Z())
	if ay <= ax && ay <= az {
		axis = mgl32.Vec3{0, 1, 0}
	} else if az <= ax && az <= ay {
		axis = mgl32.Vec3{0, 0, 1}
	}
	side := t.Cross(axis).Normalize()
	return t.Cross(side).Normalize()
}

// PlaneGeometry lies in the XY plane facing +Z.
func PlaneGeometry(width, height float32) Geometry {
	hw, hh := width/2, height/2
	n := mgl32.Vec3{0, 0, 1}
	var g Geometry
	g.addVertex(mgl32.Vec3{-hw, -hh, 0}, n)
	g.addVertex(mgl32.Vec3{hw, -hh, 0}, n)
	g.addVertex(mgl32.Vec3{hw, hh, 0}, n)
	g.addVertex(mgl32.Vec3{-hw, hh, 0}, n)
	g.Indices = append(g.Indices, 0, 1, 2, 0, 2, 3)
	return g
}

// CircleGeometry is a flat fan in the XY plane facing +Z.
func CircleGeometry(radius float32, segments int) Geometry {
	segments = max(3, segments)
	n := mgl32.Vec3{0, 0, 1}
	var g Geometry
	g.addVertex(mgl32.Vec3{}, n)
	for s := 0; s <= segments; s++ {
		theta := float32(s) / float32(segments) * 2 * math32.Pi
		g.addVertex(mgl32.Vec3{radius * math32.Cos(theta), radius * math32.Sin(theta), 0}, n)
	}
	for s := 1; s <= segments; s++ {
		g.Indices = append(g.Indices, uint32(s), uint32(s+1), 0)
	}
	return g
}

// CapsuleGeometry is a cylinder of the given length with hemispherical ends,
// centred on the origin along Y.
func CapsuleGeometry(radius, length float32, capSegments, radialSegments int) Geometry {
	capSegments = max(1, capSegments)
	radialSegments = max(3, radialSegments)

	type ring struct{ r, y, nr, ny float32 }
	var profile []ring
	for i := 0; i <= capSegments; i++ {
		a := -math32.Pi/2 + float32(i)/float32(capSegments)*math32.Pi/2
		profile = append(profile, ring{radius * math32.Cos(a), -length/2 + radius*math32.Sin(a), math32.Cos(a), math32.Sin(a)})
	}
	for i := 0; i <= capSegments; i++ {
		a := float32(i) / float32(capSegments) * math32.Pi / 2
		profile = append(profile, ring{radius * math32.Cos(a), length/2 + radius*math32.Sin(a), math32.Cos(a), math32.Sin(a)})
	}

	var g Geometry
	for _, p := range profile {
		for x := 0; x <= radialSegments; x++ {
			theta := float32(x) / float32(radialSegments) * 2 * math32.Pi
			sin, cos := math32.Sin(theta), math32.Cos(theta)
			g.addVertex(mgl32.Vec3{p.r * sin, p.y, p.r * cos}, mgl32.Vec3{p.nr * sin, p.ny, p.nr * cos})
		}
	}
	g.gridIndices(0, len(profile)-1, radialSegments)
	return g
}
