package greetcard

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
	ShapeCylinder
	ShapeTorus
	ShapeTube
	ShapePlane
	ShapeCircle
	ShapeCapsule
)

// Shape is a primitive descriptor. Only the fields its Kind uses are read.
// Shapes without a Curve are comparable and double as cache keys.
type Shape struct {
	Kind ShapeKind

	Radius       float32 // sphere, cylinder top, torus, tube, circle, capsule
	RadiusBottom float32
	Tube         float32
	Width        float32
	Height       float32
	Depth        float32
	Arc          float32

	Segments int
	Rings    int
	Curve    *CatmullRomCurve
}

func Sphere(radius float32, widthSegments, heightSegments int) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius, Segments: widthSegments, Rings: heightSegments}
}

func Box(width, height, depth float32) Shape {
	return Shape{Kind: ShapeBox, Width: width, Height: height, Depth: depth}
}

func Cylinder(radiusTop, radiusBottom, height float32, segments int) Shape {
	return Shape{Kind: ShapeCylinder, Radius: radiusTop, RadiusBottom: radiusBottom, Height: height, Segments: segments}
}

func Torus(radius, tube float32, radialSegments, tubularSegments int, arc float32) Shape {
	return Shape{Kind: ShapeTorus, Radius: radius, Tube: tube, Rings: radialSegments, Segments: tubularSegments, Arc: arc}
}

func Tube(curve *CatmullRomCurve, tubularSegments int, radius float32, radialSegments int) Shape {
	return Shape{Kind: ShapeTube, Curve: curve, Segments: tubularSegments, Radius: radius, Rings: radialSegments}
}

func Plane(width, height float32) Shape {
	return Shape{Kind: ShapePlane, Width: width, Height: height}
}

func Circle(radius float32, segments int) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius, Segments: segments}
}

func Capsule(radius, length float32, capSegments, radialSegments int) Shape {
	return Shape{Kind: ShapeCapsule, Radius: radius, Height: length, Rings: capSegments, Segments: radialSegments}
}

func (s Shape) Geometry() Geometry {
	switch s.Kind {
	case ShapeSphere:
		return SphereGeometry(s.Radius, s.Segments, s.Rings)
	case ShapeBox:
		return BoxGeometry(s.Width, s.Height, s.Depth)
	case ShapeCylinder:
		return CylinderGeometry(s.Radius, s.RadiusBottom, s.Height, s.Segments)
	case ShapeTorus:
		return TorusGeometry(s.Radius, s.Tube, s.Rings, s.Segments, s.Arc)
	case ShapeTube:
		return TubeGeometry(s.Curve, s.Segments, s.Radius, s.Rings)
	case ShapePlane:
		return PlaneGeometry(s.Width, s.Height)
	case ShapeCircle:
		return CircleGeometry(s.Radius, s.Segments)
	case ShapeCapsule:
		return CapsuleGeometry(s.Radius, s.Height, s.Rings, s.Segments)
	}
	return Geometry{}
}

type Blending int

const (
	BlendNormal Blending = iota
	BlendAdditive
)

type Material struct {
	Color             Color
	Emissive          Color
	EmissiveIntensity float32
	Metalness         float32
	Roughness         float32
	Opacity           float32
	Blending          Blending
	// Unlit materials ignore scene lights, like three's MeshBasicMaterial.
	Unlit bool
}

// Standard is a lit material with three's MeshStandardMaterial defaults.
func Standard(hex string) Material {
	return Material{Color: MustHex(hex), Roughness: 1, Opacity: 1}
}

func Basic(hex string) Material {
	return Material{Color: MustHex(hex), Opacity: 1, Unlit: true}
}

func (m Material) PBR(metalness, roughness float32) Material {
	m.Metalness = metalness
	m.Roughness = roughness
	return m
}

func (m Material) Glow(hex string, intensity float32) Material {
	m.Emissive = MustHex(hex)
	m.EmissiveIntensity = intensity
	return m
}

func (m Material) Translucent(opacity float32) Material {
	m.Opacity = opacity
	return m
}

func (m Material) Transparent() bool {
	return m.Opacity < 1 || m.Blending == BlendAdditive
}

// Node is one element of a declarative scene graph. A node may carry a mesh,
// a point cloud, a light, or nothing (a plain group). Components are extra
// ECS components attached verbatim, mostly animations.
type Node struct {
	Name       string
	Position   mgl32.Vec3
	Rotation   mgl32.Vec3 // XYZ Euler radians
	Scale      mgl32.Vec3 // zero means unit scale
	Shape      *Shape
	Material   Material
	Points     *PointCloudComponent
	Light      *LightComponent
	Components []any
	Children   []Node
}

func Group(name string, children ...Node) Node {
	return Node{Name: name, Children: children}
}

func MeshNode(name string, shape Shape, mat Material) Node {
	return Node{Name: name, Shape: &shape, Material: mat}
}

func (n Node) At(x, y, z float32) Node {
	n.Position = mgl32.Vec3{x, y, z}
	return n
}

func (n Node) Rotated(x, y, z float32) Node {
	n.Rotation = mgl32.Vec3{x, y, z}
	return n
}

func (n Node) Scaled(s float32) Node {
	n.Scale = mgl32.Vec3{s, s, s}
	return n
}

func (n Node) With(components ...any) Node {
	n.Components = append(n.Components, components...)
	return n
}

// GiftDef places one wrapped present on the ground.
type GiftDef struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Size     mgl32.Vec3
	Color    string
	Ribbon   string
}

var DefaultGifts = []GiftDef{
	{mgl32.Vec3{-1.8, -2.42, 1.5}, mgl32.Vec3{0, 0.7, 0}, mgl32.Vec3{0.55, 0.4, 0.45}, "#E0115F", "#FFD700"},
	{mgl32.Vec3{0.6, -2.48, -2.4}, mgl32.Vec3{0.08, -0.4, 0}, mgl32.Vec3{0.7, 0.25, 0.5}, "#E6E6FA", "#FF69B4"},
	{mgl32.Vec3{2.6, -2.44, 1.0}, mgl32.Vec3{0, 1.2, 0.1}, mgl32.Vec3{0.45, 0.55, 0.45}, "#F5F5F5", "#D4AF37"},
	{mgl32.Vec3{-0.9, -2.42, -2.0}, mgl32.Vec3{0, 1.5, 0}, mgl32.Vec3{0.35, 0.35, 0.35}, "#FFB6C1", "#ffffff"},
	{mgl32.Vec3{-2.4, -2.48, -0.6}, mgl32.Vec3{0.06, 0.3, -0.12}, mgl32.Vec3{0.5, 0.38, 0.5}, "#D11090", "#FFD700"},
	{mgl32.Vec3{2.0, -2.45, -1.8}, mgl32.Vec3{0, -0.9, 0}, mgl32.Vec3{0.4, 0.4, 0.4}, "#FFE4E1", "#FFA500"},
}

const giftBevel = 0.02

// GiftBox builds body, crossed ribbon bands, a shadow on the snow, a bow
// and a few snowflake dots on the front face. The rounded extrusion of the
// body is approximated by a box grown by its bevel.
func GiftBox(rng *rand.Rand, def GiftDef) Node {
	w, h, d := def.Size.X(), def.Size.Y(), def.Size.Z()

	shadow := MeshNode("shadow", Plane(w*1.5, d*1.5), Basic("#000000").Translucent(0.15)).
		At(0, -0.01, 0).Rotated(-math32.Pi/2, 0, 0)
	body := MeshNode("body", Box(w+2*giftBevel, h+2*giftBevel, d+2*giftBevel), Standard(def.Color).PBR(0.1, 0.3))

	band := MeshNode("ribbon-v", Box(w*0.18, h+0.05, d+0.05), Standard(def.Ribbon).PBR(0.5, 0.3).Glow(def.Ribbon, 0.5)).
		With(&EmissivePulseComponent{Base: 0.6, Amplitude: 0.4, Frequency: 3})
	cross := MeshNode("ribbon-h", Box(w+0.05, h*0.18, d+0.05), Standard(def.Ribbon).PBR(0.5, 0.3))

	gift := Group("gift", shadow, body, band, cross, Bow(def.Ribbon, max(w, d)))
	for i := 0; i < 5; i++ {
		dot := MeshNode("snowflake", Circle(0.015, 6), Standard("#ffffff").Translucent(0.6).Glow("#ffffff", 0.5)).
			At(signedUnit(rng)*w, signedUnit(rng)*h, d/2+0.025)
		gift.Children = append(gift.Children, dot)
	}

	gift.Position = def.Position
	gift.Rotation = def.Rotation
	return gift
}

// Bow sits on top of a gift and sways in the wind.
func Bow(hex string, size float32) Node {
	knot := MeshNode("knot", Sphere(size*0.12, 16, 16), Standard(hex).PBR(0.6, 0.2))
	bow := Group("bow", knot).At(0, size/2+0.02, 0).With(&SwayComponent{
		AmplitudeZ: 0.08, FrequencyZ: 1.5,
		AmplitudeX: 0.05, FrequencyX: 1.2,
	})

	for _, side := range []float32{-1, 1} {
		loop := MeshNode("loop", Torus(size*0.18, size*0.05, 12, 24, math32.Pi*1.6), Standard(hex).PBR(0.7, 0.3)).
			Rotated(0, math32.Pi/2, 0)
		bow.Children = append(bow.Children,
			Group("loop-pivot", loop).At(size*0.12*side, 0, 0).Rotated(0, 0, math32.Pi/3.5*side))
	}

	bell := MeshNode("bell", Sphere(0.045, 16, 16), Standard("#FFD700").PBR(1, 0.1).Glow("#FFD700", 0.8)).
		At(0, -0.06, size*0.18).Rotated(0.3, 0, 0)
	bow.Children = append(bow.Children, bell)
	return bow
}

func Stocking(x, y, z, yaw float32) Node {
	red := Standard("#D11090").PBR(0, 0.9)
	return Group("stocking",
		MeshNode("leg", Cylinder(0.09, 0.09, 0.35, 16), red).At(0, 0.25, 0),
		MeshNode("foot", Cylinder(0.09, 0.08, 0.2, 16), red).At(0.1, 0.08, 0).Rotated(0, 0, math32.Pi/2.2),
		MeshNode("toe", Sphere(0.085, 16, 16), Standard("#ffffff").PBR(0, 0.9)).At(0.2, 0.08, 0),
		MeshNode("cuff", Cylinder(0.11, 0.11, 0.12, 16), Standard("#ffffff")).At(0, 0.42, 0),
	).At(x, y, z).Rotated(0, yaw, 0)
}

func BichonPuppy() Node {
	fur := Standard("#ffffff").Glow("#ffffff", 0.15)
	puppy := Group("puppy",
		MeshNode("body", Sphere(0.22, 16, 16), fur).At(0, 0.15, 0),
		MeshNode("head", Sphere(0.18, 16, 16), fur).At(0, 0.38, 0.18),
	).At(1.2, -2.4, 1.8).Rotated(0, -math32.Pi/4, 0)

	for _, leg := range [][2]float32{{-0.14, 0.1}, {0.14, 0.1}, {-0.14, -0.1}, {0.14, -0.1}} {
		puppy.Children = append(puppy.Children,
			MeshNode("leg", Cylinder(0.045, 0.045, 0.18, 8), Standard("#ffffff")).At(leg[0], 0.05, leg[1]))
	}
	puppy.Children = append(puppy.Children,
		MeshNode("eye", Sphere(0.018, 8, 8), Basic("#111111")).At(-0.07, 0.4, 0.32),
		MeshNode("eye", Sphere(0.018, 8, 8), Basic("#111111")).At(0.07, 0.4, 0.32),
		MeshNode("nose", Sphere(0.025, 8, 8), Basic("#000000")).At(0, 0.35, 0.35),
	)
	return puppy
}

// UsagiTopper is the mascot hovering over the tree top, with its own glow.
func UsagiTopper() Node {
	cream := Standard("#FFF9C4").PBR(0, 0.7)
	head := Group("head",
		MeshNode("body", Sphere(0.5, 32, 32), cream),
		MeshNode("mouth", Sphere(0.02, 8, 8), Basic("#111111")).At(0, -0.05, 0.45),
	).With(&WobbleComponent{Amplitude: 0.05, Frequency: 10})

	for _, side := range []float32{-1, 1} {
		ear := MeshNode("ear", Capsule(0.12, 0.6, 8, 16), cream).At(0, 0.4, 0)
		head.Children = append(head.Children,
			Group("ear-pivot", ear).At(0.2*side, 0.35, 0).Rotated(0, 0, 0.1*side),
			MeshNode("eye", Sphere(0.045, 16, 16), Basic("#111111")).At(0.22*side, 0.1, 0.42),
			MeshNode("cheek", Sphere(0.08, 16, 16), Standard("#FFB7C5").Translucent(0.6)).At(0.35*side, -0.05, 0.38),
		)
	}

	glow := Node{Name: "glow", Light: &LightComponent{Type: LightTypePoint, Color: MustHex("#FFF9C4"), Intensity: 8, Range: 5}}
	return Group("usagi", head, glow).At(0, 4, 0).Scaled(0.6).With(&HoverSpinComponent{
		SpinRate:  2,
		BaseY:     4,
		Amplitude: 0.05,
		Frequency: 4,
	})
}

const (
	ribbonCount   = 2
	ribbonSteps   = 150
	ribbonSpiral  = 5
	ribbonTube    = 0.02
	ribbonRadials = 8
)

var ribbonColors = [][2]string{
	{"#FF69B4", "#FF1493"},
	{"#FFFFFF", "#FFC0CB"},
}

// RibbonCurve is the spiral that wraps ribbon j around the tree, slightly
// outside the particle shell.
func RibbonCurve(j int) *CatmullRomCurve {
	start := float32(j) / ribbonCount * 2 * math32.Pi
	points := make([]mgl32.Vec3, 0, ribbonSteps+1)
	for i := 0; i <= ribbonSteps; i++ {
		y := float32(i) / ribbonSteps
		segmentNoise := math32.Sin(math32.Floor(y*6)*2.5) * 0.25
		radius := math32.Pow(1.1-y, 1.3) * 2.8 * (0.85 + segmentNoise) * 1.05
		angle := start + y*math32.Pi*ribbonSpiral
		points = append(points, mgl32.Vec3{math32.Cos(angle) * radius, y*6 - 2.5, math32.Sin(angle) * radius})
	}
	return NewCatmullRomCurve(points)
}

func Ribbons() Node {
	g := Group("ribbons")
	for j := 0; j < ribbonCount; j++ {
		c := ribbonColors[j%2]
		mat := Standard(c[0]).Glow(c[1], 3).Translucent(0.8)
		g.Children = append(g.Children,
			MeshNode("ribbon", Tube(RibbonCurve(j), ribbonSteps, ribbonTube, ribbonRadials), mat).
				With(&EmissivePulseComponent{Base: 2, Amplitude: 1.5, Frequency: 2, Phase: float32(j)}))
	}
	return g
}
