package greetcard

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// NameComponent labels entities spawned from a SceneDef.
type NameComponent struct {
	Name string
}

type MeshComponent struct {
	Mesh     AssetId
	Material Material
}

// PointCloudComponent is a particle set drawn as sprites. Version moves
// whenever Buffer is rewritten so renderers know to re-upload.
type PointCloudComponent struct {
	Buffer   ParticleBuffer
	Size     float32
	Opacity  float32
	Blending Blending
	Version  uint
}

type FallingSnowComponent struct {
	Field *FallingSnowField
}

// SceneDef is the initial state of a scene as a forest of nodes.
type SceneDef struct {
	Roots []Node
}

// LoadScene spawns every node. Each entity gets a LocalTransformComponent and
// a TransformComponent; children also get a Parent. Shapes that compare equal
// share one mesh asset. It returns the root entities in order.
func LoadScene(cmd *Commands, assets *AssetServer, scene *SceneDef) []EntityId {
	l := sceneLoader{cmd: cmd, assets: assets, meshes: make(map[Shape]AssetId)}
	roots := make([]EntityId, 0, len(scene.Roots))
	for _, node := range scene.Roots {
		roots = append(roots, l.spawn(node, nil))
	}
	cmd.Logger().Debugf("scene loaded: %d entities, %d meshes", l.count, len(l.meshes))
	return roots
}

type sceneLoader struct {
	cmd    *Commands
	assets *AssetServer
	meshes map[Shape]AssetId
	count  int
}

func (l *sceneLoader) spawn(node Node, parent *EntityId) EntityId {
	local := LocalAt(node.Position, node.Rotation)
	if node.Scale != (mgl32.Vec3{}) {
		local.Scale = node.Scale
	}
	comps := []any{
		&local,
		&TransformComponent{Position: local.Position, Rotation: local.Rotation, Scale: local.Scale},
	}
	if node.Name != "" {
		comps = append(comps, &NameComponent{Name: node.Name})
	}
	if parent != nil {
		comps = append(comps, &Parent{Entity: *parent})
	}
	if node.Shape != nil {
		comps = append(comps, &MeshComponent{Mesh: l.mesh(*node.Shape), Material: node.Material})
	}
	if node.Points != nil {
		comps = append(comps, node.Points)
	}
	if node.Light != nil {
		comps = append(comps, node.Light)
	}
	comps = append(comps, node.Components...)

	eid := l.cmd.AddEntity(comps...)
	l.count++
	for _, child := range node.Children {
		l.spawn(child, &eid)
	}
	return eid
}

func (l *sceneLoader) mesh(shape Shape) AssetId {
	if id, ok := l.meshes[shape]; ok {
		return id
	}
	id := l.assets.LoadMesh(shape.Geometry())
	l.meshes[shape] = id
	return id
}

func PointsNode(name string, cloud PointCloudComponent) Node {
	return Node{Name: name, Points: &cloud}
}

// ChristmasScene builds the card: a rotating root holding the floating tree
// group and the snowy ground, plus falling snow, stars, lights and the
// camera outside the rotation.
func ChristmasScene(rng *rand.Rand, cfg SceneConfig) *SceneDef {
	tree := Group("tree",
		MeshNode("trunk", Cylinder(0.02, 0.12, 6.5, 8), Standard("#2a1217").Translucent(0.1)).At(0, 0.8, 0),
		PointsNode("needles", PointCloudComponent{
			Buffer:   GenerateTree(rng, cfg.TreeParticles),
			Size:     0.028,
			Opacity:  0.9,
			Blending: BlendAdditive,
		}).With(
			&SpinComponent{RadiansPerFrame: 0.0003},
			&BreatheComponent{Frequency: 0.35, Amplitude: 0.005},
		),
	)

	floating := Group("float", tree, UsagiTopper(), Ribbons()).With(&FloatComponent{
		Speed:             1.2,
		RotationIntensity: 0.1,
		FloatIntensity:    0.2,
		Offset:            rng.Float32() * 10000,
	})

	ground := Group("ground",
		PointsNode("snow-floor", PointCloudComponent{
			Buffer:   GenerateGround(rng, cfg.GroundParticles),
			Size:     0.018,
			Opacity:  0.9,
			Blending: BlendAdditive,
		}).With(&TimeSpinComponent{Rate: 0.01}),
		PointsNode("rings", PointCloudComponent{
			Buffer:   GenerateRings(rng, cfg.RingParticles, RingRadii),
			Size:     0.03,
			Opacity:  0.6,
			Blending: BlendAdditive,
		}).With(
			&BreatheComponent{Frequency: 0.5, Amplitude: 0.01},
			&OpacityPulseComponent{Base: 0.5, Amplitude: 0.15, Frequency: 1.5},
		),
	)
	for _, gift := range DefaultGifts {
		ground.Children = append(ground.Children, GiftBox(rng, gift))
	}
	ground.Children = append(ground.Children,
		Stocking(-1.3, -2.5, -0.1, 0.4),
		Stocking(2.2, -2.5, -0.9, -0.7),
		BichonPuppy(),
	)

	root := Group("scene-root", floating, ground).At(2.8, 0, 0).With(&RotationRootComponent{})

	snow := NewFallingSnowField(rng, cfg.SnowParticles)
	falling := PointsNode("falling-snow", PointCloudComponent{
		Buffer:   snow.Buffer,
		Size:     0.06,
		Opacity:  0.7,
		Blending: BlendAdditive,
	}).With(&FallingSnowComponent{Field: snow})

	stars := PointsNode("stars", PointCloudComponent{
		Buffer:   GenerateStars(rng, cfg.Stars, starRadius, starDepth),
		Size:     0.9,
		Opacity:  1,
		Blending: BlendAdditive,
	})

	cam := NewOrbitCamera(mgl32.Vec3{0, 1.5, 14}, mgl32.Vec3{}, 35)
	cam.MinDistance, cam.MaxDistance = 8, 22
	camera := Node{Name: "camera"}.With(&cam)

	lights := []Node{
		{Name: "ambient", Light: &LightComponent{Type: LightTypeAmbient, Color: White, Intensity: 0.6}},
		Node{Name: "key", Light: &LightComponent{Type: LightTypePoint, Color: MustHex("#FFB6C1"), Intensity: 10, Range: 30}}.At(5, 8, 5),
		Node{Name: "spot", Light: &LightComponent{Type: LightTypeSpot, Color: MustHex("#FF1493"), Intensity: 5, ConeAngle: 0.25}}.At(-10, 20, 10),
	}

	return &SceneDef{Roots: append([]Node{root, falling, stars, camera}, lights...)}
}

// SceneModule generates and spawns the Christmas scene. It needs the
// AssetServer, so AssetServerModule must be installed first.
type SceneModule struct {
	Config SceneConfig
}

func (mod SceneModule) Install(app *App, cmd *Commands) {
	assets := Resource[AssetServer](app)
	if assets == nil {
		panic(fmt.Sprintf("SceneModule requires %T; install AssetServerModule first", AssetServer{}))
	}

	rng := NewRand()
	if mod.Config.Seed != 0 {
		rng = NewSeededRand(mod.Config.Seed)
	}
	LoadScene(cmd, assets, ChristmasScene(rng, mod.Config))

	app.UseSystem(
		System(fallingSnowSystem).
			InStage(Update),
	)
}

func fallingSnowSystem(cmd *Commands, t *Time) {
	MakeQuery2[FallingSnowComponent, PointCloudComponent](cmd).Map(func(eid EntityId, snow *FallingSnowComponent, cloud *PointCloudComponent) bool {
		snow.Field.Tick(t.Elapsed, t.Dt)
		cloud.Buffer = snow.Field.Buffer
		cloud.Version++
		return true
	})
}
