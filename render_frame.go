package greetcard

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene fog, linear from FogNear to FogFar toward FogColor.
const (
	FogNear = 12
	FogFar  = 40
)

var FogColor = Black

// CameraView is the camera as seen by renderers. Projection follows the
// OpenGL clip convention (z in [-1, 1]); backends remap as needed.
type CameraView struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Eye        mgl32.Vec3
	Fov        float32
}

type PointBatch struct {
	Entity   EntityId
	Model    mgl32.Mat4
	Buffer   ParticleBuffer
	Version  uint
	Size     float32
	Opacity  float32
	Blending Blending
}

type MeshDraw struct {
	Entity   EntityId
	Mesh     AssetId
	Model    mgl32.Mat4
	Material Material
	// Depth is the view-space distance of the entity origin.
	Depth float32
}

type LightInstance struct {
	Type      LightType
	Position  mgl32.Vec3
	Color     Color
	Intensity float32
	Range     float32
	ConeAngle float32
}

// RenderFrame is everything a renderer needs for one frame, gathered from
// the ECS in PreRender. Transparent is sorted back to front.
type RenderFrame struct {
	Frame         uint64
	Elapsed       float32
	Width, Height int

	Camera      CameraView
	Points      []PointBatch
	Opaque      []MeshDraw
	Transparent []MeshDraw
	Lights      []LightInstance

	Overlay AssetId

	FogColor  Color
	FogNear   float32
	FogFar    float32
	Clear     Color
	HasCamera bool
}

// Renderer draws collected frames. Render is called once per frame from the
// Render stage; Close runs at shutdown.
type Renderer interface {
	Render(frame *RenderFrame, assets *AssetServer) error
	Close() error
}

// RendererHandle is the installed renderer, held as a resource because
// systems cannot take interface-typed arguments.
type RendererHandle struct {
	Name     RendererName
	Renderer Renderer
}

// RenderModule collects a RenderFrame every frame and hands it to Renderer.
type RenderModule struct {
	Name     RendererName
	Renderer Renderer
}

func (mod RenderModule) Install(app *App, cmd *Commands) {
	if mod.Renderer == nil {
		panic("RenderModule requires a Renderer")
	}
	if !ensureSingleRenderer(app, string(mod.Name)) {
		app.Logger().Warnf("renderer %s already installed", mod.Name)
		return
	}
	cmd.AddResources(
		&RendererHandle{Name: mod.Name, Renderer: mod.Renderer},
		&RenderFrame{},
	)
	app.OnShutdown(func() {
		if err := mod.Renderer.Close(); err != nil {
			app.Logger().Warnf("renderer %s close: %v", mod.Name, err)
		}
	})
	app.UseSystem(
		System(collectRenderFrameSystem).
			InStage(PreRender),
	)
	app.UseSystem(
		System(renderSystem).
			InStage(Render),
	)
}

func collectRenderFrameSystem(cmd *Commands, frame *RenderFrame, input *Input, t *Time) {
	frame.Frame = cmd.app.Frame()
	frame.Elapsed = t.Elapsed
	frame.Width, frame.Height = input.WindowWidth, input.WindowHeight
	frame.FogColor, frame.FogNear, frame.FogFar = FogColor, FogNear, FogFar
	frame.Clear = Black
	frame.Points = frame.Points[:0]
	frame.Opaque = frame.Opaque[:0]
	frame.Transparent = frame.Transparent[:0]
	frame.Lights = frame.Lights[:0]
	frame.HasCamera = false

	aspect := float32(1)
	if frame.Height > 0 {
		aspect = float32(frame.Width) / float32(frame.Height)
	}
	MakeQuery1[OrbitCameraComponent](cmd).Map(func(eid EntityId, cam *OrbitCameraComponent) bool {
		frame.Camera = CameraView{
			View:       cam.View(),
			Projection: cam.Projection(aspect),
			Eye:        cam.Eye(),
			Fov:        cam.Fov,
		}
		frame.HasCamera = true
		return false
	})

	MakeQuery2[TransformComponent, PointCloudComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, pc *PointCloudComponent) bool {
		if pc.Buffer.Len() == 0 {
			return true
		}
		frame.Points = append(frame.Points, PointBatch{
			Entity:   eid,
			Model:    tr.Matrix(),
			Buffer:   pc.Buffer,
			Version:  pc.Version,
			Size:     pc.Size,
			Opacity:  pc.Opacity,
			Blending: pc.Blending,
		})
		return true
	})

	view := frame.Camera.View
	MakeQuery2[TransformComponent, MeshComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, mc *MeshComponent) bool {
		d := MeshDraw{
			Entity:   eid,
			Mesh:     mc.Mesh,
			Model:    tr.Matrix(),
			Material: mc.Material,
			Depth:    -view.Mul4x1(tr.Position.Vec4(1)).Z(),
		}
		if mc.Material.Transparent() {
			frame.Transparent = append(frame.Transparent, d)
		} else {
			frame.Opaque = append(frame.Opaque, d)
		}
		return true
	})
	SortBackToFront(frame.Transparent)

	MakeQuery2[TransformComponent, LightComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, l *LightComponent) bool {
		frame.Lights = append(frame.Lights, LightInstance{
			Type:      l.Type,
			Position:  tr.Position,
			Color:     l.Color,
			Intensity: l.Intensity,
			Range:     l.Range,
			ConeAngle: l.ConeAngle,
		})
		return true
	})

	if o := ResourceOf[Overlay](cmd); o != nil {
		frame.Overlay = o.Texture
	}
}

// SortBackToFront orders draws by decreasing view depth. Ties keep their
// collection order.
func SortBackToFront(draws []MeshDraw) {
	slices.SortStableFunc(draws, func(a, b MeshDraw) int {
		switch {
		case a.Depth > b.Depth:
			return -1
		case a.Depth < b.Depth:
			return 1
		}
		return 0
	})
}

func renderSystem(cmd *Commands, handle *RendererHandle, frame *RenderFrame, assets *AssetServer) {
	if !frame.HasCamera {
		return
	}
	if err := handle.Renderer.Render(frame, assets); err != nil {
		cmd.Logger().Errorf("render %s: %v", handle.Name, err)
	}
}

// CaptureRenderer keeps the most recent frame in memory instead of drawing.
// It backs headless runs and tests.
type CaptureRenderer struct {
	Frames int
	Last   RenderFrame
	Closed bool
}

func (r *CaptureRenderer) Render(frame *RenderFrame, assets *AssetServer) error {
	r.Frames++
	r.Last = *frame
	r.Last.Points = slices.Clone(frame.Points)
	r.Last.Opaque = slices.Clone(frame.Opaque)
	r.Last.Transparent = slices.Clone(frame.Transparent)
	r.Last.Lights = slices.Clone(frame.Lights)
	return nil
}

func (r *CaptureRenderer) Close() error {
	r.Closed = true
	return nil
}
