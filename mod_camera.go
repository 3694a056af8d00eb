package greetcard

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCameraComponent circles Target at Distance. Yaw and Pitch are in
// radians; yaw 0 looks down -Z from the +Z side.
type OrbitCameraComponent struct {
	Target      mgl32.Vec3
	Distance    float32
	Yaw         float32
	Pitch       float32
	MinDistance float32
	MaxDistance float32
	Fov         float32 // vertical, degrees
	Near        float32
	Far         float32
	RotateSpeed float32
	ZoomSpeed   float32
}

const maxOrbitPitch = math32.Pi/2 - 0.01

// NewOrbitCamera places the camera at eye looking at target.
func NewOrbitCamera(eye, target mgl32.Vec3, fov float32) OrbitCameraComponent {
	offset := eye.Sub(target)
	dist := offset.Len()
	cam := OrbitCameraComponent{
		Target:      target,
		Distance:    dist,
		Fov:         fov,
		Near:        0.1,
		Far:         1000,
		MinDistance: 0,
		MaxDistance: math32.Inf(1),
		RotateSpeed: 1,
		ZoomSpeed:   1,
	}
	if dist > 0 {
		cam.Yaw = math32.Atan2(offset.X(), offset.Z())
		cam.Pitch = math32.Asin(offset.Y() / dist)
	}
	return cam
}

func (c OrbitCameraComponent) Eye() mgl32.Vec3 {
	cp := math32.Cos(c.Pitch)
	return c.Target.Add(mgl32.Vec3{
		c.Distance * cp * math32.Sin(c.Yaw),
		c.Distance * math32.Sin(c.Pitch),
		c.Distance * cp * math32.Cos(c.Yaw),
	})
}

func (c OrbitCameraComponent) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c OrbitCameraComponent) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

// Orbit applies a pointer drag of (dx, dy) pixels in a viewport of the given
// height. A drag across the full height turns the camera by 2π.
func (c *OrbitCameraComponent) Orbit(dx, dy float32, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	k := 2 * math32.Pi / float32(viewportHeight) * c.RotateSpeed
	c.Yaw -= dx * k
	c.Pitch = mgl32.Clamp(c.Pitch+dy*k, -maxOrbitPitch, maxOrbitPitch)
}

// Zoom dollies toward the target for positive steps and away for negative,
// clamped to [MinDistance, MaxDistance].
func (c *OrbitCameraComponent) Zoom(steps float32) {
	scale := math32.Pow(0.95, c.ZoomSpeed*steps)
	c.Distance = mgl32.Clamp(c.Distance*scale, c.MinDistance, c.MaxDistance)
}

type OrbitCameraModule struct{}

func (OrbitCameraModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(OrbitCameraControlSystem).
			InStage(Update),
	)
}

func OrbitCameraControlSystem(cmd *Commands, input *Input) {
	dragging := input.MousePressed[MouseButtonLeft] && !input.PointerCaptured
	MakeQuery1[OrbitCameraComponent](cmd).Map(func(eid EntityId, cam *OrbitCameraComponent) bool {
		if dragging && (input.MouseDeltaX != 0 || input.MouseDeltaY != 0) {
			cam.Orbit(float32(input.MouseDeltaX), float32(input.MouseDeltaY), input.WindowHeight)
		}
		if input.ScrollY != 0 {
			cam.Zoom(float32(input.ScrollY))
		}
		return true
	})
}
