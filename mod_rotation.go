package greetcard

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultRotationSpeed = 8.0
	MaxRotationSpeed     = 60.0
	RotationSpeedStep    = 2.0
)

// RotationState turns the scene root about Y. Speed is in degrees per second
// and changes take effect on the next frame with no easing.
type RotationState struct {
	Angle  float32 // radians
	Speed  float32
	Paused bool
}

// RotationRootComponent marks the group that RotationState turns.
type RotationRootComponent struct{}

func ClampRotationSpeed(speed float32) float32 {
	return mgl32.Clamp(speed, 0, MaxRotationSpeed)
}

func (r *RotationState) SpeedUp() {
	r.Speed = ClampRotationSpeed(r.Speed + RotationSpeedStep)
}

func (r *RotationState) SlowDown() {
	r.Speed = ClampRotationSpeed(r.Speed - RotationSpeedStep)
}

func (r *RotationState) TogglePause() {
	r.Paused = !r.Paused
}

func (r *RotationState) Advance(dt float32) {
	if r.Paused || dt <= 0 {
		return
	}
	r.Angle += dt * r.Speed * (math32.Pi / 180)
}

type RotationModule struct {
	Speed float32
}

func (mod RotationModule) Install(app *App, cmd *Commands) {
	if Resource[Time](app) == nil {
		panic(fmt.Sprintf("RotationModule requires %T; install TimeModule first", Time{}))
	}
	cmd.AddResources(&RotationState{Speed: ClampRotationSpeed(mod.Speed)})
	app.UseSystem(
		System(rotationInputSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(rotationSystem).
			InStage(Update),
	)
}

// rotationInputSystem honours key auto-repeat for the speed keys, so holding
// an arrow keeps stepping. Space toggles once per physical press.
func rotationInputSystem(input *Input, rot *RotationState) {
	for i := 0; i < input.KeyDowns[KeyUp]; i++ {
		rot.SpeedUp()
	}
	for i := 0; i < input.KeyDowns[KeyDown]; i++ {
		rot.SlowDown()
	}
	// one toggle per physical press; held-key auto-repeat is ignored
	if input.JustPressed[KeySpace] {
		rot.TogglePause()
	}
}

func rotationSystem(cmd *Commands, t *Time, rot *RotationState) {
	rot.Advance(t.Dt)
	MakeQuery2[RotationRootComponent, LocalTransformComponent](cmd).Map(func(eid EntityId, _ *RotationRootComponent, local *LocalTransformComponent) bool {
		local.Rotation = yaw(rot.Angle)
		return true
	})
}
