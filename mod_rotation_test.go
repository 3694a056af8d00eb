package greetcard

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotationState_SpeedClamps(t *testing.T) {
	r := RotationState{Speed: DefaultRotationSpeed}
	for i := 0; i < 40; i++ {
		r.SpeedUp()
	}
	assert.Equal(t, float32(MaxRotationSpeed), r.Speed)

	for i := 0; i < 40; i++ {
		r.SlowDown()
	}
	assert.Zero(t, r.Speed)

	assert.Equal(t, float32(0), ClampRotationSpeed(-5))
	assert.Equal(t, float32(MaxRotationSpeed), ClampRotationSpeed(1000))
}

func TestRotationState_AdvanceAndPause(t *testing.T) {
	r := RotationState{Speed: 8}
	r.Advance(1)
	assert.InDelta(t, 8*math32.Pi/180, r.Angle, 1e-6)

	r.TogglePause()
	r.Advance(1)
	assert.InDelta(t, 8*math32.Pi/180, r.Angle, 1e-6)

	r.TogglePause()
	r.Advance(-1)
	assert.InDelta(t, 8*math32.Pi/180, r.Angle, 1e-6)
}

func TestRotationModule_RequiresTime(t *testing.T) {
	assert.PanicsWithValue(t, "RotationModule requires greetcard.Time; install TimeModule first", func() {
		NewApp().UseModules(InputModule{}, RotationModule{Speed: 8})
	})
}

func TestRotationModule_TurnsRootAndHonoursKeys(t *testing.T) {
	app := NewApp().UseModules(
		TimeModule{FixedStep: 100 * time.Millisecond},
		InputModule{},
		RotationModule{Speed: 8},
	)
	cmd := app.Commands()
	local := LocalAt(mgl32.Vec3{}, mgl32.Vec3{})
	root := cmd.AddEntity(&RotationRootComponent{}, &local)
	app.FlushCommands()

	app.RunFrames(10)

	rot := Resource[RotationState](app)
	require.NotNil(t, rot)
	want := 8 * math32.Pi / 180
	assert.InDelta(t, want, rot.Angle, 1e-4)

	turned := Component[LocalTransformComponent](cmd, root).Rotation.Rotate(mgl32.Vec3{0, 0, 1})
	assert.InDelta(t, math32.Sin(want), turned.X(), 1e-4)

	input := Resource[Input](app)
	input.PushKey(KeyUp, true, false)
	input.PushKey(KeyUp, true, true)
	input.PushKey(KeySpace, true, false)
	app.Step()
	assert.Equal(t, float32(12), rot.Speed)
	assert.True(t, rot.Paused)

	// A held space repeats but does not toggle again.
	input.PushKey(KeySpace, true, true)
	app.Step()
	assert.True(t, rot.Paused)

	paused := rot.Angle
	app.RunFrames(5)
	assert.Equal(t, paused, rot.Angle)
}
