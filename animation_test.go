package greetcard

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatPose(t *testing.T) {
	f := FloatComponent{Speed: 1, RotationIntensity: 1, FloatIntensity: 1}
	rot, y := FloatPose(f, 0)
	assertVec3(t, mgl32.Vec3{1.0 / 8, 0, 0}, rot)
	assert.InDelta(t, 0, y, 1e-6)

	// x = (offset + t) / 4 * speed reaches π/2 at t = 2π.
	rot, y = FloatPose(f, 2*math32.Pi)
	assert.InDelta(t, 0.1, y, 1e-5)
	assert.InDelta(t, 1.0/8, rot.Y(), 1e-5)
	assert.InDelta(t, 1.0/20, rot.Z(), 1e-5)

	still, y := FloatPose(FloatComponent{Speed: 1}, 3)
	assert.Equal(t, mgl32.Vec3{}, still)
	assert.Zero(t, y)
}

func TestAnimationSystems(t *testing.T) {
	app := NewApp().UseModules(
		TimeModule{FixedStep: 250 * time.Millisecond},
		AnimationModule{},
	)
	cmd := app.Commands()

	spinLocal := LocalAt(mgl32.Vec3{}, mgl32.Vec3{})
	spin := cmd.AddEntity(&SpinComponent{RadiansPerFrame: 0.1}, &spinLocal)

	hoverLocal := LocalAt(mgl32.Vec3{}, mgl32.Vec3{})
	hover := cmd.AddEntity(&HoverSpinComponent{SpinRate: 2, BaseY: 4, Amplitude: 0.05, Frequency: 4}, &hoverLocal)

	breatheLocal := LocalAt(mgl32.Vec3{}, mgl32.Vec3{})
	breathe := cmd.AddEntity(&BreatheComponent{Frequency: 2, Amplitude: 0.5}, &breatheLocal)

	pulse := cmd.AddEntity(
		&EmissivePulseComponent{Base: 2, Amplitude: 1, Frequency: 2},
		&MeshComponent{Material: Standard("#ffffff")},
	)
	rings := cmd.AddEntity(
		&OpacityPulseComponent{Base: 0.5, Amplitude: 0.15, Frequency: 1.5},
		&PointCloudComponent{Opacity: 1},
	)
	app.FlushCommands()

	app.RunFrames(4) // t = 1s

	s := Component[SpinComponent](cmd, spin)
	require.NotNil(t, s)
	assert.InDelta(t, 0.4, s.Angle, 1e-6)

	h := Component[LocalTransformComponent](cmd, hover)
	assert.InDelta(t, 4+math32.Sin(4)*0.05, h.Position.Y(), 1e-5)
	assertVec3(t, yaw(2).Rotate(mgl32.Vec3{1, 0, 0}), h.Rotation.Rotate(mgl32.Vec3{1, 0, 0}))

	b := Component[LocalTransformComponent](cmd, breathe)
	want := 1 + math32.Sin(2)*0.5
	assert.InDelta(t, want, b.Scale.X(), 1e-5)
	assert.InDelta(t, want, b.Scale.Z(), 1e-5)
	assert.Equal(t, float32(1), b.Scale.Y())

	m := Component[MeshComponent](cmd, pulse)
	assert.InDelta(t, 2+math32.Sin(2), m.Material.EmissiveIntensity, 1e-5)

	pc := Component[PointCloudComponent](cmd, rings)
	assert.InDelta(t, 0.5+math32.Sin(1.5)*0.15, pc.Opacity, 1e-5)
}

func assertSameRotation(t *testing.T, want, got mgl32.Quat) {
	t.Helper()
	for _, axis := range []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		assertVec3(t, want.Rotate(axis), got.Rotate(axis))
	}
}

func TestAnimationSystems_SwayWobbleTimeSpinFloat(t *testing.T) {
	app := NewApp().UseModules(
		TimeModule{FixedStep: 250 * time.Millisecond},
		AnimationModule{},
	)
	cmd := app.Commands()

	bowLocal := LocalAt(mgl32.Vec3{}, mgl32.Vec3{})
	bow := cmd.AddEntity(&SwayComponent{AmplitudeZ: 0.08, FrequencyZ: 1.5, AmplitudeX: 0.05, FrequencyX: 1.2}, &bowLocal)

	wobbleLocal := LocalAt(mgl32.Vec3{}, mgl32.Vec3{})
	wobble := cmd.AddEntity(&WobbleComponent{Amplitude: 0.05, Frequency: 10}, &wobbleLocal)

	cloudLocal := LocalAt(mgl32.Vec3{}, mgl32.Vec3{})
	cloud := cmd.AddEntity(&TimeSpinComponent{Rate: 0.01}, &cloudLocal)

	floatCfg := FloatComponent{Speed: 1.5, RotationIntensity: 0.3, FloatIntensity: 0.5, Offset: 2}
	floatLocal := LocalAt(mgl32.Vec3{0, 7, 0}, mgl32.Vec3{})
	floating := cmd.AddEntity(&floatCfg, &floatLocal)
	app.FlushCommands()

	app.RunFrames(4) // t = 1s

	b := Component[LocalTransformComponent](cmd, bow)
	require.NotNil(t, b)
	assertSameRotation(t, EulerXYZ(mgl32.Vec3{math32.Cos(1.2) * 0.05, 0, math32.Sin(1.5) * 0.08}), b.Rotation)
	// the Z tilt lifts the X axis, then the X tilt foreshortens it
	bowZ, bowX := math32.Sin(1.5)*0.08, math32.Cos(1.2)*0.05
	assert.InDelta(t, math32.Sin(bowZ)*math32.Cos(bowX), b.Rotation.Rotate(mgl32.Vec3{1, 0, 0}).Y(), 1e-5)

	w := Component[LocalTransformComponent](cmd, wobble)
	assertSameRotation(t, mgl32.QuatRotate(math32.Sin(10)*0.05, mgl32.Vec3{0, 0, 1}), w.Rotation)

	c := Component[LocalTransformComponent](cmd, cloud)
	assertSameRotation(t, yaw(0.01), c.Rotation)

	f := Component[LocalTransformComponent](cmd, floating)
	rot, y := FloatPose(floatCfg, 1)
	assertSameRotation(t, EulerXYZ(rot), f.Rotation)
	assert.InDelta(t, y, f.Position.Y(), 1e-6)
	assert.InDelta(t, math32.Sin(0.75*1.5)/10*0.5, f.Position.Y(), 1e-5)
	assert.Equal(t, float32(0), f.Position.X())
}
