package greetcard

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrbitCamera_RoundTripsEye(t *testing.T) {
	eye := mgl32.Vec3{0, 4, 18}
	target := mgl32.Vec3{0, 1, 0}
	cam := NewOrbitCamera(eye, target, 45)

	assertVec3(t, eye, cam.Eye())
	assert.InDelta(t, eye.Sub(target).Len(), cam.Distance, 1e-4)

	// The target lands on the view axis.
	v := cam.View().Mul4x1(target.Vec4(1))
	assert.InDelta(t, 0, v.X(), 1e-4)
	assert.InDelta(t, 0, v.Y(), 1e-4)
	assert.Less(t, v.Z(), float32(0))
}

func TestOrbitCamera_OrbitAndClamp(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, 45)

	cam.Orbit(600, 0, 600)
	assert.InDelta(t, -2*math32.Pi, cam.Yaw, 1e-4)

	cam.Orbit(0, 10000, 600)
	assert.InDelta(t, maxOrbitPitch, cam.Pitch, 1e-6)
	cam.Orbit(0, -20000, 600)
	assert.InDelta(t, -maxOrbitPitch, cam.Pitch, 1e-6)

	before := cam
	cam.Orbit(10, 10, 0)
	assert.Equal(t, before, cam, "zero viewport is ignored")
}

func TestOrbitCamera_ZoomClamps(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, 45)
	cam.MinDistance, cam.MaxDistance = 5, 30

	cam.Zoom(1)
	assert.InDelta(t, 9.5, cam.Distance, 1e-4)

	cam.Zoom(1000)
	assert.Equal(t, float32(5), cam.Distance)
	cam.Zoom(-1000)
	assert.Equal(t, float32(30), cam.Distance)
}

func TestOrbitCameraControl_SkipsCapturedPointer(t *testing.T) {
	app := NewApp().UseModules(InputModule{}, OrbitCameraModule{})
	cmd := app.Commands()
	cam := NewOrbitCamera(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, 45)
	eid := cmd.AddEntity(&cam)
	app.FlushCommands()

	input := Resource[Input](app)
	input.PushResize(800, 600)
	input.PushCursor(100, 100)
	app.Step()

	input.PointerCaptured = true
	input.PushMouseButton(MouseButtonLeft, true)
	input.PushCursor(200, 100)
	app.Step()
	got := Component[OrbitCameraComponent](cmd, eid)
	require.NotNil(t, got)
	assert.Zero(t, got.Yaw)

	input.PointerCaptured = false
	input.PushCursor(300, 100)
	app.Step()
	assert.NotZero(t, got.Yaw)

	input.PushScroll(2)
	app.Step()
	assert.Less(t, got.Distance, float32(10))
}
