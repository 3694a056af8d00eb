package greetcard

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SpinComponent turns an entity about Y by a fixed step every frame,
// independent of frame time.
type SpinComponent struct {
	RadiansPerFrame float32
	Angle           float32
}

// TimeSpinComponent sets the Y rotation to Rate*t.
type TimeSpinComponent struct {
	Rate float32
}

// BreatheComponent scales X and Z by 1 + sin(Frequency*t)*Amplitude.
type BreatheComponent struct {
	Frequency float32
	Amplitude float32
}

// OpacityPulseComponent drives the opacity of a point cloud.
type OpacityPulseComponent struct {
	Base      float32
	Amplitude float32
	Frequency float32
}

// SwayComponent rocks a group like wind on a ribbon bow.
type SwayComponent struct {
	AmplitudeZ, FrequencyZ float32
	AmplitudeX, FrequencyX float32
}

// HoverSpinComponent spins about Y at SpinRate rad/s and bobs around BaseY.
type HoverSpinComponent struct {
	SpinRate  float32
	BaseY     float32
	Amplitude float32
	Frequency float32
}

type WobbleComponent struct {
	Amplitude float32
	Frequency float32
}

// EmissivePulseComponent drives Material.EmissiveIntensity of the entity's
// mesh: Base + sin(Frequency*t + Phase)*Amplitude.
type EmissivePulseComponent struct {
	Base      float32
	Amplitude float32
	Frequency float32
	Phase     float32
}

// FloatComponent bobs and tilts a group the way drei's <Float> does. Offset
// desynchronises groups that share the same parameters.
type FloatComponent struct {
	Speed             float32
	RotationIntensity float32
	FloatIntensity    float32
	Offset            float32
}

type AnimationModule struct{}

func (AnimationModule) Install(app *App, cmd *Commands) {
	app.UseSystem(System(spinSystem).InStage(Update))
	app.UseSystem(System(timeSpinSystem).InStage(Update))
	app.UseSystem(System(breatheSystem).InStage(Update))
	app.UseSystem(System(opacityPulseSystem).InStage(Update))
	app.UseSystem(System(swaySystem).InStage(Update))
	app.UseSystem(System(hoverSpinSystem).InStage(Update))
	app.UseSystem(System(wobbleSystem).InStage(Update))
	app.UseSystem(System(emissivePulseSystem).InStage(Update))
	app.UseSystem(System(floatSystem).InStage(Update))
}

func yaw(angle float32) mgl32.Quat {
	return mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0})
}

func wave(t, freq, phase float32) float32 {
	return math32.Sin(t*freq + phase)
}

func spinSystem(cmd *Commands) {
	MakeQuery2[SpinComponent, LocalTransformComponent](cmd).Map(func(eid EntityId, spin *SpinComponent, local *LocalTransformComponent) bool {
		spin.Angle += spin.RadiansPerFrame
		local.Rotation = yaw(spin.Angle)
		return true
	})
}

func timeSpinSystem(cmd *Commands, t *Time) {
	MakeQuery2[TimeSpinComponent, LocalTransformComponent](cmd).Map(func(eid EntityId, spin *TimeSpinComponent, local *LocalTransformComponent) bool {
		local.Rotation = yaw(t.Elapsed * spin.Rate)
		return true
	})
}

func breatheSystem(cmd *Commands, t *Time) {
	MakeQuery2[BreatheComponent, LocalTransformComponent](cmd).Map(func(eid EntityId, b *BreatheComponent, local *LocalTransformComponent) bool {
		s := 1 + wave(t.Elapsed, b.Frequency, 0)*b.Amplitude
		local.Scale = mgl32.Vec3{s, local.Scale.Y(), s}
		return true
	})
}

func opacityPulseSystem(cmd *Commands, t *Time) {
	MakeQuery2[OpacityPulseComponent, PointCloudComponent](cmd).Map(func(eid EntityId, p *OpacityPulseComponent, cloud *PointCloudComponent) bool {
		cloud.Opacity = p.Base + wave(t.Elapsed, p.Frequency, 0)*p.Amplitude
		return true
	})
}

func swaySystem(cmd *Commands, t *Time) {
	MakeQuery2[SwayComponent, LocalTransformComponent](cmd).Map(func(eid EntityId, s *SwayComponent, local *LocalTransformComponent) bool {
		local.Rotation = EulerXYZ(mgl32.Vec3{
			math32.Cos(t.Elapsed*s.FrequencyX) * s.AmplitudeX,
			0,
			math32.Sin(t.Elapsed*s.FrequencyZ) * s.AmplitudeZ,
		})
		return true
	})
}

func hoverSpinSystem(cmd *Commands, t *Time) {
	MakeQuery2[HoverSpinComponent, LocalTransformComponent](cmd).Map(func(eid EntityId, h *HoverSpinComponent, local *LocalTransformComponent) bool {
		local.Rotation = yaw(t.Elapsed * h.SpinRate)
		local.Position[1] = h.BaseY + wave(t.Elapsed, h.Frequency, 0)*h.Amplitude
		return true
	})
}

func wobbleSystem(cmd *Commands, t *Time) {
	MakeQuery2[WobbleComponent, LocalTransformComponent](cmd).Map(func(eid EntityId, w *WobbleComponent, local *LocalTransformComponent) bool {
		local.Rotation = mgl32.QuatRotate(wave(t.Elapsed, w.Frequency, 0)*w.Amplitude, mgl32.Vec3{0, 0, 1})
		return true
	})
}

func emissivePulseSystem(cmd *Commands, t *Time) {
	MakeQuery2[EmissivePulseComponent, MeshComponent](cmd).Map(func(eid EntityId, p *EmissivePulseComponent, mesh *MeshComponent) bool {
		mesh.Material.EmissiveIntensity = p.Base + wave(t.Elapsed, p.Frequency, p.Phase)*p.Amplitude
		return true
	})
}

// FloatPose returns the tilt (XYZ Euler) and vertical offset of a floating
// group at time t.
func FloatPose(f FloatComponent, t float32) (mgl32.Vec3, float32) {
	x := (f.Offset + t) / 4 * f.Speed
	rot := mgl32.Vec3{
		math32.Cos(x) / 8 * f.RotationIntensity,
		math32.Sin(x) / 8 * f.RotationIntensity,
		math32.Sin(x) / 20 * f.RotationIntensity,
	}
	return rot, math32.Sin(x) / 10 * f.FloatIntensity
}

func floatSystem(cmd *Commands, t *Time) {
	MakeQuery2[FloatComponent, LocalTransformComponent](cmd).Map(func(eid EntityId, f *FloatComponent, local *LocalTransformComponent) bool {
		rot, y := FloatPose(*f, t.Elapsed)
		local.Rotation = EulerXYZ(rot)
		local.Position[1] = y
		return true
	})
}
