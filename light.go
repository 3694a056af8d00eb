package greetcard

type LightType uint32

const (
	LightTypePoint   LightType = 0
	LightTypeSpot    LightType = 2
	LightTypeAmbient LightType = 3
)

// LightComponent is a scene light. Position and direction come from the
// entity's TransformComponent; spot lights aim at the origin.
type LightComponent struct {
	Type      LightType
	Color     Color
	Intensity float32
	Range     float32 // point/spot falloff distance, 0 means unbounded
	ConeAngle float32 // spot half-angle in radians
}
