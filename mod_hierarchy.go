package greetcard

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent is the world-space transform, written by the hierarchy
// system for every entity that also owns a LocalTransformComponent.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// LocalTransformComponent is relative to Parent, or to the world for roots.
// Animation systems write here.
type LocalTransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

type Parent struct {
	Entity EntityId
}

func IdentityLocal() LocalTransformComponent {
	return LocalTransformComponent{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// LocalAt builds a local transform from a position and XYZ Euler angles in
// radians, applied in X, Y, Z order like three.js.
func LocalAt(pos mgl32.Vec3, euler mgl32.Vec3) LocalTransformComponent {
	return LocalTransformComponent{
		Position: pos,
		Rotation: EulerXYZ(euler),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// EulerXYZ matches the three.js 'XYZ' order: R = Rx * Ry * Rz.
func EulerXYZ(euler mgl32.Vec3) mgl32.Quat {
	return mgl32.QuatRotate(euler.X(), mgl32.Vec3{1, 0, 0}).
		Mul(mgl32.QuatRotate(euler.Y(), mgl32.Vec3{0, 1, 0})).
		Mul(mgl32.QuatRotate(euler.Z(), mgl32.Vec3{0, 0, 1}))
}

func (tr TransformComponent) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(tr.Position.X(), tr.Position.Y(), tr.Position.Z()).
		Mul4(tr.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(tr.Scale.X(), tr.Scale.Y(), tr.Scale.Z()))
}

type HierarchyModule struct{}

func (HierarchyModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(TransformHierarchySystem).
			InStage(PostUpdate),
	)
}

type pendingChild struct {
	eid    EntityId
	parent EntityId
	local  *LocalTransformComponent
	world  *TransformComponent
}

// TransformHierarchySystem composes local transforms down the parent chain.
// Parents are always resolved before their children regardless of depth.
func TransformHierarchySystem(cmd *Commands) {
	resolved := make(map[EntityId]bool)

	MakeQuery2[LocalTransformComponent, TransformComponent](cmd).Without(Parent{}).Map(func(eid EntityId, local *LocalTransformComponent, world *TransformComponent) bool {
		world.Position = local.Position
		world.Rotation = local.Rotation
		world.Scale = local.Scale
		resolved[eid] = true
		return true
	})

	var children []pendingChild
	MakeQuery3[LocalTransformComponent, Parent, TransformComponent](cmd).Map(func(eid EntityId, local *LocalTransformComponent, parent *Parent, world *TransformComponent) bool {
		children = append(children, pendingChild{eid: eid, parent: parent.Entity, local: local, world: world})
		return true
	})

	for progress := true; progress; {
		progress = false
		for _, c := range children {
			if resolved[c.eid] {
				continue
			}
			if !resolved[c.parent] {
				// A parent with a world transform but no place in the
				// hierarchy is authoritative as-is.
				if Component[Parent](cmd, c.parent) != nil || Component[LocalTransformComponent](cmd, c.parent) != nil {
					continue
				}
				if Component[TransformComponent](cmd, c.parent) == nil {
					continue
				}
				resolved[c.parent] = true
			}

			parentWorld := Component[TransformComponent](cmd, c.parent)
			*c.world = composeTransform(*parentWorld, *c.local)
			resolved[c.eid] = true
			progress = true
		}
	}
}

func composeTransform(parent TransformComponent, local LocalTransformComponent) TransformComponent {
	// WorldPos = ParentPos + ParentRot * (ParentScale * LocalPos)
	scaledLocalPos := mgl32.Vec3{
		local.Position.X() * parent.Scale.X(),
		local.Position.Y() * parent.Scale.Y(),
		local.Position.Z() * parent.Scale.Z(),
	}
	return TransformComponent{
		Position: parent.Position.Add(parent.Rotation.Rotate(scaledLocalPos)),
		Rotation: parent.Rotation.Mul(local.Rotation).Normalize(),
		Scale: mgl32.Vec3{
			parent.Scale.X() * local.Scale.X(),
			parent.Scale.Y() * local.Scale.Y(),
			parent.Scale.Z() * local.Scale.Z(),
		},
	}
}
