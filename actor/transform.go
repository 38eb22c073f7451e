package actor

import "github.com/go-gl/mathgl/mgl64"

// Pose is the host-owned position and orientation of an object in world space.
// A rigid body reads it once per step and writes it back once per step.
type Pose interface {
	WorldPosition() mgl64.Vec3
	WorldRotation() mgl64.Quat
	// TransformVector applies rotation and scale, no translation.
	TransformVector(local mgl64.Vec3) mgl64.Vec3
	// TransformPoint applies rotation, scale and translation.
	TransformPoint(local mgl64.Vec3) mgl64.Vec3
	SetPositionAndRotation(position mgl64.Vec3, rotation mgl64.Quat)
}

// Transform is an in-memory Pose.
// A zero Rotation is read as the identity and a zero Scale as (1, 1, 1).
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform creates an identity transform
func NewTransform() *Transform {
	return &Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

func (t *Transform) WorldPosition() mgl64.Vec3 {
	return t.Position
}

func (t *Transform) WorldRotation() mgl64.Quat {
	if t.Rotation == (mgl64.Quat{}) {
		return mgl64.QuatIdent()
	}
	return t.Rotation
}

func (t *Transform) scale() mgl64.Vec3 {
	if t.Scale == (mgl64.Vec3{}) {
		return mgl64.Vec3{1, 1, 1}
	}
	return t.Scale
}

func (t *Transform) TransformVector(local mgl64.Vec3) mgl64.Vec3 {
	return t.WorldRotation().Rotate(mulElem(local, t.scale()))
}

func (t *Transform) TransformPoint(local mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.TransformVector(local))
}

func (t *Transform) SetPositionAndRotation(position mgl64.Vec3, rotation mgl64.Quat) {
	t.Position = position
	t.Rotation = rotation
}

// mulElem is the componentwise product of a and b.
func mulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
