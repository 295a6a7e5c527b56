package actor

import (
	"github.com/akmonengine/unitworld/pose"
	"github.com/go-gl/mathgl/mgl64"
)

// Transform represents a rigid placement in 3D space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// TransformFromState places a transform at the given pose
func TransformFromState(state pose.StateVector) Transform {
	position, rotation := pose.Decompose(state)
	rotation = rotation.Normalize()

	return Transform{
		Position:        position,
		Rotation:        rotation,
		InverseRotation: rotation.Inverse(),
	}
}

// State returns the pose of the transform
func (t Transform) State() pose.StateVector {
	return pose.Compose(t.Position, t.Rotation)
}

// Mat4 returns the homogeneous matrix of the transform
func (t Transform) Mat4() mgl64.Mat4 {
	return pose.ToTransform(t.State())
}

// Apply maps a local point to world space
func (t Transform) Apply(point mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(point).Add(t.Position)
}
