package actor

import "github.com/go-gl/mathgl/mgl64"

// Placement is a shape posed in world space without any dynamics attached.
// It answers the same support queries as a RigidBody.
type Placement struct {
	Shape     ShapeInterface
	Transform Transform
}

func (p Placement) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	localSupport := p.Shape.Support(p.Transform.InverseRotation.Rotate(direction))
	return p.Transform.Apply(localSupport)
}

func (p Placement) Center() mgl64.Vec3 {
	return p.Transform.Position
}
