package collide

import (
	"github.com/akmonengine/unitworld/actor"
	"github.com/akmonengine/unitworld/gjk"
	"github.com/akmonengine/unitworld/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// ConvexOracle replaces every mesh with its convex hull and runs GJK on the hulls.
// It never misses a collision of the meshes but reports false positives for concave ones.
type ConvexOracle struct{}

var _ Oracle = ConvexOracle{}

type hullModel struct {
	mesh *mesh.Mesh
	hull *actor.ConvexHull
	box  actor.AABB
}

func (m *hullModel) Mesh() *mesh.Mesh {
	return m.mesh
}

func (m *hullModel) BoundingBox() actor.AABB {
	return m.box
}

func (ConvexOracle) NewModel(m *mesh.Mesh) Model {
	return &hullModel{
		mesh: m,
		hull: &actor.ConvexHull{Points: m.Vertices},
		box:  m.BoundingBox(),
	}
}

func (ConvexOracle) Collide(a Model, ta mgl64.Mat4, b Model, tb mgl64.Mat4) bool {
	ha, okA := a.(*hullModel)
	hb, okB := b.(*hullModel)
	if !okA || !okB || len(ha.hull.Points) == 0 || len(hb.hull.Points) == 0 {
		return false
	}

	return gjk.Intersect(
		actor.Placement{Shape: ha.hull, Transform: rigidTransform(ta)},
		actor.Placement{Shape: hb.hull, Transform: rigidTransform(tb)},
	)
}

func (ConvexOracle) CollideBB(a Model, ta mgl64.Mat4, b Model, tb mgl64.Mat4) bool {
	return a.BoundingBox().Transformed(ta).Overlaps(b.BoundingBox().Transformed(tb))
}

// rigidTransform reads a rotation and translation back out of a rigid matrix.
func rigidTransform(m mgl64.Mat4) actor.Transform {
	rotation := mgl64.Mat4ToQuat(m).Normalize()
	return actor.Transform{
		Position:        mgl64.Vec3{m[12], m[13], m[14]},
		Rotation:        rotation,
		InverseRotation: rotation.Inverse(),
	}
}
