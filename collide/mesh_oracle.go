package collide

import (
	"github.com/akmonengine/unitworld/actor"
	"github.com/akmonengine/unitworld/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// MeshOracle tests triangle surfaces exactly, pruning face pairs with a BVH per model.
// Only surfaces are tested: a mesh fully enclosed by another one is not reported.
type MeshOracle struct{}

var _ DetailOracle = MeshOracle{}

type meshModel struct {
	mesh *mesh.Mesh
	tree *bvh
	box  actor.AABB
}

func (m *meshModel) Mesh() *mesh.Mesh {
	return m.mesh
}

func (m *meshModel) BoundingBox() actor.AABB {
	return m.box
}

func (MeshOracle) NewModel(m *mesh.Mesh) Model {
	return &meshModel{
		mesh: m,
		tree: buildBVH(m),
		box:  m.BoundingBox(),
	}
}

func (o MeshOracle) Collide(a Model, ta mgl64.Mat4, b Model, tb mgl64.Mat4) bool {
	hit := false
	o.query(a, ta, b, tb, func(FacePair, triTriResult) bool {
		hit = true
		return true
	})
	return hit
}

// CollideForDetails returns every pair of intersecting faces, a's face first.
func (o MeshOracle) CollideForDetails(a Model, ta mgl64.Mat4, b Model, tb mgl64.Mat4) []FacePair {
	var pairs []FacePair
	o.query(a, ta, b, tb, func(pair FacePair, _ triTriResult) bool {
		pairs = append(pairs, pair)
		return false
	})
	return pairs
}

// CollideBB reports whether the root boxes overlap, each one tested in the frame of the other.
func (MeshOracle) CollideBB(a Model, ta mgl64.Mat4, b Model, tb mgl64.Mat4) bool {
	toA := ta.Inv().Mul4(tb)
	toB := tb.Inv().Mul4(ta)

	return a.BoundingBox().Overlaps(b.BoundingBox().Transformed(toA)) &&
		b.BoundingBox().Overlaps(a.BoundingBox().Transformed(toB))
}

type pairVisitor func(pair FacePair, result triTriResult) (stop bool)

type meshQuery struct {
	a, b  *meshModel
	toA   mgl64.Mat4
	visit pairVisitor
}

// query walks both hierarchies in a's frame and hands every intersecting face pair to visit.
func (MeshOracle) query(a Model, ta mgl64.Mat4, b Model, tb mgl64.Mat4, visit pairVisitor) {
	ma, okA := a.(*meshModel)
	mb, okB := b.(*meshModel)
	if !okA || !okB || ma.tree.root() == nil || mb.tree.root() == nil {
		return
	}

	q := &meshQuery{a: ma, b: mb, toA: ta.Inv().Mul4(tb), visit: visit}
	q.descend(0, 0)
}

func (q *meshQuery) descend(ia, ib int) bool {
	na := &q.a.tree.nodes[ia]
	nb := &q.b.tree.nodes[ib]

	if !na.box.Overlaps(nb.box.Transformed(q.toA)) {
		return false
	}

	switch {
	case na.isLeaf() && nb.isLeaf():
		return q.leaves(na, nb)
	case nb.isLeaf() || (!na.isLeaf() && na.box.Span() >= nb.box.Span()):
		return q.descend(na.left, ib) || q.descend(na.right, ib)
	default:
		return q.descend(ia, nb.left) || q.descend(ia, nb.right)
	}
}

func (q *meshQuery) leaves(na, nb *bvhNode) bool {
	for _, fb := range q.b.tree.faces[nb.start:nb.end] {
		tb := worldTriangle(q.b, fb, q.toA)
		for _, fa := range q.a.tree.faces[na.start:na.end] {
			result := intersectTriangles(triangle(q.a.mesh.Triangle(fa)), tb)
			if result.hit && q.visit(FacePair{A: fa, B: fb}, result) {
				return true
			}
		}
	}
	return false
}
