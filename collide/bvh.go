package collide

import (
	"sort"

	"github.com/akmonengine/unitworld/actor"
	"github.com/akmonengine/unitworld/mesh"
)

// LeafSize is the largest number of faces kept in a single BVH leaf.
const LeafSize = 4

type bvhNode struct {
	box actor.AABB
	// children, -1 on leaves
	left, right int
	// faces[start:end] on leaves
	start, end int
}

func (n *bvhNode) isLeaf() bool {
	return n.left < 0
}

// bvh is a binary box hierarchy over the faces of a mesh. Faces are split at the median
// of their centroids along the longest axis of the node box.
type bvh struct {
	nodes []bvhNode
	faces []int
}

func buildBVH(m *mesh.Mesh) *bvh {
	tree := &bvh{faces: make([]int, len(m.Faces))}
	if len(m.Faces) == 0 {
		return tree
	}

	boxes := make([]actor.AABB, len(m.Faces))
	centroids := make([][3]float64, len(m.Faces))
	for i := range m.Faces {
		tri := m.Triangle(i)
		boxes[i] = actor.AABBFromPoints(tri[:]...)
		c := tri[0].Add(tri[1]).Add(tri[2]).Mul(1.0 / 3)
		centroids[i] = [3]float64{c.X(), c.Y(), c.Z()}
		tree.faces[i] = i
	}

	tree.build(0, len(m.Faces), boxes, centroids)
	return tree
}

func (t *bvh) build(start, end int, boxes []actor.AABB, centroids [][3]float64) int {
	box := actor.EmptyAABB()
	for _, f := range t.faces[start:end] {
		box = box.Union(boxes[f])
	}

	index := len(t.nodes)
	t.nodes = append(t.nodes, bvhNode{box: box, left: -1, right: -1, start: start, end: end})
	if end-start <= LeafSize {
		return index
	}

	axis := box.LongestAxis()
	span := t.faces[start:end]
	sort.Slice(span, func(i, j int) bool {
		return centroids[span[i]][axis] < centroids[span[j]][axis]
	})

	mid := (start + end) / 2
	left := t.build(start, mid, boxes, centroids)
	right := t.build(mid, end, boxes, centroids)
	t.nodes[index].left = left
	t.nodes[index].right = right

	return index
}

func (t *bvh) root() *bvhNode {
	if len(t.nodes) == 0 {
		return nil
	}
	return &t.nodes[0]
}
