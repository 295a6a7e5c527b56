// Package mesh holds the indexed triangle meshes that the collision oracles consume.
package mesh

import (
	"github.com/akmonengine/unitworld/actor"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// DefaultCells is the marching cubes resolution along the longest axis of a solid.
const DefaultCells = 64

// Mesh is an indexed triangle soup. Faces index into Vertices.
type Mesh struct {
	Vertices []mgl64.Vec3
	Faces    [][3]int
}

// Box returns a closed box centered on the origin, 8 vertices and 12 outward-wound faces.
func Box(halfExtents mgl64.Vec3) *Mesh {
	hx, hy, hz := halfExtents.X(), halfExtents.Y(), halfExtents.Z()
	return &Mesh{
		Vertices: []mgl64.Vec3{
			{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
			{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
		},
		Faces: [][3]int{
			{0, 2, 1}, {0, 3, 2}, // -Z
			{4, 5, 6}, {4, 6, 7}, // +Z
			{0, 1, 5}, {0, 5, 4}, // -Y
			{3, 6, 2}, {3, 7, 6}, // +Y
			{0, 4, 7}, {0, 7, 3}, // -X
			{1, 2, 6}, {1, 6, 5}, // +X
		},
	}
}

// FromSDF tessellates a signed distance solid with uniform marching cubes.
// Vertices shared by neighbouring triangles are welded.
func FromSDF(s sdf.SDF3, cells int) (*Mesh, error) {
	if s == nil {
		return nil, errors.New("nil solid")
	}
	if cells <= 0 {
		cells = DefaultCells
	}

	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	if len(triangles) == 0 {
		return nil, errors.New("solid produced no triangles")
	}

	m := &Mesh{Faces: make([][3]int, 0, len(triangles))}
	index := make(map[v3.Vec]int, len(triangles))
	for _, tri := range triangles {
		var face [3]int
		for j := 0; j < 3; j++ {
			v := tri[j]
			i, ok := index[v]
			if !ok {
				i = len(m.Vertices)
				index[v] = i
				m.Vertices = append(m.Vertices, mgl64.Vec3{v.X, v.Y, v.Z})
			}
			face[j] = i
		}
		if face[0] == face[1] || face[1] == face[2] || face[0] == face[2] {
			continue
		}
		m.Faces = append(m.Faces, face)
	}

	return m, nil
}

// Merge concatenates meshes into a new one, reindexing faces.
func Merge(meshes ...*Mesh) *Mesh {
	out := &Mesh{}
	for _, m := range meshes {
		if m == nil {
			continue
		}
		offset := len(out.Vertices)
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, f := range m.Faces {
			out.Faces = append(out.Faces, [3]int{f[0] + offset, f[1] + offset, f[2] + offset})
		}
	}
	return out
}

// Validate checks that every face references existing vertices.
func (m *Mesh) Validate() error {
	if m == nil {
		return errors.New("nil mesh")
	}
	for i, f := range m.Faces {
		for _, v := range f {
			if v < 0 || v >= len(m.Vertices) {
				return errors.Errorf("face %d references vertex %d out of %d", i, v, len(m.Vertices))
			}
		}
	}
	return nil
}

func (m *Mesh) BoundingBox() actor.AABB {
	return actor.AABBFromPoints(m.Vertices...)
}

// Center is the center of the bounding box, not the centroid.
func (m *Mesh) Center() mgl64.Vec3 {
	return m.BoundingBox().Center()
}

// Triangle returns the three corners of face i.
func (m *Mesh) Triangle(i int) [3]mgl64.Vec3 {
	f := m.Faces[i]
	return [3]mgl64.Vec3{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// FaceNormal returns the unit normal of face i following its winding.
// Degenerate faces return the zero vector.
func (m *Mesh) FaceNormal(i int) mgl64.Vec3 {
	t := m.Triangle(i)
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl64.Vec3{}
}

func (m *Mesh) FaceNormals(faces []int) []mgl64.Vec3 {
	normals := make([]mgl64.Vec3, len(faces))
	for k, i := range faces {
		normals[k] = m.FaceNormal(i)
	}
	return normals
}

// Transformed returns a copy with every vertex mapped through xform. Faces are shared.
func (m *Mesh) Transformed(xform mgl64.Mat4) *Mesh {
	out := &Mesh{
		Vertices: make([]mgl64.Vec3, len(m.Vertices)),
		Faces:    m.Faces,
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = mgl64.TransformCoordinate(v, xform)
	}
	return out
}
