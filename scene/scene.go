// Package scene places a triangle mesh in the world through a transform stack.
//
// A Scene never modifies its mesh. The placement is kept as a matrix (post-multiplied by
// every Scale, Rotate and Translate call) and a center that is subtracted first, so the
// calibration transform reads xform · T(-center).
package scene

import (
	"github.com/akmonengine/unitworld/actor"
	"github.com/akmonengine/unitworld/mesh"
	"github.com/deadsy/sdfx/sdf"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Provider is a triangle mesh with a mutable placement.
type Provider interface {
	Mesh() *mesh.Mesh
	BoundingBox() actor.AABB
	CalibrationTransform() mgl64.Mat4
	ResetTransform()
	Scale(factors mgl64.Vec3)
	Rotate(angle float64, axis mgl64.Vec3)
	MoveToCenter()
	OverrideCenter(center mgl64.Vec3)
	Clone() Provider
}

type Scene struct {
	mesh *mesh.Mesh

	xform  mgl64.Mat4
	center mgl64.Vec3

	overridden     bool
	overrideCenter mgl64.Vec3
}

// New wraps a mesh with an identity placement.
func New(m *mesh.Mesh) (*Scene, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid scene mesh")
	}
	if len(m.Faces) == 0 {
		return nil, errors.New("scene mesh has no faces")
	}

	return &Scene{mesh: m, xform: mgl64.Ident4()}, nil
}

// FromSolid tessellates an SDF solid and wraps the result.
func FromSolid(s sdf.SDF3, cells int) (*Scene, error) {
	m, err := mesh.FromSDF(s, cells)
	if err != nil {
		return nil, errors.Wrap(err, "tessellating solid")
	}
	return New(m)
}

func (s *Scene) Mesh() *mesh.Mesh {
	return s.mesh
}

// BoundingBox is the box of the untransformed mesh.
func (s *Scene) BoundingBox() actor.AABB {
	return s.mesh.BoundingBox()
}

// ResetTransform drops every accumulated transform and the recentering.
func (s *Scene) ResetTransform() {
	s.xform = mgl64.Ident4()
	s.center = mgl64.Vec3{}
}

func (s *Scene) Scale(factors mgl64.Vec3) {
	s.xform = s.xform.Mul4(mgl64.Scale3D(factors.X(), factors.Y(), factors.Z()))
}

// Rotate appends a rotation of angle radians around axis.
func (s *Scene) Rotate(angle float64, axis mgl64.Vec3) {
	s.xform = s.xform.Mul4(mgl64.HomogRotate3D(angle, axis.Normalize()))
}

func (s *Scene) Translate(offset mgl64.Vec3) {
	s.xform = s.xform.Mul4(mgl64.Translate3D(offset.X(), offset.Y(), offset.Z()))
}

// MoveToCenter recenters the mesh on the origin before any other transform.
// An overridden center takes precedence over the bounding box center.
func (s *Scene) MoveToCenter() {
	if s.overridden {
		s.center = s.overrideCenter
		return
	}
	s.center = s.mesh.Center()
}

// OverrideCenter replaces the point used by MoveToCenter.
func (s *Scene) OverrideCenter(center mgl64.Vec3) {
	s.overridden = true
	s.overrideCenter = center
}

// CalibrationTransform maps mesh coordinates to the placed frame.
func (s *Scene) CalibrationTransform() mgl64.Mat4 {
	c := s.center
	return s.xform.Mul4(mgl64.Translate3D(-c.X(), -c.Y(), -c.Z()))
}

// Clone returns a scene sharing the mesh with an independent placement.
func (s *Scene) Clone() Provider {
	c := *s
	return &c
}
